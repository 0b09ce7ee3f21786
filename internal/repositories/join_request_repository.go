package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"group-service/internal/errs"
	"group-service/internal/membership"
	"group-service/internal/models"
)

// JoinRequestRepository drives the private-group admission workflow.
type JoinRequestRepository interface {
	Submit(ctx context.Context, groupID int, userID int) (models.JoinRequest, error)
	Approve(ctx context.Context, groupID int, userID int, approver int) (models.JoinRequest, error)
	Decline(ctx context.Context, groupID int, userID int, approver int) (models.JoinRequest, error)
	ListPending(ctx context.Context, groupID int, caller int) ([]models.JoinRequest, error)
}

// JoinRequestRepo is a sqlx implementation of JoinRequestRepository.
type JoinRequestRepo struct {
	db *sqlx.DB
}

// NewJoinRequestRepo constructs a JoinRequestRepo.
func NewJoinRequestRepo(db *sqlx.DB) *JoinRequestRepo {
	return &JoinRequestRepo{db: db}
}

// Submit creates a pending request for a non-member of a private group. A
// fresh submission after a rejection creates a new record; history is kept.
func (r *JoinRequestRepo) Submit(ctx context.Context, groupID int, userID int) (models.JoinRequest, error) {
	var request models.JoinRequest
	err := withGroupTx(ctx, r.db, groupID, func(tx *sqlx.Tx, g models.Group) error {
		var hasPending bool
		if err := tx.GetContext(ctx, &hasPending,
			`SELECT EXISTS(SELECT 1 FROM join_requests WHERE group_id=$1 AND user_id=$2 AND status=$3)`,
			groupID, userID, models.StatusPending); err != nil {
			return errs.Internal(err)
		}
		if err := membership.CheckSubmitJoinRequest(g, userID, hasPending); err != nil {
			return err
		}

		err := tx.QueryRowxContext(ctx,
			`INSERT INTO join_requests (group_id, user_id, status) VALUES ($1, $2, $3)
             RETURNING id, group_id, user_id, status, created_at, processed_at`,
			groupID, userID, models.StatusPending).
			StructScan(&request)
		// the partial unique index backstops the pending check against races
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errs.Conflict("group", groupID, "request already pending")
		}
		if err != nil {
			return errs.Internal(err)
		}
		return nil
	})
	if err != nil {
		return models.JoinRequest{}, err
	}
	return request, nil
}

// Approve admits the requester: the membership insert and the status flip
// commit as one unit. A full group leaves the request pending for a retry.
func (r *JoinRequestRepo) Approve(ctx context.Context, groupID int, userID int, approver int) (models.JoinRequest, error) {
	var request models.JoinRequest
	err := withGroupTx(ctx, r.db, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckResolveJoinRequest(g, approver); err != nil {
			return err
		}
		pending, err := pendingRequest(ctx, tx, groupID, userID)
		if err != nil {
			return err
		}
		if err := membership.CheckApproveCapacity(g); err != nil {
			return err
		}

		if err := insertMember(ctx, tx, groupID, userID, false); err != nil {
			return err
		}
		if err := tx.QueryRowxContext(ctx,
			`UPDATE join_requests SET status=$2, processed_at=NOW() WHERE id=$1
             RETURNING id, group_id, user_id, status, created_at, processed_at`,
			pending.ID, models.StatusApproved).
			StructScan(&request); err != nil {
			return errs.Internal(err)
		}
		return nil
	})
	if err != nil {
		return models.JoinRequest{}, err
	}
	return request, nil
}

// Decline rejects the pending request without touching membership.
func (r *JoinRequestRepo) Decline(ctx context.Context, groupID int, userID int, approver int) (models.JoinRequest, error) {
	var request models.JoinRequest
	err := withGroupTx(ctx, r.db, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckResolveJoinRequest(g, approver); err != nil {
			return err
		}
		pending, err := pendingRequest(ctx, tx, groupID, userID)
		if err != nil {
			return err
		}

		if err := tx.QueryRowxContext(ctx,
			`UPDATE join_requests SET status=$2, processed_at=NOW() WHERE id=$1
             RETURNING id, group_id, user_id, status, created_at, processed_at`,
			pending.ID, models.StatusRejected).
			StructScan(&request); err != nil {
			return errs.Internal(err)
		}
		return nil
	})
	if err != nil {
		return models.JoinRequest{}, err
	}
	return request, nil
}

// ListPending returns the group's admission queue. Owner only.
func (r *JoinRequestRepo) ListPending(ctx context.Context, groupID int, caller int) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest
	err := withGroupTx(ctx, r.db, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckResolveJoinRequest(g, caller); err != nil {
			return err
		}
		if err := tx.SelectContext(ctx, &requests,
			`SELECT id, group_id, user_id, status, created_at, processed_at FROM join_requests
             WHERE group_id=$1 AND status=$2 ORDER BY created_at ASC`,
			groupID, models.StatusPending); err != nil {
			return errs.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.JoinRequest{}
	}
	return requests, nil
}

func pendingRequest(ctx context.Context, tx *sqlx.Tx, groupID, userID int) (models.JoinRequest, error) {
	var request models.JoinRequest
	err := tx.GetContext(ctx, &request,
		`SELECT id, group_id, user_id, status, created_at, processed_at FROM join_requests
         WHERE group_id=$1 AND user_id=$2 AND status=$3`,
		groupID, userID, models.StatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JoinRequest{}, errs.NotFound("join request", userID)
	}
	if err != nil {
		return models.JoinRequest{}, errs.Internal(err)
	}
	return request, nil
}
