package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"group-service/internal/crypto"
	"group-service/internal/errs"
	"group-service/internal/membership"
	"group-service/internal/models"
)

// GroupRepository abstracts group persistence and membership mutations.
type GroupRepository interface {
	CreateGroup(ctx context.Context, ownerID int, name, description, visibility string, maxMembers *int) (models.Group, error)
	GetGroup(ctx context.Context, groupID int) (models.Group, error)
	DeleteGroup(ctx context.Context, groupID int, requestedBy int) error
	SearchGroups(ctx context.Context, visibility, nameQuery string) ([]models.Group, error)
	ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error)
	IsMember(ctx context.Context, groupID int, userID int) (bool, error)

	JoinPublic(ctx context.Context, groupID int, userID int) error
	Leave(ctx context.Context, groupID int, userID int) error
	AddMember(ctx context.Context, groupID int, userID int, actor int) error
	RemoveMember(ctx context.Context, groupID int, userID int, actor int) error
	Banish(ctx context.Context, groupID int, userID int, actor int) error
	UpdateRole(ctx context.Context, groupID int, userID int, role string, actor int) error
	TransferOwnership(ctx context.Context, groupID int, newOwnerID int, actor int) error
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db     *sqlx.DB
	cipher *crypto.Cipher
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB, cipher *crypto.Cipher) *GroupRepo {
	return &GroupRepo{db: db, cipher: cipher}
}

// CreateGroup creates a group with its encryption key and the owner seeded as
// member and admin, atomically.
func (r *GroupRepo) CreateGroup(ctx context.Context, ownerID int, name, description, visibility string, maxMembers *int) (models.Group, error) {
	if name == "" {
		return models.Group{}, errs.Invalid("group", "name is required")
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return models.Group{}, errs.Invalid("group", "visibility must be public or private")
	}
	if maxMembers != nil && *maxMembers < 1 {
		return models.Group{}, errs.Invalid("group", "max_members must be positive")
	}

	key, err := r.cipher.GenerateKey()
	if err != nil {
		return models.Group{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Group{}, errs.Internal(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var group models.Group
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO groups (name, description, visibility, owner_id, max_members, encryption_key)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, name, description, visibility, owner_id, max_members, encryption_key, created_at`,
		name, description, visibility, ownerID, maxMembers, key).
		StructScan(&group); err != nil {
		return models.Group{}, errs.Internal(err)
	}

	if err = insertMember(ctx, tx, group.ID, ownerID, true); err != nil {
		return models.Group{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Group{}, errs.Internal(err)
	}

	group.Members = []int{ownerID}
	group.Admins = []int{ownerID}
	return group, nil
}

// GetGroup fetches a group with its member and admin sets loaded.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group,
		`SELECT id, name, description, visibility, owner_id, max_members, encryption_key, created_at FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, errs.NotFound("group", groupID)
	}
	if err != nil {
		return models.Group{}, errs.Internal(err)
	}
	if err := loadMemberSets(ctx, r.db, &group); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// DeleteGroup removes the group and, through cascades committed in the same
// transaction, its join requests, messages, memberships and index entries.
func (r *GroupRepo) DeleteGroup(ctx context.Context, groupID int, requestedBy int) error {
	return r.mutate(ctx, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if g.OwnerID != requestedBy {
			return errs.Forbidden("group", groupID, "only the owner may delete the group")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id=$1`, groupID); err != nil {
			return errs.Internal(err)
		}
		return nil
	})
}

// SearchGroups finds groups by visibility and name substring (discovery).
func (r *GroupRepo) SearchGroups(ctx context.Context, visibility, nameQuery string) ([]models.Group, error) {
	groups := []models.Group{}
	err := r.db.SelectContext(ctx, &groups,
		`SELECT id, name, description, visibility, owner_id, max_members, created_at FROM groups
         WHERE visibility=$1 AND name ILIKE '%' || $2 || '%' ORDER BY created_at DESC`,
		visibility, nameQuery)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return groups, nil
}

// ListGroupsForUser returns groups from the user's joined-group index.
func (r *GroupRepo) ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error) {
	groups := []models.Group{}
	err := r.db.SelectContext(ctx, &groups,
		`SELECT g.id, g.name, g.description, g.visibility, g.owner_id, g.max_members, g.created_at
         FROM groups g INNER JOIN user_groups ug ON ug.group_id = g.id
         WHERE ug.user_id=$1 ORDER BY g.created_at DESC`, userID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return groups, nil
}

// IsMember checks membership against the authoritative member set.
func (r *GroupRepo) IsMember(ctx context.Context, groupID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id=$1 AND user_id=$2)`, groupID, userID)
	if err != nil {
		return false, errs.Internal(err)
	}
	return exists, nil
}

// JoinPublic adds the caller to a public group.
func (r *GroupRepo) JoinPublic(ctx context.Context, groupID int, userID int) error {
	return r.mutate(ctx, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckJoinPublic(g, userID); err != nil {
			return err
		}
		return insertMember(ctx, tx, groupID, userID, false)
	})
}

// Leave removes the caller from the group.
func (r *GroupRepo) Leave(ctx context.Context, groupID int, userID int) error {
	return r.mutate(ctx, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckLeave(g, userID); err != nil {
			return err
		}
		return removeMember(ctx, tx, groupID, userID)
	})
}

// AddMember lets an owner or admin add a user directly.
func (r *GroupRepo) AddMember(ctx context.Context, groupID int, userID int, actor int) error {
	return r.mutate(ctx, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckAddMember(g, userID, actor); err != nil {
			return err
		}
		return insertMember(ctx, tx, groupID, userID, false)
	})
}

// RemoveMember lets an owner or admin remove a member.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID int, userID int, actor int) error {
	return r.mutate(ctx, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckRemoveMember(g, userID, actor); err != nil {
			return err
		}
		return removeMember(ctx, tx, groupID, userID)
	})
}

// Banish removes a member as a permanent exclusion signal (owner only).
func (r *GroupRepo) Banish(ctx context.Context, groupID int, userID int, actor int) error {
	return r.mutate(ctx, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckBanish(g, userID, actor); err != nil {
			return err
		}
		return removeMember(ctx, tx, groupID, userID)
	})
}

// UpdateRole sets or clears a member's admin bit. Idempotent.
func (r *GroupRepo) UpdateRole(ctx context.Context, groupID int, userID int, role string, actor int) error {
	return r.mutate(ctx, groupID, func(tx *sqlx.Tx, g models.Group) error {
		admin, err := membership.CheckUpdateRole(g, userID, role, actor)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE group_members SET is_admin=$3 WHERE group_id=$1 AND user_id=$2`,
			groupID, userID, admin); err != nil {
			return errs.Internal(err)
		}
		return nil
	})
}

// TransferOwnership hands the group to another member. The new owner gains the
// admin bit; the previous owner keeps membership and admin status.
func (r *GroupRepo) TransferOwnership(ctx context.Context, groupID int, newOwnerID int, actor int) error {
	return r.mutate(ctx, groupID, func(tx *sqlx.Tx, g models.Group) error {
		if err := membership.CheckTransferOwnership(g, newOwnerID, actor); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE groups SET owner_id=$2 WHERE id=$1`, groupID, newOwnerID); err != nil {
			return errs.Internal(err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE group_members SET is_admin=TRUE WHERE group_id=$1 AND user_id=$2`,
			groupID, newOwnerID); err != nil {
			return errs.Internal(err)
		}
		return nil
	})
}

func (r *GroupRepo) mutate(ctx context.Context, groupID int, fn func(tx *sqlx.Tx, g models.Group) error) error {
	return withGroupTx(ctx, r.db, groupID, fn)
}
