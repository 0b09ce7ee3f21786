package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"group-service/internal/errs"
	"group-service/internal/models"
)

// withGroupTx runs fn inside a transaction holding the group's row lock.
// Every mutation of the same group serializes on that lock, so capacity and
// duplicate checks are evaluated against committed state and the checks commit
// together with the writes.
func withGroupTx(ctx context.Context, db *sqlx.DB, groupID int, fn func(tx *sqlx.Tx, g models.Group) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Internal(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var group models.Group
	if group, err = lockGroup(ctx, tx, groupID); err != nil {
		return err
	}
	if err = fn(tx, group); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		err = errs.Internal(err)
		return err
	}
	return nil
}

// lockGroup takes the group row lock and returns a snapshot with member and
// admin sets loaded.
func lockGroup(ctx context.Context, tx *sqlx.Tx, groupID int) (models.Group, error) {
	var group models.Group
	err := tx.QueryRowxContext(ctx,
		`SELECT id, name, description, visibility, owner_id, max_members, encryption_key, created_at
         FROM groups WHERE id=$1 FOR UPDATE`, groupID).
		StructScan(&group)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, errs.NotFound("group", groupID)
	}
	if err != nil {
		return models.Group{}, errs.Internal(err)
	}
	if err := loadMemberSets(ctx, tx, &group); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// loadMemberSets fills Members and Admins from group_members.
func loadMemberSets(ctx context.Context, q sqlx.QueryerContext, group *models.Group) error {
	rows := []struct {
		UserID  int  `db:"user_id"`
		IsAdmin bool `db:"is_admin"`
	}{}
	if err := sqlx.SelectContext(ctx, q, &rows,
		`SELECT user_id, is_admin FROM group_members WHERE group_id=$1 ORDER BY user_id`, group.ID); err != nil {
		return errs.Internal(err)
	}
	group.Members = make([]int, 0, len(rows))
	group.Admins = []int{}
	for _, row := range rows {
		group.Members = append(group.Members, row.UserID)
		if row.IsAdmin {
			group.Admins = append(group.Admins, row.UserID)
		}
	}
	return nil
}

// insertMember adds a membership row and reconciles the derived joined-groups
// index in the same transaction. group_members stays the source of truth.
func insertMember(ctx context.Context, tx *sqlx.Tx, groupID, userID int, admin bool) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, is_admin) VALUES ($1, $2, $3)`,
		groupID, userID, admin); err != nil {
		return errs.Internal(err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, groupID); err != nil {
		return errs.Internal(err)
	}
	return nil
}

// removeMember drops the membership row (admin bit goes with it) and the index
// entry.
func removeMember(ctx context.Context, tx *sqlx.Tx, groupID, userID int) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, userID); err != nil {
		return errs.Internal(err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_groups WHERE user_id=$1 AND group_id=$2`, userID, groupID); err != nil {
		return errs.Internal(err)
	}
	return nil
}
