package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"group-service/internal/crypto"
	"group-service/internal/errs"
	"group-service/internal/models"
)

// MessageRepository persists group messages. Bodies are sealed with the
// group's key on the way in and opened on the way out, so the key never
// crosses into the handler layer.
type MessageRepository interface {
	CreateGroupMessage(ctx context.Context, groupID int, senderID int, content string) (models.GroupMessage, error)
	ListGroupMessages(ctx context.Context, groupID int) ([]models.GroupMessage, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db     *sqlx.DB
	cipher *crypto.Cipher
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB, cipher *crypto.Cipher) *MessageRepo {
	return &MessageRepo{db: db, cipher: cipher}
}

// CreateGroupMessage encrypts and persists a message body.
func (r *MessageRepo) CreateGroupMessage(ctx context.Context, groupID int, senderID int, content string) (models.GroupMessage, error) {
	key, err := r.groupKey(ctx, groupID)
	if err != nil {
		return models.GroupMessage{}, err
	}

	ciphertext, nonce, err := r.cipher.Encrypt(content, key)
	if err != nil {
		return models.GroupMessage{}, err
	}

	var msg models.GroupMessage
	if err := r.db.QueryRowxContext(ctx,
		`INSERT INTO group_messages (group_id, sender_id, ciphertext, nonce) VALUES ($1, $2, $3, $4)
         RETURNING id, group_id, sender_id, ciphertext, nonce, created_at`,
		groupID, senderID, ciphertext, nonce).
		StructScan(&msg); err != nil {
		return models.GroupMessage{}, errs.Internal(err)
	}
	msg.Content = content
	return msg, nil
}

// ListGroupMessages returns decrypted messages ordered by creation.
func (r *MessageRepo) ListGroupMessages(ctx context.Context, groupID int) ([]models.GroupMessage, error) {
	key, err := r.groupKey(ctx, groupID)
	if err != nil {
		return nil, err
	}

	msgs := []models.GroupMessage{}
	if err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, group_id, sender_id, ciphertext, nonce, created_at FROM group_messages
         WHERE group_id=$1 ORDER BY created_at ASC`, groupID); err != nil {
		return nil, errs.Internal(err)
	}

	for i := range msgs {
		content, err := r.cipher.Decrypt(msgs[i].Ciphertext, key, msgs[i].Nonce)
		if err != nil {
			return nil, err
		}
		msgs[i].Content = content
	}
	return msgs, nil
}

func (r *MessageRepo) groupKey(ctx context.Context, groupID int) (string, error) {
	var key string
	err := r.db.GetContext(ctx, &key, `SELECT encryption_key FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errs.NotFound("group", groupID)
	}
	if err != nil {
		return "", errs.Internal(err)
	}
	return key, nil
}
