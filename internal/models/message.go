package models

import "time"

// GroupMessage is a message sent in a group. The body is stored encrypted
// with the group's key; Content carries the plaintext only on the API surface
// and is never written to the database.
type GroupMessage struct {
	ID         int       `db:"id" json:"id"`
	GroupID    int       `db:"group_id" json:"group_id"`
	SenderID   int       `db:"sender_id" json:"sender_id"`
	Content    string    `db:"-" json:"content"`
	Ciphertext string    `db:"ciphertext" json:"-"`
	Nonce      string    `db:"nonce" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
