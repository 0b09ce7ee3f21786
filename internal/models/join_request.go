package models

import "time"

// Join request statuses. Pending transitions to approved or rejected exactly
// once; a later submission creates a fresh record.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// JoinRequest is a private group's admission ticket.
type JoinRequest struct {
	ID          int        `db:"id" json:"id"`
	GroupID     int        `db:"group_id" json:"group_id"`
	UserID      int        `db:"user_id" json:"user_id"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}
