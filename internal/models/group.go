package models

import "time"

// Visibility controls how a group is entered: public groups are joined
// directly, private groups go through the join-request workflow.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Group represents a chat group. EncryptionKey stays inside the persistence
// and crypto layers and is never serialized in API responses.
type Group struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description,omitempty"`
	Visibility    string    `db:"visibility" json:"visibility"`
	OwnerID       int       `db:"owner_id" json:"owner_id"`
	MaxMembers    *int      `db:"max_members" json:"max_members,omitempty"`
	EncryptionKey string    `db:"encryption_key" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	// Members and Admins are loaded alongside the row. Admins is always a
	// subset of Members and always contains the owner.
	Members []int `db:"-" json:"members,omitempty"`
	Admins  []int `db:"-" json:"admins,omitempty"`
}

// IsMember reports whether userID is in the loaded member set.
func (g Group) IsMember(userID int) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID is in the loaded admin set.
func (g Group) IsAdmin(userID int) bool {
	for _, id := range g.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// AtCapacity reports whether the member set has reached max_members.
func (g Group) AtCapacity() bool {
	return g.MaxMembers != nil && len(g.Members) >= *g.MaxMembers
}

// GroupEvent is emitted over WebSocket connections for groups.
type GroupEvent struct {
	Type    string        `json:"type"`
	Message *GroupMessage `json:"message,omitempty"`
}
