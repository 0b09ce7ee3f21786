// Package access computes a caller's effective role and permissions for a
// group. It is pure: callers pass a freshly loaded group snapshot, never a
// cached role.
package access

import "group-service/internal/models"

// Role is a caller's effective standing in a group.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleNone   Role = "none"
)

// Permissions is the action set derived from a role.
type Permissions struct {
	// CanPost allows sending and reading group messages.
	CanPost bool
	// CanManage allows membership and role mutations, except anything that
	// touches the owner.
	CanManage bool
	// CanAdminister allows destructive and structural operations: delete
	// group, transfer ownership, approve/decline join requests, banish.
	CanAdminister bool
}

// RoleOf derives the caller's role from the group snapshot.
func RoleOf(g models.Group, userID int) Role {
	switch {
	case g.OwnerID == userID:
		return RoleOwner
	case g.IsAdmin(userID):
		return RoleAdmin
	case g.IsMember(userID):
		return RoleMember
	default:
		return RoleNone
	}
}

// PermissionsFor derives the caller's permission set from the group snapshot.
func PermissionsFor(g models.Group, userID int) Permissions {
	switch RoleOf(g, userID) {
	case RoleOwner:
		return Permissions{CanPost: true, CanManage: true, CanAdminister: true}
	case RoleAdmin:
		return Permissions{CanPost: true, CanManage: true}
	case RoleMember:
		return Permissions{CanPost: true}
	default:
		return Permissions{}
	}
}
