// Package membership holds the pure rule checks for every mutating group
// operation. The persistence layer calls them on a row-locked snapshot so the
// check and the write commit as one unit.
package membership

import (
	"group-service/internal/access"
	"group-service/internal/errs"
	"group-service/internal/models"
)

// CheckJoinPublic validates a direct join of a public group.
func CheckJoinPublic(g models.Group, userID int) error {
	if g.Visibility != models.VisibilityPublic {
		return errs.Conflict("group", g.ID, "private group requires a join request")
	}
	if g.IsMember(userID) {
		return errs.Conflict("group", g.ID, "already a member")
	}
	if g.AtCapacity() {
		return errs.Conflict("group", g.ID, "group full")
	}
	return nil
}

// CheckLeave validates a member leaving. The owner must transfer ownership
// first.
func CheckLeave(g models.Group, userID int) error {
	if !g.IsMember(userID) {
		return errs.Conflict("group", g.ID, "not a member")
	}
	if g.OwnerID == userID {
		return errs.Conflict("group", g.ID, "owner must transfer ownership before leaving")
	}
	return nil
}

// CheckAddMember validates an owner or admin adding a member directly.
func CheckAddMember(g models.Group, userID, actor int) error {
	if !access.PermissionsFor(g, actor).CanManage {
		return errs.Forbidden("group", g.ID, "requires owner or admin")
	}
	if g.IsMember(userID) {
		return errs.Conflict("group", g.ID, "already a member")
	}
	if g.AtCapacity() {
		return errs.Conflict("group", g.ID, "group full")
	}
	return nil
}

// CheckRemoveMember validates an owner or admin removing a member. The owner
// cannot be removed, only replaced via ownership transfer.
func CheckRemoveMember(g models.Group, userID, actor int) error {
	if !access.PermissionsFor(g, actor).CanManage {
		return errs.Forbidden("group", g.ID, "requires owner or admin")
	}
	if g.OwnerID == userID {
		return errs.Conflict("group", g.ID, "owner cannot be removed")
	}
	if !g.IsMember(userID) {
		return errs.Conflict("group", g.ID, "not a member")
	}
	return nil
}

// CheckBanish validates a permanent exclusion. Owner only. There is no
// block-list: a banished user may rejoin later. Targeting the owner is a
// conflict no matter who asks, so that check runs before the permission gate.
func CheckBanish(g models.Group, userID, actor int) error {
	if g.OwnerID == userID {
		return errs.Conflict("group", g.ID, "owner cannot be banished")
	}
	if !access.PermissionsFor(g, actor).CanAdminister {
		return errs.Forbidden("group", g.ID, "requires owner")
	}
	if !g.IsMember(userID) {
		return errs.Conflict("group", g.ID, "not a member")
	}
	return nil
}

// CheckUpdateRole validates promoting or demoting a member and returns whether
// the admin bit should be set. The owner's role is immutable via this path.
func CheckUpdateRole(g models.Group, userID int, role string, actor int) (admin bool, err error) {
	if !access.PermissionsFor(g, actor).CanManage {
		return false, errs.Forbidden("group", g.ID, "requires owner or admin")
	}
	if role != string(access.RoleAdmin) && role != string(access.RoleMember) {
		return false, errs.Invalid("role", "must be admin or member")
	}
	if g.OwnerID == userID {
		return false, errs.Conflict("group", g.ID, "owner role cannot be changed")
	}
	if !g.IsMember(userID) {
		return false, errs.Conflict("group", g.ID, "not a member")
	}
	return role == string(access.RoleAdmin), nil
}

// CheckTransferOwnership validates handing the group to another member. The
// previous owner keeps membership and admin status.
func CheckTransferOwnership(g models.Group, newOwnerID, actor int) error {
	if g.OwnerID != actor {
		return errs.Forbidden("group", g.ID, "requires owner")
	}
	if !g.IsMember(newOwnerID) {
		return errs.NotFound("member", newOwnerID)
	}
	return nil
}

// CheckSubmitJoinRequest validates a non-member requesting admission to a
// private group. hasPending reflects an existing pending request for the pair.
func CheckSubmitJoinRequest(g models.Group, userID int, hasPending bool) error {
	if g.Visibility == models.VisibilityPublic {
		return errs.Conflict("group", g.ID, "public group is joined directly")
	}
	if g.IsMember(userID) {
		return errs.Conflict("group", g.ID, "already a member")
	}
	if hasPending {
		return errs.Conflict("group", g.ID, "request already pending")
	}
	return nil
}

// CheckResolveJoinRequest validates approving or declining. Admission is an
// owner-only gate, like the other structural operations.
func CheckResolveJoinRequest(g models.Group, approver int) error {
	if !access.PermissionsFor(g, approver).CanAdminister {
		return errs.Forbidden("group", g.ID, "requires owner")
	}
	return nil
}

// CheckApproveCapacity validates that an approval fits the capacity bound.
// On failure the request stays pending so it can be retried later.
func CheckApproveCapacity(g models.Group) error {
	if g.AtCapacity() {
		return errs.Conflict("group", g.ID, "group full")
	}
	return nil
}
