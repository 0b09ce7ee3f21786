package membership

import (
	"testing"

	"github.com/stretchr/testify/require"

	"group-service/internal/errs"
	"group-service/internal/models"
)

const (
	ownerID    = 10
	adminID    = 20
	memberID   = 30
	outsiderID = 40
)

func publicGroup(maxMembers *int) models.Group {
	return models.Group{
		ID:         1,
		Visibility: models.VisibilityPublic,
		OwnerID:    ownerID,
		MaxMembers: maxMembers,
		Members:    []int{ownerID, adminID, memberID},
		Admins:     []int{ownerID, adminID},
	}
}

func privateGroup() models.Group {
	g := publicGroup(nil)
	g.Visibility = models.VisibilityPrivate
	return g
}

func intPtr(v int) *int { return &v }

func TestCheckJoinPublic(t *testing.T) {
	require.NoError(t, CheckJoinPublic(publicGroup(nil), outsiderID))

	err := CheckJoinPublic(privateGroup(), outsiderID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	err = CheckJoinPublic(publicGroup(nil), memberID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCheckJoinPublicCapacity(t *testing.T) {
	// two slots, both taken
	g := models.Group{
		ID:         1,
		Visibility: models.VisibilityPublic,
		OwnerID:    ownerID,
		MaxMembers: intPtr(2),
		Members:    []int{ownerID, memberID},
		Admins:     []int{ownerID},
	}
	err := CheckJoinPublic(g, outsiderID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
	require.Contains(t, err.Error(), "group full")

	require.NoError(t, CheckJoinPublic(publicGroup(intPtr(4)), outsiderID))
}

func TestCheckLeave(t *testing.T) {
	require.NoError(t, CheckLeave(publicGroup(nil), memberID))
	require.NoError(t, CheckLeave(publicGroup(nil), adminID))

	err := CheckLeave(publicGroup(nil), outsiderID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	err = CheckLeave(publicGroup(nil), ownerID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCheckAddMember(t *testing.T) {
	require.NoError(t, CheckAddMember(publicGroup(nil), outsiderID, ownerID))
	require.NoError(t, CheckAddMember(publicGroup(nil), outsiderID, adminID))

	err := CheckAddMember(publicGroup(nil), outsiderID, memberID)
	require.Equal(t, errs.KindForbidden, errs.KindOf(err))

	err = CheckAddMember(publicGroup(nil), memberID, ownerID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	err = CheckAddMember(publicGroup(intPtr(3)), outsiderID, ownerID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCheckRemoveMember(t *testing.T) {
	require.NoError(t, CheckRemoveMember(publicGroup(nil), memberID, ownerID))
	require.NoError(t, CheckRemoveMember(publicGroup(nil), memberID, adminID))

	err := CheckRemoveMember(publicGroup(nil), memberID, memberID)
	require.Equal(t, errs.KindForbidden, errs.KindOf(err))

	err = CheckRemoveMember(publicGroup(nil), ownerID, adminID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	err = CheckRemoveMember(publicGroup(nil), outsiderID, ownerID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCheckBanishOwnerOnly(t *testing.T) {
	require.NoError(t, CheckBanish(publicGroup(nil), memberID, ownerID))

	// admins hold manage permission but banish stays owner-gated
	err := CheckBanish(publicGroup(nil), memberID, adminID)
	require.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestCheckBanishOwnerTarget(t *testing.T) {
	err := CheckBanish(publicGroup(nil), ownerID, ownerID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	// an admin's manage rights do not soften the refusal to Forbidden
	err = CheckBanish(publicGroup(nil), ownerID, adminID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	err = CheckBanish(publicGroup(nil), ownerID, memberID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCheckUpdateRole(t *testing.T) {
	admin, err := CheckUpdateRole(publicGroup(nil), memberID, "admin", ownerID)
	require.NoError(t, err)
	require.True(t, admin)

	admin, err = CheckUpdateRole(publicGroup(nil), adminID, "member", ownerID)
	require.NoError(t, err)
	require.False(t, admin)

	_, err = CheckUpdateRole(publicGroup(nil), memberID, "superuser", ownerID)
	require.Equal(t, errs.KindInvalid, errs.KindOf(err))

	_, err = CheckUpdateRole(publicGroup(nil), ownerID, "member", adminID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	_, err = CheckUpdateRole(publicGroup(nil), outsiderID, "admin", ownerID)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	_, err = CheckUpdateRole(publicGroup(nil), memberID, "admin", memberID)
	require.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestCheckUpdateRoleIdempotent(t *testing.T) {
	g := publicGroup(nil)

	// promoting an existing admin resolves to the same admin bit
	admin, err := CheckUpdateRole(g, adminID, "admin", ownerID)
	require.NoError(t, err)
	require.True(t, admin)

	admin, err = CheckUpdateRole(g, memberID, "member", ownerID)
	require.NoError(t, err)
	require.False(t, admin)
}

func TestCheckTransferOwnership(t *testing.T) {
	require.NoError(t, CheckTransferOwnership(publicGroup(nil), memberID, ownerID))

	err := CheckTransferOwnership(publicGroup(nil), memberID, adminID)
	require.Equal(t, errs.KindForbidden, errs.KindOf(err))

	err = CheckTransferOwnership(publicGroup(nil), outsiderID, ownerID)
	require.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestCheckSubmitJoinRequest(t *testing.T) {
	require.NoError(t, CheckSubmitJoinRequest(privateGroup(), outsiderID, false))

	err := CheckSubmitJoinRequest(publicGroup(nil), outsiderID, false)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	err = CheckSubmitJoinRequest(privateGroup(), memberID, false)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	err = CheckSubmitJoinRequest(privateGroup(), outsiderID, true)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCheckResolveJoinRequestOwnerOnly(t *testing.T) {
	require.NoError(t, CheckResolveJoinRequest(privateGroup(), ownerID))

	err := CheckResolveJoinRequest(privateGroup(), adminID)
	require.Equal(t, errs.KindForbidden, errs.KindOf(err))

	err = CheckResolveJoinRequest(privateGroup(), outsiderID)
	require.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestCheckApproveCapacity(t *testing.T) {
	require.NoError(t, CheckApproveCapacity(publicGroup(nil)))
	require.NoError(t, CheckApproveCapacity(publicGroup(intPtr(4))))

	err := CheckApproveCapacity(publicGroup(intPtr(3)))
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
	require.Contains(t, err.Error(), "group full")
}
