package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"group-service/internal/observability"
	"group-service/internal/repositories"
	"group-service/internal/telemetry"
)

// MembershipHandler manages membership and role mutation endpoints.
type MembershipHandler struct {
	groupRepo repositories.GroupRepository
	audit     *telemetry.AuditEmitter
}

// NewMembershipHandler constructs a MembershipHandler.
func NewMembershipHandler(groupRepo repositories.GroupRepository, audit *telemetry.AuditEmitter) *MembershipHandler {
	return &MembershipHandler{groupRepo: groupRepo, audit: audit}
}

// JoinGroup handles POST /groups/:group_id/join (public groups only).
func (h *MembershipHandler) JoinGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if err := h.groupRepo.JoinPublic(c.Request.Context(), groupID, userID); err != nil {
		observability.IncGroupOp("join", "error")
		h.emitAudit(c, "ERROR", "join refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("join", "ok")
	h.emitAudit(c, "INFO", "User joined group")
	c.Status(http.StatusNoContent)
}

// LeaveGroup handles POST /groups/:group_id/leave.
func (h *MembershipHandler) LeaveGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if err := h.groupRepo.Leave(c.Request.Context(), groupID, userID); err != nil {
		observability.IncGroupOp("leave", "error")
		h.emitAudit(c, "ERROR", "leave refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("leave", "ok")
	h.emitAudit(c, "INFO", "User left group")
	c.Status(http.StatusNoContent)
}

// AddMember handles POST /groups/:group_id/members.
func (h *MembershipHandler) AddMember(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := c.GetInt("userID")
	if err := h.groupRepo.AddMember(c.Request.Context(), groupID, req.UserID, actor); err != nil {
		observability.IncGroupOp("add_member", "error")
		h.emitAudit(c, "ERROR", "add member refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("add_member", "ok")
	h.emitAudit(c, "INFO", "Member added")
	c.Status(http.StatusNoContent)
}

// RemoveMember handles DELETE /groups/:group_id/members/:user_id.
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	groupID, userID, ok := parseGroupAndUserIDs(c)
	if !ok {
		return
	}

	actor := c.GetInt("userID")
	if err := h.groupRepo.RemoveMember(c.Request.Context(), groupID, userID, actor); err != nil {
		observability.IncGroupOp("remove_member", "error")
		h.emitAudit(c, "ERROR", "remove member refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("remove_member", "ok")
	h.emitAudit(c, "INFO", "Member removed")
	c.Status(http.StatusNoContent)
}

// BanishMember handles POST /groups/:group_id/members/:user_id/banish.
// Owner only.
func (h *MembershipHandler) BanishMember(c *gin.Context) {
	groupID, userID, ok := parseGroupAndUserIDs(c)
	if !ok {
		return
	}

	actor := c.GetInt("userID")
	if err := h.groupRepo.Banish(c.Request.Context(), groupID, userID, actor); err != nil {
		observability.IncGroupOp("banish", "error")
		h.emitAudit(c, "ERROR", "banish refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("banish", "ok")
	h.emitAudit(c, "INFO", "Member banished")
	c.Status(http.StatusNoContent)
}

// UpdateRole handles PUT /groups/:group_id/members/:user_id/role.
func (h *MembershipHandler) UpdateRole(c *gin.Context) {
	groupID, userID, ok := parseGroupAndUserIDs(c)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := c.GetInt("userID")
	if err := h.groupRepo.UpdateRole(c.Request.Context(), groupID, userID, req.Role, actor); err != nil {
		observability.IncGroupOp("update_role", "error")
		h.emitAudit(c, "ERROR", "role update refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("update_role", "ok")
	h.emitAudit(c, "INFO", "Member role updated")
	c.Status(http.StatusNoContent)
}

// TransferOwnership handles POST /groups/:group_id/transfer. Owner only.
func (h *MembershipHandler) TransferOwnership(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := c.GetInt("userID")
	if err := h.groupRepo.TransferOwnership(c.Request.Context(), groupID, req.UserID, actor); err != nil {
		observability.IncGroupOp("transfer_ownership", "error")
		h.emitAudit(c, "ERROR", "ownership transfer refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("transfer_ownership", "ok")
	h.emitAudit(c, "INFO", "Ownership transferred")
	c.Status(http.StatusNoContent)
}

func (h *MembershipHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
