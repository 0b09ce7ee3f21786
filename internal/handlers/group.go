package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"group-service/internal/access"
	"group-service/internal/models"
	"group-service/internal/observability"
	"group-service/internal/repositories"
	"group-service/internal/telemetry"
)

// GroupHandler manages group lifecycle endpoints.
type GroupHandler struct {
	groupRepo repositories.GroupRepository
	audit     *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groupRepo repositories.GroupRepository, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{groupRepo: groupRepo, audit: audit}
}

// CreateGroup handles POST /groups.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Visibility  string `json:"visibility" binding:"required"`
		MaxMembers  *int   `json:"max_members"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupRepo.CreateGroup(c.Request.Context(), userID, req.Name, req.Description, req.Visibility, req.MaxMembers)
	if err != nil {
		observability.IncGroupOp("create", "error")
		h.emitAudit(c, "ERROR", "group creation failed")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("create", "ok")
	h.emitAudit(c, "INFO", "Group created")
	c.JSON(http.StatusCreated, group)
}

// ListGroups returns groups the caller belongs to.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID := c.GetInt("userID")
	groups, err := h.groupRepo.ListGroupsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// SearchGroups handles discovery by visibility and name substring.
func (h *GroupHandler) SearchGroups(c *gin.Context) {
	visibility := c.DefaultQuery("visibility", models.VisibilityPublic)
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visibility must be public or private"})
		return
	}

	groups, err := h.groupRepo.SearchGroups(c.Request.Context(), visibility, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetGroup returns a single group. Non-members see the listing view without
// the member and admin sets.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	userID := c.GetInt("userID")
	if access.RoleOf(group, userID) == access.RoleNone {
		group.Members = nil
		group.Admins = nil
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroup removes a group and everything scoped to it. Owner only.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if err := h.groupRepo.DeleteGroup(c.Request.Context(), groupID, userID); err != nil {
		observability.IncGroupOp("delete", "error")
		h.emitAudit(c, "ERROR", "group deletion refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("delete", "ok")
	h.emitAudit(c, "INFO", "Group deleted")
	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
