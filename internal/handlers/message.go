package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"group-service/internal/access"
	"group-service/internal/repositories"
	"group-service/internal/telemetry"
	"group-service/internal/ws"
)

// MessageHandler manages group message endpoints.
type MessageHandler struct {
	groupRepo   repositories.GroupRepository
	messageRepo repositories.MessageRepository
	hub         *ws.Hub
	audit       *telemetry.AuditEmitter
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(groupRepo repositories.GroupRepository, messageRepo repositories.MessageRepository, hub *ws.Hub, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{groupRepo: groupRepo, messageRepo: messageRepo, hub: hub, audit: audit}
}

// PostMessage encrypts, persists and broadcasts a group message.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if !h.canPost(c, groupID, userID) {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageRepo.CreateGroupMessage(c.Request.Context(), groupID, userID, req.Content)
	if err != nil {
		h.emitAudit(c, "ERROR", "failed to store message")
		respondError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastMessage(groupID, msg)
	}
	h.emitAudit(c, "INFO", "Group message sent")
	c.JSON(http.StatusCreated, msg)
}

// ListMessages returns the group's decrypted messages to a member.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if !h.canPost(c, groupID, userID) {
		return
	}

	msgs, err := h.messageRepo.ListGroupMessages(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// canPost derives posting rights from a fresh group snapshot and writes the
// refusal when they are missing.
func (h *MessageHandler) canPost(c *gin.Context, groupID, userID int) bool {
	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		respondError(c, err)
		return false
	}
	if !access.PermissionsFor(group, userID).CanPost {
		h.emitAudit(c, "ERROR", "not allowed")
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member"})
		return false
	}
	return true
}

func (h *MessageHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
