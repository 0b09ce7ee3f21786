package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"group-service/internal/observability"
	"group-service/internal/repositories"
	"group-service/internal/telemetry"
)

// JoinRequestHandler manages the private-group admission endpoints.
type JoinRequestHandler struct {
	requestRepo repositories.JoinRequestRepository
	audit       *telemetry.AuditEmitter
}

// NewJoinRequestHandler constructs a JoinRequestHandler.
func NewJoinRequestHandler(requestRepo repositories.JoinRequestRepository, audit *telemetry.AuditEmitter) *JoinRequestHandler {
	return &JoinRequestHandler{requestRepo: requestRepo, audit: audit}
}

// Submit handles POST /groups/:group_id/requests.
func (h *JoinRequestHandler) Submit(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	request, err := h.requestRepo.Submit(c.Request.Context(), groupID, userID)
	if err != nil {
		observability.IncGroupOp("submit_request", "error")
		h.emitAudit(c, "ERROR", "join request refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("submit_request", "ok")
	h.emitAudit(c, "INFO", "Join request submitted")
	c.JSON(http.StatusCreated, request)
}

// ListPending handles GET /groups/:group_id/requests. Owner only.
func (h *JoinRequestHandler) ListPending(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	requests, err := h.requestRepo.ListPending(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Approve handles POST /groups/:group_id/requests/:user_id/approve. Owner only.
func (h *JoinRequestHandler) Approve(c *gin.Context) {
	groupID, userID, ok := parseGroupAndUserIDs(c)
	if !ok {
		return
	}

	approver := c.GetInt("userID")
	request, err := h.requestRepo.Approve(c.Request.Context(), groupID, userID, approver)
	if err != nil {
		observability.IncGroupOp("approve_request", "error")
		h.emitAudit(c, "ERROR", "join request approval refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("approve_request", "ok")
	h.emitAudit(c, "INFO", "Join request approved")
	c.JSON(http.StatusOK, request)
}

// Decline handles POST /groups/:group_id/requests/:user_id/decline. Owner only.
func (h *JoinRequestHandler) Decline(c *gin.Context) {
	groupID, userID, ok := parseGroupAndUserIDs(c)
	if !ok {
		return
	}

	approver := c.GetInt("userID")
	request, err := h.requestRepo.Decline(c.Request.Context(), groupID, userID, approver)
	if err != nil {
		observability.IncGroupOp("decline_request", "error")
		h.emitAudit(c, "ERROR", "join request decline refused")
		respondError(c, err)
		return
	}

	observability.IncGroupOp("decline_request", "ok")
	h.emitAudit(c, "INFO", "Join request declined")
	c.JSON(http.StatusOK, request)
}

func (h *JoinRequestHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
