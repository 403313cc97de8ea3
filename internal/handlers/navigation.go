package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamechat-service/internal/dispatch"
	"gamechat-service/internal/models"
	"gamechat-service/internal/repositories"
	"gamechat-service/internal/telemetry"
)

// NavigationHandler resolves screen targets from session state.
type NavigationHandler struct {
	dispatcher *dispatch.Dispatcher
	tracker    *dispatch.Tracker
	groupRepo  repositories.GroupRepository
	audit      *telemetry.AuditEmitter
}

// NewNavigationHandler constructs a NavigationHandler.
func NewNavigationHandler(dispatcher *dispatch.Dispatcher, tracker *dispatch.Tracker, groupRepo repositories.GroupRepository, audit *telemetry.AuditEmitter) *NavigationHandler {
	return &NavigationHandler{
		dispatcher: dispatcher,
		tracker:    tracker,
		groupRepo:  groupRepo,
		audit:      audit,
	}
}

// Resolve handles POST /navigate. Session state is derived from the
// caller's identity and group memberships; connectivity is reported by the
// client, which is the side that knows it.
func (h *NavigationHandler) Resolve(c *gin.Context) {
	var req struct {
		Kind      models.ScreenKind `json:"kind" binding:"required"`
		Connected *bool             `json:"connected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := models.SignedOutSession()
	if req.Connected != nil {
		state.Connected = *req.Connected
	}

	userID := userIDFromContext(c)
	if userID != nil {
		count, err := h.groupRepo.CountGroupsForUser(c.Request.Context(), *userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
			return
		}
		state.SignedIn = true
		state.JoinedGroupCount = count
	}
	h.tracker.Update(state)

	target, ok := h.dispatcher.ResolveKind(state, req.Kind)
	if !ok {
		// Unknown kind: caller keeps its current screen.
		c.Status(http.StatusNoContent)
		return
	}

	// The home screen drills into the per-account private default group.
	if userID != nil && (target.ScreenType == models.ScreenChatHomeRoom || target.ScreenType == models.ScreenGameHomeRoom) {
		group, room, err := h.groupRepo.EnsureDefaultGroup(c.Request.Context(), *userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare home room"})
			return
		}
		target.GroupKey = group.Key
		target.RoomKey = room.Key
	}

	c.JSON(http.StatusOK, target)
}

// ResolveTarget handles POST /navigate/target for directly addressed
// screens. An unknown screen type is a no-op, reported as 204.
func (h *NavigationHandler) ResolveTarget(c *gin.Context) {
	var req struct {
		ScreenType models.ScreenType `json:"screen_type"`
		Entry      *models.ListEntry `json:"entry"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, ok, err := h.dispatcher.ResolveExplicit(c.Request.Context(), req.ScreenType, req.Entry)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve target"})
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, target)
}

func (h *NavigationHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
