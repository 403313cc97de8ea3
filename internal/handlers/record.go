package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gamechat-service/internal/models"
	"gamechat-service/internal/observability"
	"gamechat-service/internal/repositories"
	"gamechat-service/internal/telemetry"
	"gamechat-service/internal/ws"
)

// RecordHandler manages room record endpoints.
type RecordHandler struct {
	groupRepo  repositories.GroupRepository
	roomRepo   repositories.RoomRepository
	recordRepo repositories.RecordRepository
	hub        *ws.Hub
	audit      *telemetry.AuditEmitter
}

// NewRecordHandler builds a RecordHandler.
func NewRecordHandler(groupRepo repositories.GroupRepository, roomRepo repositories.RoomRepository, recordRepo repositories.RecordRepository, hub *ws.Hub, audit *telemetry.AuditEmitter) *RecordHandler {
	return &RecordHandler{
		groupRepo:  groupRepo,
		roomRepo:   roomRepo,
		recordRepo: recordRepo,
		hub:        hub,
		audit:      audit,
	}
}

// roomForMember loads the room and verifies the caller's membership.
func (h *RecordHandler) roomForMember(c *gin.Context) (models.Room, bool) {
	roomKey := c.Param("room_key")
	userID := c.GetString("userID")

	room, err := h.roomRepo.GetRoom(c.Request.Context(), roomKey)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "room not found"})
		return models.Room{}, false
	}

	member, err := h.groupRepo.IsMember(c.Request.Context(), room.GroupKey, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
		return models.Room{}, false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member"})
		return models.Room{}, false
	}
	return room, true
}

// ListRecords returns the room's records in creation order.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	room, ok := h.roomForMember(c)
	if !ok {
		return
	}

	records, err := h.recordRepo.ListRoomRecords(c.Request.Context(), room.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// PostRecord stores a record and broadcasts it to room subscribers.
func (h *RecordHandler) PostRecord(c *gin.Context) {
	room, ok := h.roomForMember(c)
	if !ok {
		return
	}

	var req struct {
		Kind     models.RecordKind `json:"kind" binding:"required"`
		GameType string            `json:"game_type"`
		Content  string            `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Kind != models.RecordKindMessage && req.Kind != models.RecordKindExperience {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown record kind"})
		return
	}
	if req.Kind == models.RecordKindExperience && req.GameType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "experience requires game_type"})
		return
	}

	userID := c.GetString("userID")
	record, err := h.recordRepo.CreateRecord(c.Request.Context(), room, userID, req.Kind, req.GameType, req.Content)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store record"})
		return
	}

	event := models.RecordEvent{Type: models.EventRecordAdded, Record: &record}
	h.hub.Broadcast(room.Key, event)
	_ = observability.PublishEvent(c.Request.Context(), "records."+string(record.Kind), event,
		observability.BuildHeaders(requestIDFromContext(c), ""))

	h.emitAudit(c, "INFO", "Record created")
	c.JSON(http.StatusCreated, record)
}

// DeleteRecord removes a record; only the author may delete.
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	room, ok := h.roomForMember(c)
	if !ok {
		return
	}
	recordID := c.Param("record_id")
	userID := c.GetString("userID")

	record, err := h.recordRepo.GetRecord(c.Request.Context(), room.Key, recordID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "record not found"})
		return
	}
	if record.AuthorID != userID {
		h.emitAudit(c, "ERROR", "not allowed to delete")
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may delete"})
		return
	}

	if err := h.recordRepo.DeleteRecord(c.Request.Context(), room.Key, recordID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete record"})
		return
	}

	event := models.RecordEvent{Type: models.EventRecordRemoved, RecordID: recordID}
	h.hub.Broadcast(room.Key, event)
	_ = observability.PublishEvent(c.Request.Context(), "records."+string(record.Kind), event,
		observability.BuildHeaders(requestIDFromContext(c), ""))

	h.emitAudit(c, "INFO", "Record deleted")
	c.Status(http.StatusNoContent)
}

func (h *RecordHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
