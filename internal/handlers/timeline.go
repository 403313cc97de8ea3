package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gamechat-service/internal/repositories"
	"gamechat-service/internal/timeline"
)

// TimelineHandler serves bucketed room timelines.
type TimelineHandler struct {
	groupRepo  repositories.GroupRepository
	roomRepo   repositories.RoomRepository
	recordRepo repositories.RecordRepository
	scheme     timeline.Scheme
}

// NewTimelineHandler constructs a TimelineHandler.
func NewTimelineHandler(groupRepo repositories.GroupRepository, roomRepo repositories.RoomRepository, recordRepo repositories.RecordRepository, scheme timeline.Scheme) *TimelineHandler {
	return &TimelineHandler{
		groupRepo:  groupRepo,
		roomRepo:   roomRepo,
		recordRepo: recordRepo,
		scheme:     scheme,
	}
}

// GetTimeline handles GET /rooms/:room_key/timeline. The projection is
// rebuilt against the current wall clock on every call, so bucket
// membership stays fresh without record changes.
func (h *TimelineHandler) GetTimeline(c *gin.Context) {
	roomKey := c.Param("room_key")
	userID := c.GetString("userID")

	room, err := h.roomRepo.GetRoom(c.Request.Context(), roomKey)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "room not found"})
		return
	}

	member, err := h.groupRepo.IsMember(c.Request.Context(), room.GroupKey, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member"})
		return
	}

	records, err := h.recordRepo.ListRoomRecords(c.Request.Context(), room.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load records"})
		return
	}

	mat := timeline.NewMaterializer(room.Key, h.scheme)
	for _, r := range records {
		mat.OnRecordAdded(r)
	}

	c.JSON(http.StatusOK, mat.Materialize())
}
