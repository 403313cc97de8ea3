package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"gamechat-service/internal/middleware"
	"gamechat-service/internal/models"
	"gamechat-service/internal/observability"
	"gamechat-service/internal/repositories"
	"gamechat-service/internal/timeline"
)

// TimelineWSHandler serves one websocket connection per client context. The
// client switches its active room over the socket; record events and
// materialized timeline snapshots flow back.
type TimelineWSHandler struct {
	hub        *Hub
	groupRepo  repositories.GroupRepository
	roomRepo   repositories.RoomRepository
	recordRepo repositories.RecordRepository
	verifier   *middleware.TokenVerifier
	scheme     timeline.Scheme
}

// NewTimelineWSHandler constructs a TimelineWSHandler.
func NewTimelineWSHandler(hub *Hub, groupRepo repositories.GroupRepository, roomRepo repositories.RoomRepository, recordRepo repositories.RecordRepository, verifier *middleware.TokenVerifier, scheme timeline.Scheme) *TimelineWSHandler {
	return &TimelineWSHandler{
		hub:        hub,
		groupRepo:  groupRepo,
		roomRepo:   roomRepo,
		recordRepo: recordRepo,
		verifier:   verifier,
		scheme:     scheme,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type clientCommand struct {
	Action  string `json:"action"`
	RoomKey string `json:"room_key"`
}

type serverMessage struct {
	Type     string                 `json:"type"`
	Timeline *timeline.BucketedList `json:"timeline,omitempty"`
	Event    *models.RecordEvent    `json:"event,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// Handle upgrades the connection and runs the per-connection event loop.
func (h *TimelineWSHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("gamechat-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := ""
	if bearer, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
		token = bearer
	} else {
		token = c.Query("token")
	}

	userID, err := h.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.timeline", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload(info, "ws_connect", 0, ""),
	}, observability.BuildHeaders(requestID, traceID))

	sub := NewSubscriber(info, 64)
	manager := timeline.NewManager(h.scheme)
	commands := make(chan clientCommand)
	done := make(chan string, 1)

	// Reader goroutine: decode client commands, report the close reason.
	go func() {
		defer close(commands)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				reason := err.Error()
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					reason = ""
				}
				done <- reason
				return
			}
			var cmd clientCommand
			if err := json.Unmarshal(payload, &cmd); err != nil {
				log.Printf("websocket bad command: %v", err)
				continue
			}
			commands <- cmd
		}
	}()

	go h.runLoop(ctx, conn, sub, manager, commands, done, info)
}

// runLoop owns all writes to the connection and all mutations of the
// manager, so deliveries and room switches are serialized.
func (h *TimelineWSHandler) runLoop(ctx context.Context, conn *websocket.Conn, sub *Subscriber, manager *timeline.Manager, commands chan clientCommand, done chan string, info ConnInfo) {
	activeRoom := ""
	closeReason := ""
	defer func() {
		if activeRoom != "" {
			h.hub.Unsubscribe(activeRoom, sub)
		}
		manager.Deactivate()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		_ = observability.PublishEvent(ctx, "ws_events.timeline", observability.EventEnvelope{
			EventType: "ws_events",
			EventName: "ws_disconnect",
			Payload:   wsEventPayload(info, "ws_disconnect", time.Since(info.ConnectedAt).Milliseconds(), closeReason),
		}, observability.BuildHeaders(info.RequestID, info.TraceID))
		conn.Close()
	}()

	for {
		select {
		case reason := <-done:
			closeReason = reason
			if reason != "" {
				observability.IncWSEvent("ws_error")
			}
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			switch cmd.Action {
			case "switch":
				activeRoom = h.switchRoom(ctx, conn, sub, manager, activeRoom, cmd.RoomKey, info.UserID)
			case "refresh":
				h.pushSnapshot(conn, manager)
			default:
				h.writeMessage(conn, serverMessage{Type: "error", Error: "unknown action"})
			}
		case te := <-sub.Events:
			if manager.Deliver(te.Gen, te.Event) {
				ev := te.Event
				h.writeMessage(conn, serverMessage{Type: ev.Type, Event: &ev})
			}
		}
	}
}

func (h *TimelineWSHandler) switchRoom(ctx context.Context, conn *websocket.Conn, sub *Subscriber, manager *timeline.Manager, activeRoom, roomKey, userID string) string {
	room, err := h.roomRepo.GetRoom(ctx, roomKey)
	if err != nil {
		h.writeMessage(conn, serverMessage{Type: "error", Error: "room not found"})
		return activeRoom
	}
	member, err := h.groupRepo.IsMember(ctx, room.GroupKey, userID)
	if err != nil || !member {
		h.writeMessage(conn, serverMessage{Type: "error", Error: "not a member"})
		return activeRoom
	}

	if activeRoom != "" {
		h.hub.Unsubscribe(activeRoom, sub)
	}
	mat, gen := manager.Activate(roomKey)
	h.hub.Subscribe(roomKey, sub, gen)

	records, err := h.recordRepo.ListRoomRecords(ctx, roomKey)
	if err != nil {
		log.Printf("websocket hydrate failed room=%s: %v", roomKey, err)
	}
	for _, r := range records {
		mat.OnRecordAdded(r)
	}

	h.pushSnapshot(conn, manager)
	return roomKey
}

func (h *TimelineWSHandler) pushSnapshot(conn *websocket.Conn, manager *timeline.Manager) {
	list, ok := manager.Snapshot()
	if !ok {
		h.writeMessage(conn, serverMessage{Type: "error", Error: "no active room"})
		return
	}
	h.writeMessage(conn, serverMessage{Type: "timeline", Timeline: &list})
}

func (h *TimelineWSHandler) writeMessage(conn *websocket.Conn, msg serverMessage) {
	payload, _ := json.Marshal(msg)
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}

func wsEventPayload(info ConnInfo, event string, durationMS int64, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": durationMS,
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
