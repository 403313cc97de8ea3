package ws

import (
	"sync"

	"gamechat-service/internal/models"
	"gamechat-service/internal/observability"
)

// TaggedEvent is a record event stamped with the subscriber's context
// generation at enqueue time. Consumers hand the tag to their timeline
// manager, which discards deliveries from a superseded context.
type TaggedEvent struct {
	Gen   uint64
	Event models.RecordEvent
}

// Subscriber receives record events for the room it is subscribed to.
type Subscriber struct {
	Events chan TaggedEvent
	Info   ConnInfo
}

// NewSubscriber creates a subscriber with a buffered event channel.
func NewSubscriber(info ConnInfo, buffer int) *Subscriber {
	return &Subscriber{Events: make(chan TaggedEvent, buffer), Info: info}
}

// Hub fans record events out to room subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscriber]uint64)}
}

// Subscribe registers a subscriber to a room, recording the generation its
// deliveries will be tagged with.
func (h *Hub) Subscribe(roomKey string, sub *Subscriber, gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[roomKey]; !ok {
		h.subs[roomKey] = make(map[*Subscriber]uint64)
	}
	h.subs[roomKey][sub] = gen
}

// Unsubscribe removes a subscriber from a room.
func (h *Hub) Unsubscribe(roomKey string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subs[roomKey]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, roomKey)
		}
	}
}

// SubscriberCount reports how many subscribers a room has.
func (h *Hub) SubscriberCount(roomKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[roomKey])
}

// Broadcast delivers a record event to every subscriber of the room. Slow
// subscribers drop the event rather than block the caller.
func (h *Hub) Broadcast(roomKey string, ev models.RecordEvent) {
	h.mu.RLock()
	targets := make(map[*Subscriber]uint64, len(h.subs[roomKey]))
	for sub, gen := range h.subs[roomKey] {
		targets[sub] = gen
	}
	h.mu.RUnlock()

	for sub, gen := range targets {
		select {
		case sub.Events <- TaggedEvent{Gen: gen, Event: ev}:
		default:
			observability.IncTimelineDiscard("slow_subscriber")
		}
	}
}
