package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one realtime message delivered to a room's subscribers
type Event struct {
	Room    string `json:"room"`
	Payload any    `json:"payload"`
}

// Subscription is a live attachment to a room. Events arrive on C until
// Unsubscribe is called, after which C is closed.
type Subscription struct {
	ID   uuid.UUID
	Room string
	C    chan Event
}

// Hub is an in-process, room-based fan-out. Delivery is best-effort:
// a subscriber whose buffer is full has the event dropped rather than
// blocking the publisher. Publishing to a room with no subscribers is a
// no-op.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[uuid.UUID]*Subscription
	buffer int
	logger *zap.Logger
}

// NewHub creates a hub whose subscribers each get a channel buffered to
// the given size
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		rooms:  make(map[string]map[uuid.UUID]*Subscription),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe attaches a new subscriber to a room
func (h *Hub) Subscribe(room string) *Subscription {
	sub := &Subscription{
		ID:   uuid.New(),
		Room: room,
		C:    make(chan Event, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[uuid.UUID]*Subscription)
	}
	h.rooms[room][sub.ID] = sub

	return sub
}

// Unsubscribe detaches a subscriber and closes its channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[sub.Room]
	if !ok {
		return
	}
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	if len(subs) == 0 {
		delete(h.rooms, sub.Room)
	}
	close(sub.C)
}

// Publish delivers a payload to every subscriber of the room without
// blocking. Slow subscribers lose the event.
func (h *Hub) Publish(room string, payload any) {
	event := Event{Room: room, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.rooms[room] {
		select {
		case sub.C <- event:
		default:
			h.logger.Warn("subscriber buffer full, dropping realtime event",
				zap.String("room", room),
				zap.String("subscriber_id", sub.ID.String()),
			)
		}
	}
}

// SubscriberCount returns the number of subscribers in a room
func (h *Hub) SubscriberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close unsubscribes everyone
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, subs := range h.rooms {
		for _, sub := range subs {
			close(sub.C)
		}
		delete(h.rooms, room)
	}
}
