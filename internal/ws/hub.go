package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
)

// Event is the wire format for every websocket frame in both directions
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub tracks live clients and their room memberships and fans events out
// to rooms. Delivery is best effort: only clients joined at broadcast time
// receive the event, and a client whose send buffer is full is skipped.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Join adds the client to a room. Joining twice is a no-op.
func (h *Hub) Join(c *Client, room string) {
	if room == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}

	h.logger.Debug("client joined room",
		zap.String("user_id", c.UserID.String()),
		zap.String("room", truncateRoom(room)),
	)
}

// Leave removes the client from a room
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// RemoveClient releases every room membership held by the client and closes
// its send channel. Safe to call more than once; only the first call has
// any effect.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	close(c.send)

	h.logger.Debug("client disconnected", zap.String("user_id", c.UserID.String()))
}

// EmitToRoom broadcasts an event to every current member of the room,
// including the sender if joined.
func (h *Hub) EmitToRoom(room, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		select {
		case c.send <- data:
		default:
			// Slow client; drop rather than block the broadcast.
		}
	}
}

// NotifyMatch implements domain.MatchNotifier. It pushes a match alert to
// every live session in the user's private room; delivery is not guaranteed
// and the match itself is already persisted either way.
func (h *Hub) NotifyMatch(userID uuid.UUID, with *domain.UserCard) {
	h.EmitToRoom(PrivateRoom(userID), EventMatchAlert, MatchAlertPayload{
		Message:  fmt.Sprintf("It's a match! You are now connected with %s.", with.FirstName),
		From:     with.FirstName,
		PhotoURL: with.PhotoURL,
	})
}

// MatchAlertPayload is pushed to the private room of the user whose pending
// request was just reciprocated.
type MatchAlertPayload struct {
	Message  string `json:"message"`
	From     string `json:"from"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

func truncateRoom(room string) string {
	if len(room) > 8 {
		return room[:8]
	}
	return room
}
