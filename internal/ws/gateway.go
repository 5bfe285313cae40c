package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
)

// Inbound event types
const (
	EventJoinPrivateRoom      = "join_private_room"
	EventJoinChat             = "joinChat"
	EventSendMessage          = "sendMessage"
	EventJoinCommunity        = "join_community"
	EventSendCommunityMessage = "send_community_message"
)

// Outbound event types
const (
	EventMessageReceived          = "messageReceived"
	EventCommunityMessageReceived = "community_message_received"
	EventMatchAlert               = "match_alert"
	EventError                    = "error"
)

// persistTimeout bounds repository writes triggered by socket events. The
// write deliberately does not inherit the connection's lifetime: a client
// disconnecting mid-flight must not cancel a persistence that was already
// issued.
const persistTimeout = 10 * time.Second

// ChatStore is the slice of the chat service the gateway needs
type ChatStore interface {
	SendMessage(ctx context.Context, senderID, targetID uuid.UUID, text string) (*domain.ChatMessage, error)
	PostCommunityMessage(ctx context.Context, senderID uuid.UUID, in domain.CommunityMessageInput) (*domain.CommunityMessage, error)
}

// Gateway routes inbound client events to the chat service and broadcasts
// the results. Persistence always completes before any broadcast, so
// delivery order within a room follows persistence order.
type Gateway struct {
	hub    *Hub
	chat   ChatStore
	logger *zap.Logger
}

func NewGateway(hub *Hub, chat ChatStore, logger *zap.Logger) *Gateway {
	return &Gateway{
		hub:    hub,
		chat:   chat,
		logger: logger,
	}
}

// Hub exposes the gateway's hub for targeted server-side emits
func (g *Gateway) Hub() *Hub {
	return g.hub
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type targetPayload struct {
	TargetUserID string `json:"targetUserId"`
}

type sendMessagePayload struct {
	TargetUserID string `json:"targetUserId"`
	Text         string `json:"text"`
}

// MessageReceivedPayload is broadcast to the pair room after a private
// message is persisted. CreatedAt is server-assigned.
type MessageReceivedPayload struct {
	SenderID  uuid.UUID `json:"senderId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Dispatch handles one inbound frame from a client. Unknown or malformed
// events are ignored; the connection stays up.
func (g *Gateway) Dispatch(c *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.logger.Debug("malformed websocket frame", zap.String("user_id", c.UserID.String()))
		return
	}

	switch env.Type {
	case EventJoinPrivateRoom:
		g.hub.Join(c, PrivateRoom(c.UserID))

	case EventJoinChat:
		target, ok := parseTarget(env.Payload)
		if !ok {
			return
		}
		g.hub.Join(c, PairRoomID(c.UserID, target))

	case EventSendMessage:
		g.handleSendMessage(c, env.Payload)

	case EventJoinCommunity:
		g.hub.Join(c, CommunityRoom)

	case EventSendCommunityMessage:
		g.handleCommunityMessage(c, env.Payload)

	default:
		g.logger.Debug("unknown event type",
			zap.String("type", env.Type), zap.String("user_id", c.UserID.String()))
	}
}

func (g *Gateway) handleSendMessage(c *Client, payload json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}
	target, err := uuid.Parse(p.TargetUserID)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	msg, err := g.chat.SendMessage(ctx, c.UserID, target, p.Text)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			// Whitespace-only text: silent no-op per the send contract.
			return
		}
		g.logger.Error("failed to persist message",
			zap.String("sender_id", c.UserID.String()), zap.Error(err))
		c.Emit(EventError, errorPayload{Message: "Message could not be sent"})
		return
	}

	g.hub.EmitToRoom(PairRoomID(c.UserID, target), EventMessageReceived, MessageReceivedPayload{
		SenderID:  c.UserID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	})
}

func (g *Gateway) handleCommunityMessage(c *Client, payload json.RawMessage) {
	var in domain.CommunityMessageInput
	if err := json.Unmarshal(payload, &in); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	msg, err := g.chat.PostCommunityMessage(ctx, c.UserID, in)
	if err != nil {
		g.logger.Error("failed to persist community message",
			zap.String("sender_id", c.UserID.String()), zap.Error(err))
		c.Emit(EventError, errorPayload{Message: "Message could not be sent"})
		return
	}

	msg.Sender = &domain.UserCard{
		ID:        c.UserID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		PhotoURL:  c.PhotoURL,
	}
	g.hub.EmitToRoom(CommunityRoom, EventCommunityMessageReceived, msg)
}

func parseTarget(payload json.RawMessage) (uuid.UUID, bool) {
	var p targetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return uuid.Nil, false
	}
	target, err := uuid.Parse(p.TargetUserID)
	if err != nil {
		return uuid.Nil, false
	}
	return target, true
}
