package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
)

// fakeChatRepo records writes in memory and can be told to fail.
type fakeChatRepo struct {
	mu        sync.Mutex
	messages  []*domain.ChatMessage
	community []*domain.CommunityMessage
	failWith  error
}

func (r *fakeChatRepo) AppendMessage(ctx context.Context, senderID, targetID uuid.UUID, text string) (*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	msg := &domain.ChatMessage{
		ID:        uuid.New(),
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *fakeChatRepo) ThreadMessages(ctx context.Context, a, b uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.ChatMessage(nil), r.messages...), nil
}

func (r *fakeChatRepo) SaveCommunityMessage(ctx context.Context, senderID uuid.UUID, in domain.CommunityMessageInput) (*domain.CommunityMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	msg := &domain.CommunityMessage{
		ID:          uuid.New(),
		SenderID:    senderID,
		Text:        in.Text,
		MessageType: in.MessageType,
		CreatedAt:   time.Now(),
	}
	r.community = append(r.community, msg)
	return msg, nil
}

func (r *fakeChatRepo) CommunityMessages(ctx context.Context, limit, offset int) ([]*domain.CommunityMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.CommunityMessage(nil), r.community...), nil
}

func (r *fakeChatRepo) messageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func newTestGateway(repo *fakeChatRepo) *Gateway {
	hub := NewHub(zap.NewNop())
	return NewGateway(hub, domain.NewChatService(repo), zap.NewNop())
}

func frame(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	return data
}

func TestSendMessagePersistsThenBroadcastsToPair(t *testing.T) {
	repo := &fakeChatRepo{}
	g := newTestGateway(repo)

	sender := newTestClient()
	receiver := newTestClient()
	g.hub.Join(sender, PairRoomID(sender.UserID, receiver.UserID))
	g.hub.Join(receiver, PairRoomID(sender.UserID, receiver.UserID))

	g.Dispatch(sender, frame(t, EventSendMessage, map[string]string{
		"targetUserId": receiver.UserID.String(),
		"text":         "hi",
	}))

	if repo.messageCount() != 1 {
		t.Fatalf("expected 1 persisted message, got %d", repo.messageCount())
	}

	for _, c := range []*Client{sender, receiver} {
		ev := receiveEvent(t, c)
		if ev.Type != EventMessageReceived {
			t.Fatalf("expected %q, got %q", EventMessageReceived, ev.Type)
		}
		payload, ok := ev.Payload.(map[string]interface{})
		if !ok {
			t.Fatalf("unexpected payload shape %T", ev.Payload)
		}
		if payload["senderId"] != sender.UserID.String() {
			t.Fatalf("expected senderId %s, got %v", sender.UserID, payload["senderId"])
		}
		if payload["text"] != "hi" {
			t.Fatalf("expected text %q, got %v", "hi", payload["text"])
		}
		assertNoEvent(t, c)
	}
}

func TestSendMessageWhitespaceIsSilentNoOp(t *testing.T) {
	repo := &fakeChatRepo{}
	g := newTestGateway(repo)

	sender := newTestClient()
	target := uuid.New()
	g.hub.Join(sender, PairRoomID(sender.UserID, target))

	g.Dispatch(sender, frame(t, EventSendMessage, map[string]string{
		"targetUserId": target.String(),
		"text":         "   ",
	}))

	if repo.messageCount() != 0 {
		t.Fatal("whitespace-only text must not reach the repository")
	}
	assertNoEvent(t, sender)
}

func TestSendMessageRepoFailureEmitsErrorToOriginOnly(t *testing.T) {
	repo := &fakeChatRepo{failWith: errors.New("db down")}
	g := newTestGateway(repo)

	sender := newTestClient()
	receiver := newTestClient()
	g.hub.Join(sender, PairRoomID(sender.UserID, receiver.UserID))
	g.hub.Join(receiver, PairRoomID(sender.UserID, receiver.UserID))

	g.Dispatch(sender, frame(t, EventSendMessage, map[string]string{
		"targetUserId": receiver.UserID.String(),
		"text":         "hi",
	}))

	ev := receiveEvent(t, sender)
	if ev.Type != EventError {
		t.Fatalf("expected %q, got %q", EventError, ev.Type)
	}
	assertNoEvent(t, receiver)
}

func TestJoinChatDerivesSameRoomForBothSides(t *testing.T) {
	g := newTestGateway(&fakeChatRepo{})
	a, b := newTestClient(), newTestClient()

	g.Dispatch(a, frame(t, EventJoinChat, map[string]string{"targetUserId": b.UserID.String()}))
	g.Dispatch(b, frame(t, EventJoinChat, map[string]string{"targetUserId": a.UserID.String()}))

	g.hub.EmitToRoom(PairRoomID(a.UserID, b.UserID), "ping", nil)

	for i, c := range []*Client{a, b} {
		if ev := receiveEvent(t, c); ev.Type != "ping" {
			t.Fatalf("client %d: expected ping, got %q", i, ev.Type)
		}
	}
}

func TestCommunityMessageBroadcastIncludesSender(t *testing.T) {
	repo := &fakeChatRepo{}
	g := newTestGateway(repo)

	sender := newTestClient()
	other := newTestClient()
	g.Dispatch(sender, frame(t, EventJoinCommunity, nil))
	g.Dispatch(other, frame(t, EventJoinCommunity, nil))

	g.Dispatch(sender, frame(t, EventSendCommunityMessage, map[string]string{
		"text": "hello everyone",
	}))

	for _, c := range []*Client{sender, other} {
		ev := receiveEvent(t, c)
		if ev.Type != EventCommunityMessageReceived {
			t.Fatalf("expected %q, got %q", EventCommunityMessageReceived, ev.Type)
		}
	}
}

func TestCommunityMessageFailureEmitsErrorToSenderOnly(t *testing.T) {
	repo := &fakeChatRepo{failWith: fmt.Errorf("db down")}
	g := newTestGateway(repo)

	sender := newTestClient()
	other := newTestClient()
	g.Dispatch(sender, frame(t, EventJoinCommunity, nil))
	g.Dispatch(other, frame(t, EventJoinCommunity, nil))

	g.Dispatch(sender, frame(t, EventSendCommunityMessage, map[string]string{
		"text": "hello",
	}))

	if ev := receiveEvent(t, sender); ev.Type != EventError {
		t.Fatalf("expected %q, got %q", EventError, ev.Type)
	}
	assertNoEvent(t, other)
}

func TestDispatchIgnoresMalformedFrames(t *testing.T) {
	g := newTestGateway(&fakeChatRepo{})
	c := newTestClient()

	g.Dispatch(c, []byte("not json"))
	g.Dispatch(c, frame(t, "no_such_event", nil))
	g.Dispatch(c, frame(t, EventSendMessage, map[string]string{"targetUserId": "not-a-uuid", "text": "x"}))

	assertNoEvent(t, c)
}
