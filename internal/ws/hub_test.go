package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
)

func newTestClient() *Client {
	return NewClient(nil, uuid.New(), "Test", "User", "")
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return ev
	default:
		t.Fatal("expected a queued event, send buffer is empty")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected event queued: %s", data)
	default:
	}
}

func TestEmitToRoomReachesAllMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a, b, outsider := newTestClient(), newTestClient(), newTestClient()

	hub.Join(a, "room-1")
	hub.Join(b, "room-1")
	hub.Join(outsider, "room-2")

	hub.EmitToRoom("room-1", "ping", map[string]string{"k": "v"})

	for _, c := range []*Client{a, b} {
		ev := receiveEvent(t, c)
		if ev.Type != "ping" {
			t.Fatalf("expected event type %q, got %q", "ping", ev.Type)
		}
	}
	assertNoEvent(t, outsider)
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient()

	hub.Join(c, "room-1")
	hub.Leave(c, "room-1")
	hub.EmitToRoom("room-1", "ping", nil)

	assertNoEvent(t, c)
}

func TestJoinEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient()

	hub.Join(c, "")
	if len(c.rooms) != 0 {
		t.Fatal("joining an empty room name should do nothing")
	}
}

func TestRemoveClientReleasesAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient()

	hub.Join(c, "room-1")
	hub.Join(c, CommunityRoom)
	hub.RemoveClient(c)

	hub.EmitToRoom("room-1", "ping", nil)
	hub.EmitToRoom(CommunityRoom, "ping", nil)

	// send is closed; a delivered event would have panicked above.
	if _, ok := <-c.send; ok {
		t.Fatal("send channel should be closed after removal")
	}
}

func TestRemoveClientIsIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient()

	hub.Join(c, "room-1")
	hub.RemoveClient(c)
	hub.RemoveClient(c)

	// A closed client cannot rejoin.
	hub.Join(c, "room-1")
	hub.EmitToRoom("room-1", "ping", nil)
}

func TestNotifyMatchTargetsPrivateRoomOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())
	target, bystander := newTestClient(), newTestClient()

	hub.Join(target, PrivateRoom(target.UserID))
	hub.Join(bystander, PrivateRoom(bystander.UserID))

	hub.NotifyMatch(target.UserID, &domain.UserCard{ID: uuid.New(), FirstName: "Ada"})

	ev := receiveEvent(t, target)
	if ev.Type != EventMatchAlert {
		t.Fatalf("expected %q, got %q", EventMatchAlert, ev.Type)
	}
	assertNoEvent(t, bystander)
}

func TestBroadcastAfterJoinOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())
	early, late := newTestClient(), newTestClient()

	hub.Join(early, "room-1")
	hub.EmitToRoom("room-1", "first", nil)
	hub.Join(late, "room-1")

	if ev := receiveEvent(t, early); ev.Type != "first" {
		t.Fatalf("expected %q, got %q", "first", ev.Type)
	}
	assertNoEvent(t, late)
}
