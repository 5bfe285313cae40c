package ws

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

func TestPairRoomIDSymmetry(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	if PairRoomID(a, b) != PairRoomID(b, a) {
		t.Fatal("pair room id should not depend on argument order")
	}
}

func TestPairRoomIDDistinctPairs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	if PairRoomID(a, b) == PairRoomID(a, c) {
		t.Fatal("different pairs should map to different rooms")
	}
}

func TestPairRoomIDFormat(t *testing.T) {
	room := PairRoomID(uuid.New(), uuid.New())

	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(room) {
		t.Fatalf("expected 64 lowercase hex characters, got %q", room)
	}
	if room == CommunityRoom {
		t.Fatal("pair room must not collide with the community room")
	}
}

func TestPrivateRoomIsUserID(t *testing.T) {
	id := uuid.New()
	if PrivateRoom(id) != id.String() {
		t.Fatalf("private room should be the user id, got %q", PrivateRoom(id))
	}
}
