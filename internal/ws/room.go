package ws

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// CommunityRoom is the single global broadcast channel. Pair rooms are
// 64-hex digests and private rooms are UUID strings, so the namespaces
// cannot collide.
const CommunityRoom = "community"

// PairRoomID derives the stable room id for a 1:1 channel between two
// users. Ids are sorted before hashing, so PairRoomID(a, b) == PairRoomID(b, a).
// The digest is a namespace key, not a secret.
func PairRoomID(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(strings.Join(ids, "$")))
	return hex.EncodeToString(sum[:])
}

// PrivateRoom is the per-user channel for server-initiated alerts such as
// match notifications.
func PrivateRoom(userID uuid.UUID) string {
	return userID.String()
}
