package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type ConnectionStatus string

const (
	ConnectionStatusIgnored    ConnectionStatus = "ignored"
	ConnectionStatusInterested ConnectionStatus = "interested"
	ConnectionStatusAccepted   ConnectionStatus = "accepted"
	ConnectionStatusRejected   ConnectionStatus = "rejected"
)

// SwipeAction reports whether s is a status a swipe may create
func (s ConnectionStatus) SwipeAction() bool {
	return s == ConnectionStatusIgnored || s == ConnectionStatusInterested
}

// ReviewDecision reports whether s is a valid review outcome
func (s ConnectionStatus) ReviewDecision() bool {
	return s == ConnectionStatusAccepted || s == ConnectionStatusRejected
}

var (
	ErrInvalidTarget        = errors.New("cannot send a connection request to yourself")
	ErrInvalidAction        = errors.New("invalid swipe action")
	ErrInvalidDecision      = errors.New("decision must be accepted or rejected")
	ErrDuplicatePair        = errors.New("a connection request already exists for this pair")
	ErrRequestNotReviewable = errors.New("request invalid or already reviewed")
	// ErrNoPendingRequest is returned by PromotePending when no reverse
	// pending record exists; the caller falls back to creating a new one.
	ErrNoPendingRequest = errors.New("no pending request for pair")
)

// ConnectionRequest is a single swipe record between two users. At most one
// record exists per unordered user pair.
type ConnectionRequest struct {
	ID         uuid.UUID        `json:"id"`
	FromUserID uuid.UUID        `json:"fromUserId"`
	ToUserID   uuid.UUID        `json:"toUserId"`
	Status     ConnectionStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`

	// For API responses
	From *UserCard `json:"from,omitempty"`
	To   *UserCard `json:"to,omitempty"`
}

type ConnectionRepository interface {
	CreateRequest(ctx context.Context, fromID, toID uuid.UUID, status ConnectionStatus) (*ConnectionRequest, error)
	// PairExists checks both directions of the unordered pair, any status.
	PairExists(ctx context.Context, a, b uuid.UUID) (bool, error)
	// PromotePending atomically flips the fromID->toID record from
	// interested to accepted. Returns ErrNoPendingRequest when no such
	// pending record exists.
	PromotePending(ctx context.Context, fromID, toID uuid.UUID) (*ConnectionRequest, error)
	// Review atomically applies the decision, conditioned on the record id,
	// the reviewer being the recipient, and the status still being
	// interested. Returns ErrRequestNotReviewable otherwise.
	Review(ctx context.Context, requestID, reviewerID uuid.UUID, decision ConnectionStatus) (*ConnectionRequest, error)
	// PendingReceived lists interested requests addressed to the user,
	// with the sender card populated.
	PendingReceived(ctx context.Context, userID uuid.UUID) ([]*ConnectionRequest, error)
	// Accepted lists accepted requests involving the user in either
	// direction, with both cards populated.
	Accepted(ctx context.Context, userID uuid.UUID) ([]*ConnectionRequest, error)
}

// MatchNotifier delivers an out-of-band match alert to a user's private
// room. Best effort: the alert is lost if the user has no live session.
type MatchNotifier interface {
	NotifyMatch(userID uuid.UUID, with *UserCard)
}
