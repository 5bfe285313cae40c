package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// SwipeResult is the outcome of a single swipe action
type SwipeResult struct {
	Request *ConnectionRequest
	Match   bool
}

// ConnectionService owns the swipe/review state machine. All mutation goes
// through the repository's atomic operations; the service itself holds no
// state and takes no locks.
type ConnectionService struct {
	repo     ConnectionRepository
	users    UserRepository
	notifier MatchNotifier
}

func NewConnectionService(repo ConnectionRepository, users UserRepository, notifier MatchNotifier) *ConnectionService {
	return &ConnectionService{
		repo:     repo,
		users:    users,
		notifier: notifier,
	}
}

// SubmitSwipe records a swipe from actor toward target. A swipe of
// "interested" against an existing reverse pending request promotes that
// record to accepted instead of creating a second one, and fires a match
// alert at the target's private room.
func (s *ConnectionService) SubmitSwipe(ctx context.Context, actorID, targetID uuid.UUID, action ConnectionStatus) (*SwipeResult, error) {
	if !action.SwipeAction() {
		return nil, ErrInvalidAction
	}
	if actorID == targetID {
		return nil, ErrInvalidTarget
	}

	exists, err := s.users.UserExists(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	// The promotion attempt must come before the duplicate-pair guard: the
	// reverse pending record is exactly what an interested swipe promotes,
	// so it must not count as a duplicate.
	if action == ConnectionStatusInterested {
		promoted, err := s.repo.PromotePending(ctx, targetID, actorID)
		switch {
		case err == nil:
			s.alertMatch(ctx, actorID, targetID)
			return &SwipeResult{Request: promoted, Match: true}, nil
		case !errors.Is(err, ErrNoPendingRequest):
			return nil, err
		}
	}

	taken, err := s.repo.PairExists(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicatePair
	}

	req, err := s.repo.CreateRequest(ctx, actorID, targetID, action)
	if err != nil {
		return nil, err
	}
	return &SwipeResult{Request: req}, nil
}

// alertMatch notifies the original sender (the swipe target) that their
// pending request was just reciprocated. Delivery is best effort and never
// fails the swipe.
func (s *ConnectionService) alertMatch(ctx context.Context, actorID, targetID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	actor, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return
	}
	s.notifier.NotifyMatch(targetID, actor.Card())
}

// ReviewRequest applies an accept/reject decision to a pending request. The
// repository performs a single conditional update, so racing reviewers (or a
// review racing an instant-match promotion) resolve to exactly one winner.
func (s *ConnectionService) ReviewRequest(ctx context.Context, reviewerID, requestID uuid.UUID, decision ConnectionStatus) (*ConnectionRequest, error) {
	if !decision.ReviewDecision() {
		return nil, ErrInvalidDecision
	}
	return s.repo.Review(ctx, requestID, reviewerID, decision)
}

// PendingReceived lists interested requests addressed to the user
func (s *ConnectionService) PendingReceived(ctx context.Context, userID uuid.UUID) ([]*ConnectionRequest, error) {
	return s.repo.PendingReceived(ctx, userID)
}

// Connections lists the user's accepted matches as counterpart cards
func (s *ConnectionService) Connections(ctx context.Context, userID uuid.UUID) ([]*UserCard, error) {
	accepted, err := s.repo.Accepted(ctx, userID)
	if err != nil {
		return nil, err
	}

	cards := make([]*UserCard, 0, len(accepted))
	for _, req := range accepted {
		if req.FromUserID == userID {
			cards = append(cards, req.To)
		} else {
			cards = append(cards, req.From)
		}
	}
	return cards, nil
}
