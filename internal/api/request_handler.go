package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
	"github.com/devtalkx/backend/internal/middleware"
	"github.com/devtalkx/backend/pkg/response"
)

// RequestHandler serves the swipe and review endpoints
type RequestHandler struct {
	connections *domain.ConnectionService
	logger      *zap.Logger
}

func NewRequestHandler(connections *domain.ConnectionService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{connections: connections, logger: logger}
}

// Send records a swipe on the target user. The action path segment is
// "interested" or "ignored".
func (h *RequestHandler) Send(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	action := domain.ConnectionStatus(chi.URLParam(r, "status"))
	targetID, err := uuid.Parse(chi.URLParam(r, "toUserId"))
	if err != nil {
		response.BadRequest(w, "invalid target user id")
		return
	}

	result, err := h.connections.SubmitSwipe(r.Context(), actorID, targetID, action)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAction):
			response.BadRequest(w, "action must be 'interested' or 'ignored'")
		case errors.Is(err, domain.ErrInvalidTarget):
			response.BadRequest(w, "cannot send a request to yourself")
		case errors.Is(err, domain.ErrDuplicatePair):
			response.BadRequest(w, "a request between these users already exists")
		case errors.Is(err, domain.ErrUserNotFound):
			response.NotFound(w, "target user not found")
		default:
			h.logger.Error("swipe failed", zap.Error(err))
			response.InternalError(w, "could not record request")
		}
		return
	}

	msg := fmt.Sprintf("Request marked %s.", action)
	if result.Match {
		msg = "It's a match! You are now connected."
	}
	response.Matched(w, msg, result.Match, result.Request)
}

// Review accepts or rejects a pending request addressed to the caller.
// The decision path segment is "accepted" or "rejected".
func (h *RequestHandler) Review(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	decision := domain.ConnectionStatus(chi.URLParam(r, "status"))
	requestID, err := uuid.Parse(chi.URLParam(r, "requestId"))
	if err != nil {
		response.BadRequest(w, "invalid request id")
		return
	}

	request, err := h.connections.ReviewRequest(r.Context(), reviewerID, requestID, decision)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDecision):
			response.BadRequest(w, "decision must be 'accepted' or 'rejected'")
		case errors.Is(err, domain.ErrRequestNotReviewable):
			response.NotFound(w, "Request invalid or already compiled.")
		default:
			h.logger.Error("review failed", zap.Error(err))
			response.InternalError(w, "could not review request")
		}
		return
	}

	response.Message(w, http.StatusOK, fmt.Sprintf("Request %s.", decision), request)
}

// Received lists pending requests addressed to the caller
func (h *RequestHandler) Received(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	requests, err := h.connections.PendingReceived(r.Context(), userID)
	if err != nil {
		h.logger.Error("received requests query failed", zap.Error(err))
		response.InternalError(w, "could not load requests")
		return
	}

	response.OK(w, requests)
}

// Connections lists the caller's accepted connections as profile cards
func (h *RequestHandler) Connections(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	cards, err := h.connections.Connections(r.Context(), userID)
	if err != nil {
		h.logger.Error("connections query failed", zap.Error(err))
		response.InternalError(w, "could not load connections")
		return
	}

	response.OK(w, cards)
}
