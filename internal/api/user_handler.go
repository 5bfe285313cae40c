package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
	"github.com/devtalkx/backend/internal/middleware"
	"github.com/devtalkx/backend/pkg/response"
	"github.com/devtalkx/backend/pkg/validator"
)

// UserHandler serves profile and feed endpoints
type UserHandler struct {
	userService *domain.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *domain.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// ViewProfile returns the authenticated user's own profile
func (h *UserHandler) ViewProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	user, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.NotFound(w, "profile not found")
			return
		}
		h.logger.Error("profile fetch failed", zap.Error(err))
		response.InternalError(w, "could not load profile")
		return
	}

	response.OK(w, user)
}

// EditProfile applies a partial update to the authenticated user's profile
func (h *UserHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.NotFound(w, "profile not found")
			return
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.BadRequest(w, err.Error())
			return
		}
		h.logger.Error("profile update failed", zap.Error(err))
		response.InternalError(w, "could not update profile")
		return
	}

	response.Message(w, http.StatusOK, "Profile updated successfully.", user)
}

// Feed lists candidate profiles the user has not interacted with yet
func (h *UserHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	cards, err := h.userService.Feed(r.Context(), userID, page, limit)
	if err != nil {
		h.logger.Error("feed query failed", zap.Error(err))
		response.InternalError(w, "could not load feed")
		return
	}

	response.OK(w, cards)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
