package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
	"github.com/devtalkx/backend/internal/middleware"
	"github.com/devtalkx/backend/internal/ws"
	"github.com/devtalkx/backend/pkg/response"
)

// ChatHandler serves chat history endpoints and the websocket upgrade
type ChatHandler struct {
	chatService *domain.ChatService
	userService *domain.UserService
	gateway     *ws.Gateway
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

func NewChatHandler(chatService *domain.ChatService, userService *domain.UserService, gateway *ws.Gateway, clientURL string, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		userService: userService,
		gateway:     gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == clientURL
			},
		},
		logger: logger,
	}
}

// History returns the message thread between the caller and the target
// user, oldest first.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetUserId"))
	if err != nil {
		response.BadRequest(w, "invalid target user id")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := 0
	if page := queryInt(r, "page", 1); page > 1 {
		offset = (page - 1) * limit
	}

	messages, err := h.chatService.ThreadMessages(r.Context(), userID, targetID, limit, offset)
	if err != nil {
		h.logger.Error("chat history query failed", zap.Error(err))
		response.InternalError(w, "could not load messages")
		return
	}

	response.OK(w, messages)
}

// CommunityMessages returns the global community log, newest first
func (h *ChatHandler) CommunityMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := 0
	if page := queryInt(r, "page", 1); page > 1 {
		offset = (page - 1) * limit
	}

	messages, err := h.chatService.CommunityMessages(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("community messages query failed", zap.Error(err))
		response.InternalError(w, "could not load messages")
		return
	}

	response.OK(w, messages)
}

// HandleWebSocket upgrades the connection and starts the client pumps.
// Auth middleware has already validated the token; the session identity
// is what every subsequent event is attributed to.
func (h *ChatHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	user, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.Unauthorized(w, "unknown user")
			return
		}
		h.logger.Error("websocket profile lookup failed", zap.Error(err))
		response.InternalError(w, "could not establish session")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	photoURL := ""
	if user.PhotoURL != nil {
		photoURL = *user.PhotoURL
	}

	client := ws.NewClient(conn, user.ID, user.FirstName, user.LastName, photoURL)

	go client.WritePump()
	go client.ReadPump(h.gateway)
}
