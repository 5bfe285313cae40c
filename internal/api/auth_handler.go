package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
	"github.com/devtalkx/backend/pkg/response"
	"github.com/devtalkx/backend/pkg/validator"
)

// AuthHandler handles signup, login, logout and Google sign-in
type AuthHandler struct {
	authService *domain.AuthService
	secureCooky bool
	logger      *zap.Logger
}

func NewAuthHandler(authService *domain.AuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		secureCooky: secureCookie,
		logger:      logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// Signup registers a new developer profile. It does not log the user
// in; the client follows up with a login call.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var params domain.SignupParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.authService.Signup(r.Context(), params)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.Conflict(w, "an account with this email already exists")
			return
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.BadRequest(w, err.Error())
			return
		}
		h.logger.Error("signup failed", zap.Error(err))
		response.InternalError(w, "signup failed")
		return
	}

	response.Message(w, http.StatusCreated, "Account created successfully.", user)
}

// Login verifies credentials, sets the session cookie and returns the
// token in the body for non-browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(w, "email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound) {
			response.Unauthorized(w, "invalid email or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(w, "login failed")
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	response.OK(w, result)
}

// GoogleLogin exchanges a Google ID token for a session
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.IDToken == "" {
		response.BadRequest(w, "idToken is required")
		return
	}

	result, err := h.authService.GoogleLogin(r.Context(), req.IDToken)
	if err != nil {
		h.logger.Warn("google login rejected", zap.Error(err))
		response.Unauthorized(w, "google sign-in failed")
		return
	}

	h.setSessionCookie(w, result.Token, result.ExpiresAt)
	response.OK(w, result)
}

// Logout expires the session cookie. Tokens are stateless so there is
// nothing to revoke server side before expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCooky,
		SameSite: http.SameSiteLaxMode,
	})
	response.Message(w, http.StatusOK, "Logged out successfully.", nil)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCooky,
		SameSite: http.SameSiteLaxMode,
	})
}
