package domain

import (
	"context"
	"errors"
	"time"

	"github.com/devtalkx/backend/internal/auth"
	"github.com/devtalkx/backend/pkg/validator"
)

// AuthService handles registration and login. It is the identity resolver
// for the rest of the system: everything downstream trusts the user id it
// puts inside the token.
type AuthService struct {
	users      UserRepository
	jwtManager *auth.JWTManager
	googleAuth *auth.GoogleAuthVerifier
}

func NewAuthService(users UserRepository, jwtManager *auth.JWTManager, googleAuth *auth.GoogleAuthVerifier) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		googleAuth: googleAuth,
	}
}

// SignupParams carries the registration request
type SignupParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthResult bundles the authenticated user with their session token
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Signup validates and registers a new developer profile
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (*User, error) {
	var errs validator.ValidationErrors
	if !validator.ValidateName(params.FirstName) {
		errs.Add("firstName", "must be between 2 and 50 characters")
	}
	if !validator.ValidateName(params.LastName) {
		errs.Add("lastName", "must be between 2 and 50 characters")
	}
	email := validator.SanitizeEmail(params.Email)
	if !validator.ValidateEmail(email) {
		errs.Add("email", "invalid email address")
	}
	errs = append(errs, validator.ValidatePassword(params.Password)...)
	if errs.HasErrors() {
		return nil, errs
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	return s.users.CreateUser(ctx, CreateUserParams{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        email,
		PasswordHash: hash,
	})
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, validator.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// GoogleLogin verifies a Google ID token, creating the profile on first
// sign-in.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.googleAuth == nil || !s.googleAuth.IsConfigured() {
		return nil, auth.ErrInvalidGoogleToken
	}

	gu, err := s.googleAuth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByGoogleID(ctx, gu.GoogleID)
	if errors.Is(err, ErrUserNotFound) {
		user, err = s.users.GetUserByEmail(ctx, validator.SanitizeEmail(gu.Email))
		if errors.Is(err, ErrUserNotFound) {
			first, last := splitName(gu.Name)
			var photo *string
			if gu.Picture != "" {
				photo = &gu.Picture
			}
			user, err = s.users.CreateUser(ctx, CreateUserParams{
				FirstName: first,
				LastName:  last,
				Email:     validator.SanitizeEmail(gu.Email),
				PhotoURL:  photo,
				GoogleID:  &gu.GoogleID,
			})
		}
	}
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *User) (*AuthResult, error) {
	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func splitName(full string) (first, last string) {
	first = full
	for i := len(full) - 1; i > 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return first, ""
}
