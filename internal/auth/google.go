package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidGoogleToken = errors.New("invalid Google ID token")
	ErrGoogleEmailMissing = errors.New("email not found in Google token")
)

// GoogleUser represents the user info from Google
type GoogleUser struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// GoogleAuthVerifier handles Google ID token verification
type GoogleAuthVerifier struct {
	clientIDs []string
}

// NewGoogleAuthVerifier creates a new Google auth verifier
func NewGoogleAuthVerifier(clientIDs []string) *GoogleAuthVerifier {
	return &GoogleAuthVerifier{clientIDs: clientIDs}
}

// IsConfigured reports whether any client ID is set
func (v *GoogleAuthVerifier) IsConfigured() bool {
	return len(v.clientIDs) > 0
}

// VerifyIDToken verifies a Google ID token and returns the user info
func (v *GoogleAuthVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUser, error) {
	var payload *idtoken.Payload
	var err error

	for _, clientID := range v.clientIDs {
		payload, err = idtoken.Validate(ctx, idToken, clientID)
		if err == nil {
			break
		}
	}
	if payload == nil {
		return nil, ErrInvalidGoogleToken
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, ErrGoogleEmailMissing
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &GoogleUser{
		GoogleID: payload.Subject,
		Email:    email,
		Name:     name,
		Picture:  picture,
	}, nil
}
