package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a developer profile
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PhotoURL     *string   `json:"photoUrl,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	Skills       []string  `json:"skills"`
	DevRole      *string   `json:"devRole,omitempty"`
	ProjectLink  *string   `json:"projectLink,omitempty"`
	LookingFor   *string   `json:"lookingFor,omitempty"`
	GoogleID     *string   `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserCard is the safe public subset of a profile, shown on feeds,
// request lists and match alerts.
type UserCard struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	PhotoURL   string    `json:"photoUrl,omitempty"`
	Age        int       `json:"age,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	DevRole    string    `json:"devRole,omitempty"`
	LookingFor string    `json:"lookingFor,omitempty"`
}

// Card converts a User to its public card
func (u *User) Card() *UserCard {
	card := &UserCard{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Skills:    u.Skills,
	}
	if u.PhotoURL != nil {
		card.PhotoURL = *u.PhotoURL
	}
	if u.Age != nil {
		card.Age = *u.Age
	}
	if u.Gender != nil {
		card.Gender = *u.Gender
	}
	if u.Bio != nil {
		card.Bio = *u.Bio
	}
	if u.DevRole != nil {
		card.DevRole = *u.DevRole
	}
	if u.LookingFor != nil {
		card.LookingFor = *u.LookingFor
	}
	return card
}

// CreateUserParams carries the fields needed to register a user
type CreateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PhotoURL     *string
	GoogleID     *string
}

// ProfileUpdate carries the allow-listed, optional profile edits
type ProfileUpdate struct {
	FirstName   *string  `json:"firstName,omitempty"`
	LastName    *string  `json:"lastName,omitempty"`
	PhotoURL    *string  `json:"photoUrl,omitempty"`
	Gender      *string  `json:"gender,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	DevRole     *string  `json:"devRole,omitempty"`
	ProjectLink *string  `json:"projectLink,omitempty"`
	LookingFor  *string  `json:"lookingFor,omitempty"`
}

type UserRepository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	// Feed returns profiles the given user has not interacted with yet,
	// excluding the user themselves.
	Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*UserCard, error)
}
