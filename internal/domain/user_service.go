package domain

import (
	"context"

	"github.com/devtalkx/backend/pkg/validator"
	"github.com/google/uuid"
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// UpdateProfile applies allow-listed edits; unknown fields never reach here
// because ProfileUpdate only carries the editable set.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*User, error) {
	var errs validator.ValidationErrors
	if update.FirstName != nil && !validator.ValidateName(*update.FirstName) {
		errs.Add("firstName", "must be between 2 and 50 characters")
	}
	if update.LastName != nil && !validator.ValidateName(*update.LastName) {
		errs.Add("lastName", "must be between 2 and 50 characters")
	}
	if update.PhotoURL != nil && !validator.ValidateURL(*update.PhotoURL) {
		errs.Add("photoUrl", "must be a valid http(s) URL")
	}
	if update.ProjectLink != nil && !validator.ValidateURL(*update.ProjectLink) {
		errs.Add("projectLink", "must be a valid http(s) URL")
	}
	if update.Age != nil && (*update.Age < 16 || *update.Age > 120) {
		errs.Add("age", "must be between 16 and 120")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	if update.Bio != nil {
		trimmed := validator.SanitizeString(*update.Bio, 500)
		update.Bio = &trimmed
	}

	return s.repo.UpdateProfile(ctx, userID, update)
}

// Feed returns paginated discovery cards, hiding the user themselves and
// anyone already in a connection-request pair with them.
func (s *UserService) Feed(ctx context.Context, userID uuid.UUID, page, limit int) ([]*UserCard, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	offset := (page - 1) * limit
	return s.repo.Feed(ctx, userID, limit, offset)
}
