package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("not authorized to modify this post")
)

// Post is a short article shared on the explore feed
type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	PhotoURL  *string   `json:"photoUrl,omitempty"`
	LinkURL   *string   `json:"linkUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *UserCard `json:"author,omitempty"`
}

type CreatePostParams struct {
	AuthorID uuid.UUID
	Title    string
	Content  string
	Tags     []string
	PhotoURL *string
	LinkURL  *string
}

type PostRepository interface {
	CreatePost(ctx context.Context, params CreatePostParams) (*Post, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	// Explore lists all posts newest first, author card populated.
	Explore(ctx context.Context, limit, offset int) ([]*Post, error)
	PostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error)
}
