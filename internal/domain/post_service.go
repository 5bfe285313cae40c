package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	maxPostTitleLen   = 100
	maxPostContentLen = 2000
)

var ErrInvalidPost = errors.New("title and content are required")

type PostService struct {
	repo PostRepository
}

func NewPostService(repo PostRepository) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) CreatePost(ctx context.Context, params CreatePostParams) (*Post, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Content = strings.TrimSpace(params.Content)
	if params.Title == "" || params.Content == "" {
		return nil, ErrInvalidPost
	}
	if len(params.Title) > maxPostTitleLen {
		params.Title = params.Title[:maxPostTitleLen]
	}
	if len(params.Content) > maxPostContentLen {
		params.Content = params.Content[:maxPostContentLen]
	}
	if params.Tags == nil {
		params.Tags = []string{}
	}
	return s.repo.CreatePost(ctx, params)
}

func (s *PostService) Explore(ctx context.Context, limit, offset int) ([]*Post, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return s.repo.Explore(ctx, limit, offset)
}

func (s *PostService) MyPosts(ctx context.Context, authorID uuid.UUID) ([]*Post, error) {
	return s.repo.PostsByAuthor(ctx, authorID)
}

// DeletePost removes a post after checking the caller is its author
func (s *PostService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrNotPostAuthor
	}
	return s.repo.DeletePost(ctx, postID)
}
