package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
	"github.com/devtalkx/backend/internal/middleware"
	"github.com/devtalkx/backend/pkg/response"
)

// PostHandler serves the community posts endpoints
type PostHandler struct {
	posts  *domain.PostService
	logger *zap.Logger
}

func NewPostHandler(posts *domain.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

type createPostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
	PhotoURL *string  `json:"photoUrl,omitempty"`
	LinkURL  *string  `json:"linkUrl,omitempty"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	post, err := h.posts.CreatePost(r.Context(), domain.CreatePostParams{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		PhotoURL: req.PhotoURL,
		LinkURL:  req.LinkURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPost) {
			response.BadRequest(w, "title and content are required")
			return
		}
		h.logger.Error("post creation failed", zap.Error(err))
		response.InternalError(w, "could not create post")
		return
	}

	response.Message(w, http.StatusCreated, "Post created successfully.", post)
}

func (h *PostHandler) Explore(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := 0
	if page := queryInt(r, "page", 1); page > 1 {
		offset = (page - 1) * limit
	}

	posts, err := h.posts.Explore(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("explore query failed", zap.Error(err))
		response.InternalError(w, "could not load posts")
		return
	}

	response.OK(w, posts)
}

func (h *PostHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	posts, err := h.posts.MyPosts(r.Context(), userID)
	if err != nil {
		h.logger.Error("my posts query failed", zap.Error(err))
		response.InternalError(w, "could not load posts")
		return
	}

	response.OK(w, posts)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		response.BadRequest(w, "invalid post id")
		return
	}

	if err := h.posts.DeletePost(r.Context(), userID, postID); err != nil {
		switch {
		case errors.Is(err, domain.ErrPostNotFound):
			response.NotFound(w, "post not found")
		case errors.Is(err, domain.ErrNotPostAuthor):
			response.Forbidden(w, "only the author can delete this post")
		default:
			h.logger.Error("post deletion failed", zap.Error(err))
			response.InternalError(w, "could not delete post")
		}
		return
	}

	response.Message(w, http.StatusOK, "Post deleted successfully.", nil)
}
