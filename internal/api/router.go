package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/auth"
	"github.com/devtalkx/backend/internal/middleware"
)

// Router wires handlers into the chi mux
type Router struct {
	auth       *AuthHandler
	users      *UserHandler
	requests   *RequestHandler
	chat       *ChatHandler
	posts      *PostHandler
	uploads    *UploadHandler
	health     *HealthHandler
	jwtManager *auth.JWTManager
	clientURL  string
	logger     *zap.Logger
}

func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	requestHandler *RequestHandler,
	chatHandler *ChatHandler,
	postHandler *PostHandler,
	uploadHandler *UploadHandler,
	healthHandler *HealthHandler,
	jwtManager *auth.JWTManager,
	clientURL string,
	logger *zap.Logger,
) *Router {
	return &Router{
		auth:       authHandler,
		users:      userHandler,
		requests:   requestHandler,
		chat:       chatHandler,
		posts:      postHandler,
		uploads:    uploadHandler,
		health:     healthHandler,
		jwtManager: jwtManager,
		clientURL:  clientURL,
		logger:     logger,
	}
}

// Setup configures and returns the chi router
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer(rt.logger))
	r.Use(middleware.RequestLogger(rt.logger))
	r.Use(middleware.CORS(rt.clientURL))

	r.Route("/health", func(r chi.Router) {
		r.Get("/", rt.health.Health)
		r.Get("/ready", rt.health.Ready)
		r.Get("/live", rt.health.Live)
	})

	// Public auth routes
	r.Post("/signup", rt.auth.Signup)
	r.Post("/login", rt.auth.Login)
	r.Post("/logout", rt.auth.Logout)
	r.Post("/auth/google", rt.auth.GoogleLogin)

	// Everything below requires a valid session
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(rt.jwtManager))

		r.Get("/profile/view", rt.users.ViewProfile)
		r.Patch("/profile/edit", rt.users.EditProfile)
		r.Get("/feed", rt.users.Feed)

		r.Post("/request/send/{status}/{toUserId}", rt.requests.Send)
		r.Post("/request/review/{status}/{requestId}", rt.requests.Review)
		r.Get("/user/requests/received", rt.requests.Received)
		r.Get("/user/connections", rt.requests.Connections)

		r.Get("/chat/{targetUserId}", rt.chat.History)
		r.Get("/community/messages", rt.chat.CommunityMessages)
		r.Get("/ws", rt.chat.HandleWebSocket)

		r.Post("/post/create", rt.posts.Create)
		r.Get("/posts/explore", rt.posts.Explore)
		r.Get("/posts/my", rt.posts.Mine)
		r.Delete("/post/{postId}", rt.posts.Delete)

		r.Post("/upload", rt.uploads.Upload)
	})

	return r
}
