package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chirper/internal/handler"
	"chirper/internal/httputil"
	authmw "chirper/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	PostHandler         *handler.PostHandler
	NotificationHandler *handler.NotificationHandler
	TokenVerifier       authmw.TokenVerifier
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", cfg.AuthHandler.Signup)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.TokenVerifier))

		r.Get("/auth/me", cfg.AuthHandler.Me)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/all", cfg.PostHandler.ListAll)
			r.Get("/following", cfg.PostHandler.ListFollowing)
			r.Get("/user/{username}", cfg.PostHandler.ListByUsername)
			r.Get("/likes/{id}", cfg.PostHandler.ListLiked)
			r.Post("/create", cfg.PostHandler.Create)
			r.Post("/like/{id}", cfg.PostHandler.LikeUnlike)
			r.Post("/comment/{id}", cfg.PostHandler.Comment)
			r.Delete("/{id}", cfg.PostHandler.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/profile/{username}", cfg.UserHandler.GetProfile)
			r.Get("/suggested", cfg.UserHandler.GetSuggested)
			r.Post("/follow/{id}", cfg.UserHandler.FollowUnfollow)
			r.Post("/update", cfg.UserHandler.UpdateProfile)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Delete("/", cfg.NotificationHandler.Clear)
		})
	})

	return r
}
