package http

import (
	"log/slog"
	"net/http"

	"conduit/internal/delivery/http/controllers"
	"conduit/internal/delivery/http/middleware"
	"conduit/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	userController *controllers.UserController,
	profileController *controllers.ProfileController,
	articleController *controllers.ArticleController,
	tagController *controllers.TagController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier, logger)
	optionalAuth := middleware.OptionalAuth(verifier, logger)

	// Users
	mux.HandleFunc("POST /users", userController.Register)
	mux.HandleFunc("POST /users/login", userController.Login)
	mux.HandleFunc("GET /user", requireAuth(userController.GetCurrentUser))
	mux.HandleFunc("PUT /user", requireAuth(userController.UpdateCurrentUser))

	// Profiles
	mux.HandleFunc("GET /profiles/{username}", optionalAuth(profileController.GetProfile))
	mux.HandleFunc("POST /profiles/{username}/follow", requireAuth(profileController.Follow))
	mux.HandleFunc("DELETE /profiles/{username}/follow", requireAuth(profileController.Unfollow))

	// Articles
	mux.HandleFunc("GET /articles", optionalAuth(articleController.List))
	mux.HandleFunc("GET /articles/feed", requireAuth(articleController.Feed))
	mux.HandleFunc("POST /articles", requireAuth(articleController.Create))
	mux.HandleFunc("GET /articles/{slug}", optionalAuth(articleController.Get))
	mux.HandleFunc("PUT /articles/{slug}", requireAuth(articleController.Update))
	mux.HandleFunc("DELETE /articles/{slug}", requireAuth(articleController.Delete))
	mux.HandleFunc("POST /articles/{slug}/favorite", requireAuth(articleController.Favorite))
	mux.HandleFunc("DELETE /articles/{slug}/favorite", requireAuth(articleController.Unfavorite))

	// Tags
	mux.HandleFunc("GET /tags", tagController.List)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
