package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/poker-league/handlers"
	"github.com/Dosada05/poker-league/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/poker-league/docs"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Player    *handlers.PlayerHandler
	Game      *handlers.GameHandler
	Post      *handlers.PostHandler
	Comment   *handlers.CommentHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler
}

func SetupRoutes(router chi.Router, sessions *middleware.SessionManager, allowedOrigins []string, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           int((5 * time.Minute).Seconds()),
	}))

	authenticated := sessions.Authenticate
	adminOnly := func(next http.Handler) http.Handler {
		return sessions.Authenticate(middleware.RequireAdmin(next))
	}

	router.Get("/healthz", h.Health.Healthz)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/leaderboard", h.WebSocket.ServeLeaderboard)

	// Сессии
	router.Post("/signup", h.Auth.Signup)
	router.Post("/login", h.Auth.Login)
	router.Post("/logout", h.Auth.Logout)
	router.With(authenticated).Get("/isAdmin", h.Auth.IsAdmin)
	router.With(authenticated).Get("/me", h.Auth.Me)

	router.Route("/accounts", func(r chi.Router) {
		r.With(adminOnly).Get("/", h.Auth.ListAccounts)
		r.With(authenticated).Delete("/{accountID}", h.Auth.DeleteAccount)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.ListPlayers)
		r.Get("/{playerID}", h.Player.GetPlayer)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Player.CreatePlayer)
			r.Patch("/", h.Player.BulkUpdateStats)
			r.Patch("/{playerID}", h.Player.UpdatePlayer)
			r.Delete("/{playerID}", h.Player.DeletePlayer)
			// Game edits live under /players for compatibility with existing clients.
			r.Patch("/edit/{gameID}", h.Game.UpdateGame)
		})
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/", h.Game.ListGames)
		r.Get("/game/{gameID}", h.Game.GetGame)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Game.CreateGame)
			r.Delete("/game/{gameID}", h.Game.DeleteGame)
		})
	})

	router.Route("/posts", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(sessions.OptionalAuthenticate)
			r.Get("/", h.Post.ListPosts)
			r.Get("/{postID}", h.Post.GetPost)
		})
		r.Get("/{postID}/comments", h.Comment.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/{postID}/like", h.Post.ToggleLike)
			r.Post("/{postID}/comments", h.Comment.CreateComment)
			r.Delete("/{postID}/comments/{commentID}", h.Comment.DeleteComment)
		})

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Post.CreatePost)
			r.Patch("/{postID}", h.Post.UpdatePost)
			r.Delete("/{postID}", h.Post.DeletePost)
		})
	})
}
