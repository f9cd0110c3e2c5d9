package router

import (
	"net/http"

	"gamevault-api/internal/handler"
	"gamevault-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	HealthHandler  *handler.HealthHandler
	AuthHandler    *handler.AuthHandler
	GameHandler    *handler.GameHandler
	CartHandler    *handler.CartHandler
	LibraryHandler *handler.LibraryHandler
	FeedHandler    *handler.FeedHandler
	AdminHandler   *handler.AdminHandler

	Auth          func(http.Handler) http.Handler
	OptionalAuth  func(http.Handler) http.Handler
	RequireAdmin  func(http.Handler) http.Handler
	BlockPurchase func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unified status endpoint for uptime monitoring
	r.Get("/api/status", cfg.HealthHandler.Status)

	// Uploaded media (post images, game covers)
	fileServer := http.FileServer(http.Dir("./uploads"))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	r.Route("/api/v1", func(r chi.Router) {
		// Health check endpoints
		r.Get("/health", cfg.HealthHandler.Health)
		r.Get("/ready", cfg.HealthHandler.Ready)

		// Auth endpoints (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/verify-email", cfg.AuthHandler.VerifyEmail)
			r.Post("/resend-code", cfg.AuthHandler.ResendCode)
			r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
			r.Post("/reset-password", cfg.AuthHandler.ResetPassword)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/admin/login", cfg.AuthHandler.AdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(cfg.Auth)
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		// Public catalog
		r.Get("/games", cfg.GameHandler.List)
		r.Get("/games/{id}", cfg.GameHandler.Get)

		// Feed reads work anonymously; the viewer decorations need a token
		r.Group(func(r chi.Router) {
			r.Use(cfg.OptionalAuth)
			r.Get("/posts", cfg.FeedHandler.List)
			r.Get("/posts/{id}/comments", cfg.FeedHandler.ListComments)
		})

		// Authenticated storefront routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth)

			r.Route("/cart", func(r chi.Router) {
				r.Use(cfg.BlockPurchase)
				r.Get("/", cfg.CartHandler.Get)
				r.Delete("/", cfg.CartHandler.Clear)
				r.Post("/items", cfg.CartHandler.Add)
				r.Put("/items/{gameID}", cfg.CartHandler.UpdateItem)
				r.Delete("/items/{gameID}", cfg.CartHandler.Remove)
				r.Post("/checkout", cfg.CartHandler.Checkout)
			})

			r.Get("/library", cfg.LibraryHandler.Get)
			r.Post("/library/keys/{keyID}/use", cfg.LibraryHandler.UseKey)
			r.Get("/orders", cfg.LibraryHandler.Orders)

			r.Post("/posts", cfg.FeedHandler.Create)
			r.Put("/posts/{id}", cfg.FeedHandler.Update)
			r.Delete("/posts/{id}", cfg.FeedHandler.Delete)
			r.Post("/posts/{id}/like", cfg.FeedHandler.ToggleLike)
			r.Post("/posts/{id}/comments", cfg.FeedHandler.AddComment)
			r.Put("/comments/{id}", cfg.FeedHandler.UpdateComment)
			r.Delete("/comments/{id}", cfg.FeedHandler.DeleteComment)
		})

		// Admin back-office
		r.Route("/admin", func(r chi.Router) {
			r.Use(cfg.Auth)
			r.Use(cfg.RequireAdmin)

			r.Get("/dashboard", cfg.AdminHandler.Dashboard)
			r.Get("/stats", cfg.AdminHandler.Stats)

			r.Post("/games", cfg.GameHandler.Create)
			r.Put("/games/{id}", cfg.GameHandler.Update)
			r.Delete("/games/{id}", cfg.GameHandler.Delete)

			r.Delete("/posts/{id}", cfg.AdminHandler.DeletePost)
			r.Delete("/comments/{id}", cfg.AdminHandler.DeleteComment)
		})
	})

	return r
}
