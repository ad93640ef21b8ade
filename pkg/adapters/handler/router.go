package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-biolink/pkg/config"
	"github.com/wadjakorntonsri/go-biolink/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, auth ports.AuthService, links ports.LinkService, profiles ports.ProfileService, log zerolog.Logger) http.Handler {
	lh := NewLinkHandler(links)
	ph := NewProfileHandler(profiles, log)
	authHandler := NewAuthHandler(cfg, auth, log)
	mw := NewMiddleware(cfg)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		_ = json.NewEncoder(w).Encode(&res)
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.FrontendURL+"/login", http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)

	// Public bio page, keyed by username. More specific patterns above
	// take precedence over this catch-all.
	mux.HandleFunc("GET /{username}", ph.Public)

	// Protected Routes (Dashboard API)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/me", ph.Me)
	protectedMux.HandleFunc("GET /api/v1/profile", ph.Get)
	protectedMux.HandleFunc("PUT /api/v1/profile", ph.Update)
	protectedMux.HandleFunc("GET /api/v1/links", lh.List)
	protectedMux.HandleFunc("POST /api/v1/links", lh.Create)
	protectedMux.HandleFunc("POST /api/v1/links/move", lh.Move)
	protectedMux.HandleFunc("PUT /api/v1/links/{id}", lh.Update)
	protectedMux.HandleFunc("DELETE /api/v1/links/{id}", lh.Delete)
	protectedMux.HandleFunc("POST /api/v1/links/{id}/toggle", lh.Toggle)

	// Apply Middleware to Protected Routes
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return LoggingMiddleware(log)(mux)
}
