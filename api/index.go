package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-biolink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-biolink/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-biolink/pkg/config"
	"github.com/wadjakorntonsri/go-biolink/pkg/core/services"
	"github.com/wadjakorntonsri/go-biolink/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	// Note: On Vercel the local sqlite file is ephemeral; point
	// DATABASE_URL at a remote libsql/Turso instance there.
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	authService := services.NewAuthService(repo, repo)
	linkService := services.NewLinkService(repo)
	profileService := services.NewProfileService(repo, repo)
	mux = handler.NewRouter(cfg, authService, linkService, profileService, log)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
