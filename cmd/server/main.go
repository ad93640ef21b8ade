package main

import (
	"net/http"
	"time"

	"github.com/wadjakorntonsri/go-biolink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-biolink/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-biolink/pkg/config"
	"github.com/wadjakorntonsri/go-biolink/pkg/core/services"
	"github.com/wadjakorntonsri/go-biolink/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	// Initialize Repository
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize Services
	authService := services.NewAuthService(repo, repo)
	linkService := services.NewLinkService(repo)
	profileService := services.NewProfileService(repo, repo)

	// Initialize Router
	mux := handler.NewRouter(cfg, authService, linkService, profileService, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
