package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/wadjakorntonsri/go-biolink/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-biolink/pkg/config"
	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
	"github.com/wadjakorntonsri/go-biolink/pkg/logger"
)

// Admin tool for moving a deployment between databases: export writes every
// profile with its links as JSON, import loads such a dump back in.
func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		profiles, err := repo.Dump(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("export failed")
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(profiles); err != nil {
			log.Fatal().Err(err).Msg("encode failed")
		}
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		file, err := os.Open(*importFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open file")
		}
		defer file.Close()

		var profiles []domain.PublicProfile
		if err := json.NewDecoder(file).Decode(&profiles); err != nil {
			log.Fatal().Err(err).Msg("failed to decode dump")
		}

		ctx := context.Background()
		imported := 0
		for _, entry := range profiles {
			profile := entry.Profile
			if err := repo.CreateProfile(ctx, &profile); err != nil {
				if err == domain.ErrConflict {
					log.Warn().Str("username", profile.Username).Msg("username exists, skipping")
					continue
				}
				log.Fatal().Err(err).Str("username", profile.Username).Msg("import failed")
			}
			for _, link := range entry.Links {
				if err := repo.CreateLink(ctx, &link); err != nil {
					log.Fatal().Err(err).Str("link_id", link.ID).Msg("import failed")
				}
			}
			imported++
		}
		log.Info().Int("profiles", imported).Msg("import complete")
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}
