package cmd

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/cardsage/cardsage/catalog"
	"github.com/cardsage/cardsage/chat"
	"github.com/cardsage/cardsage/config"
	"github.com/cardsage/cardsage/internal/logging"
	"github.com/cardsage/cardsage/providers"
	"github.com/cardsage/cardsage/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.LogLevel)

	registry := providers.NewProviderRegistry()
	provider, err := registry.Get(cfg.Provider, cfg.PerplexityAPIKey, cfg.Model, nil)
	if err != nil {
		return err
	}
	provider.SetDefaultOptions(cfg)
	provider.SetLogger(logger)

	limiter := chat.NewRateLimiter(cfg.RateWindow, cfg.RateLimit)
	generator := chat.NewGenerator(cfg, provider, limiter, logger)

	// The catalog is optional: without DATABASE_URL the service still
	// answers chat requests.
	var store *catalog.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		store = catalog.NewStore(db)
		if err := store.Migrate(context.Background()); err != nil {
			return err
		}
		logger.Info("Connected to Postgres")
	} else {
		logger.Warn("DATABASE_URL not set, catalog routes disabled")
	}

	srv := server.New(cfg, generator, store, logger)
	logger.Info("Starting server", "port", cfg.Port, "provider", cfg.Provider, "model", cfg.Model)
	return srv.Router().Run(":" + cfg.Port)
}
