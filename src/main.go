package main

import (
	"context"
	"net/http"

	"ledger-server/src/api"
	"ledger-server/src/config"
	"ledger-server/src/ledger"
	"ledger-server/src/logger"
	"ledger-server/src/store/inmemory"
	"ledger-server/src/store/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	var store ledger.Store
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("DB connection failed")
		}
		defer pool.Close()

		pg := postgres.NewWithRetry(pool, cfg.RetryAttempts, cfg.RetryBaseDelay)
		if err := pg.Migrate(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("schema migration failed")
		}
		store = pg
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store; data will not survive restarts")
		store = inmemory.New()
	}

	svc, err := ledger.NewService(store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build ledger service")
	}

	router := api.NewRouter(svc, log, cfg.ReadOnly, cfg.AllowedOrigins)

	log.Info().Str("port", cfg.Port).Bool("read_only", cfg.ReadOnly).Msg("API server running")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
