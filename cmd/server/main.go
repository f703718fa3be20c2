package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vedantnaik09/ey-bpo/internal/ai"
	"github.com/vedantnaik09/ey-bpo/internal/config"
	"github.com/vedantnaik09/ey-bpo/internal/db"
	"github.com/vedantnaik09/ey-bpo/internal/events"
	httpapi "github.com/vedantnaik09/ey-bpo/internal/http"
	"github.com/vedantnaik09/ey-bpo/internal/kb"
	"github.com/vedantnaik09/ey-bpo/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "complaint-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate schema")
	}

	var analyzer ai.Analyzer
	if cfg.AIURL == "" {
		analyzer = ai.MockAnalyzer{}
		logger.Info().Msg("using mock analyzer")
	} else {
		analyzer = ai.OpenAIAnalyzer{BaseURL: cfg.AIURL, Model: cfg.AIModel, APIKey: cfg.AIAPIKey}
	}

	var lookup kb.Lookup
	if cfg.KBURL == "" {
		lookup = kb.StaticLookup{}
		logger.Info().Msg("using static knowledge base")
	} else {
		lookup = kb.HTTPLookup{BaseURL: cfg.KBURL}
	}

	producer := events.NewProducer(cfg.BrokerList(), cfg.KafkaTopic, logger)
	defer func() {
		_ = producer.Close()
	}()

	triage := &service.TriageService{
		Store:    store,
		Analyzer: analyzer,
		KB:       lookup,
		Events:   producer,
		Logger:   logger,
	}

	router := httpapi.Router(cfg, store, triage, producer, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
