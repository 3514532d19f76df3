package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fadedpez/relancina/internal/bot"
	"github.com/fadedpez/relancina/internal/config"
	"github.com/fadedpez/relancina/internal/discord"
	"github.com/fadedpez/relancina/internal/logging"
	"github.com/fadedpez/relancina/pkg/api"
	"github.com/fadedpez/relancina/pkg/repositories/game"
	"github.com/fadedpez/relancina/pkg/scheduler"
	"github.com/fadedpez/relancina/pkg/services/relancina"
	"github.com/fadedpez/relancina/pkg/services/statistics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	history, err := newHistory(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Error initializing round history: %v", err)
	}
	defer history.Close()

	games := relancina.NewService(relancina.NewMemoryStore(),
		relancina.WithHistory(history),
		relancina.WithLogger(logger),
	)

	var historyPruner game.Pruner
	if p, ok := history.(game.Pruner); ok {
		historyPruner = p
	}
	maintenance := scheduler.NewMaintenance(games, historyPruner, scheduler.MaintenanceConfig{
		Interval:  cfg.CleanupInterval,
		GameTTL:   cfg.GameTTL,
		Retention: cfg.HistoryRetention,
	}, logger)
	maintenance.Start(ctx)
	defer maintenance.Stop()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(games, statistics.NewService(history), history, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP API listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped: %v", err)
			stop()
		}
	}()

	var discordBot *bot.Bot
	if cfg.DiscordEnabled() {
		session, err := discord.NewSession(cfg.Token)
		if err != nil {
			log.Fatalf("Error creating Discord session: %v", err)
		}
		discordBot = bot.New(cfg, session, games, logger)
		if err := discordBot.Start(); err != nil {
			log.Fatalf("Error starting bot: %v", err)
		}
	} else {
		logger.Info("DISCORD_TOKEN not set, running without the Discord bot")
	}

	logger.Info("Relancina is running. Press Ctrl+C to exit")
	<-ctx.Done()

	logger.Info("Shutting down...")
	if discordBot != nil {
		discordBot.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server: %v", err)
	}
}

// newHistory builds the round history backend named by the config
func newHistory(ctx context.Context, cfg *config.Config, logger *logging.Logger) (game.Repository, error) {
	dbPath := filepath.Join(cfg.DataDir, "relancina.db")

	switch cfg.StorageType {
	case config.StorageSQLite:
		repo, err := game.NewSQLiteRepository(dbPath)
		if err != nil {
			return nil, err
		}
		logger.Info("Using SQLite round history at %s", dbPath)
		return repo, nil

	case config.StorageElasticsearch:
		var base game.Repository = game.NewMemoryRepository()
		if sqliteRepo, err := game.NewSQLiteRepository(dbPath); err == nil {
			base = sqliteRepo
		} else {
			logger.Warn("SQLite unavailable, Elasticsearch will sit on memory: %v", err)
		}

		esConfig := game.DefaultElasticsearchConfig()
		esConfig.URL = cfg.ESURL
		esConfig.Username = cfg.ESUsername
		esConfig.Password = cfg.ESPassword
		esConfig.IndexPrefix = cfg.ESIndexPrefix
		esConfig.ArchivePath = filepath.Join(cfg.DataDir, "archive")

		repo, err := game.NewElasticsearchRepository(ctx, base, esConfig)
		if err != nil {
			base.Close()
			return nil, err
		}
		logger.Info("Using Elasticsearch round history at %s (index %s)", cfg.ESURL, repo.IndexName())
		return repo, nil

	default:
		logger.Info("Using in-memory round history (lost on restart)")
		return game.NewMemoryRepository(), nil
	}
}
