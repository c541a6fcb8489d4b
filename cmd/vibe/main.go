package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"vibe/internal/amqp"
	"vibe/internal/config"
	apphttp "vibe/internal/http"
	"vibe/internal/log"
	"vibe/internal/services"
	"vibe/internal/source"
	filesource "vibe/internal/source/file"
	googlesource "vibe/internal/source/google"
	"vibe/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// AMQP is best effort here: without a broker the API still answers,
	// the worker's sweep picks up categorization later.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, categorize jobs will rely on the worker sweep", "error", err)
			amqpClient = nil
		}
	}

	svc := services.NewLedgerService(repo, amqpClient)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := seedLedger(ctx, cfg, svc, repo, logger); err != nil {
		logger.Error("Failed to seed ledger", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		CacheSize:          cfg.QueryCacheSize,
		CacheTTL:           cfg.QueryCacheTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting vibe server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// seedLedger loads the configured source into an empty database. A
// non-empty database is left alone so restarts don't duplicate rows.
func seedLedger(ctx context.Context, cfg *config.Config, svc *services.LedgerService, repo *storage.SQLiteRepository, logger *log.Logger) error {
	var src source.LedgerSource

	switch cfg.SeedSource {
	case "none":
		return nil
	case "dir":
		src = filesource.New(cfg.SeedDir)
	case "sheets":
		client, err := googlesource.New(ctx, googlesource.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			Range:           cfg.GoogleSheetRange,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			return err
		}
		src = client
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Database already populated, skipping seed", "rows", count)
		return nil
	}

	ledger, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(ledger) == 0 {
		logger.Warn("Seed source produced no rows", "source", cfg.SeedSource)
		return nil
	}

	imported, err := svc.Import(ctx, ledger)
	if err != nil {
		return err
	}
	logger.Info("Ledger seeded", "source", cfg.SeedSource, "imported", imported)
	return nil
}
