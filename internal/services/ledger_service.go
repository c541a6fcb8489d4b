// Package services orchestrates the ledger across SQLite, AMQP and the
// query engine.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"vibe/internal/amqp"
	"vibe/internal/core"
	"vibe/internal/insights"
	"vibe/internal/query"
	"vibe/internal/storage"
)

// LedgerService is the API surface the HTTP handlers talk to.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Import persists a cleaned ledger and enqueues a categorize job for every
// row still carrying the unknown label. Publishing is best effort; the
// worker's periodic sweep covers lost messages.
func (s *LedgerService) Import(ctx context.Context, ledger core.Ledger) (int, error) {
	ids, err := s.storage.InsertBatch(ctx, ledger)
	if err != nil {
		return 0, fmt.Errorf("save ledger: %w", err)
	}

	for i, id := range ids {
		if ledger[i].Category != core.UnknownCategory {
			continue
		}
		if err := s.publishCategorize(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish categorize message",
				"id", id, "error", err)
			// Don't fail the request, rows are saved locally.
		}
	}

	return len(ids), nil
}

// Ask runs a free-text query over a fresh snapshot of the stored ledger
// and returns the matching rows plus the one-sentence answer.
func (s *LedgerService) Ask(ctx context.Context, text string) (core.Ledger, string, error) {
	ledger, err := s.storage.ListAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load ledger: %w", err)
	}

	results, summary := query.Report(text, ledger)

	slog.InfoContext(ctx, "Query answered",
		"query", text,
		"matches", len(results),
		"ledger_size", len(ledger))

	return results, summary, nil
}

// Overview returns the month summary for the stored ledger.
func (s *LedgerService) Overview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	ledger, err := s.storage.ListAll(ctx)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("load ledger: %w", err)
	}
	return insights.Overview(ledger, year, month), nil
}

// Anomalies returns per-category outliers in the stored ledger.
func (s *LedgerService) Anomalies(ctx context.Context) ([]insights.Anomaly, error) {
	ledger, err := s.storage.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return insights.DetectCategoryAnomalies(ledger), nil
}

// Forecast projects daily spend for the next days.
func (s *LedgerService) Forecast(ctx context.Context, days int) ([]insights.ForecastPoint, error) {
	ledger, err := s.storage.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return insights.Forecast(ledger, days)
}

func (s *LedgerService) publishCategorize(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping categorize message")
		return nil
	}
	return s.amqpClient.PublishCategorize(ctx, id)
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
