// Package worker labels uncategorized transactions in the background.
// Jobs arrive over AMQP; a periodic sweep catches rows whose message was
// lost.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vibe/internal/amqp"
	"vibe/internal/categorize"
	"vibe/internal/core"
	"vibe/internal/storage"
)

type CategorizeWorker struct {
	storage     *storage.SQLiteRepository
	categorizer *categorize.Categorizer
	batchSize   int
}

func NewCategorizeWorker(storage *storage.SQLiteRepository, categorizer *categorize.Categorizer, batchSize int) *CategorizeWorker {
	return &CategorizeWorker{
		storage:     storage,
		categorizer: categorizer,
		batchSize:   batchSize,
	}
}

// HandleMessage processes a single categorize job from AMQP.
func (w *CategorizeWorker) HandleMessage(ctx context.Context, msg *amqp.CategorizeMessage) error {
	slog.InfoContext(ctx, "Processing categorize message", "id", msg.ID)

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Row deleted since the message was published. Nothing to do, and
		// requeueing would loop forever.
		slog.WarnContext(ctx, "Transaction gone, dropping message", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	_, err = w.categorizeOne(ctx, tx)
	return err
}

// ProcessUncategorized sweeps a batch of unlabeled rows. Backup mechanism
// in case AMQP messages are lost.
func (w *CategorizeWorker) ProcessUncategorized(ctx context.Context) error {
	pending, err := w.storage.ListUncategorized(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list uncategorized: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing uncategorized transactions", "count", len(pending))

	for _, tx := range pending {
		if _, err := w.categorizeOne(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to categorize transaction", "id", tx.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSweep labels everything pending at worker startup, in larger
// batches, to recover from downtime.
func (w *CategorizeWorker) StartupSweep(ctx context.Context) error {
	pending, err := w.storage.ListUncategorized(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list uncategorized for startup sweep: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No uncategorized transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found uncategorized transactions on startup, processing...",
		"count", len(pending))

	labeled := 0
	skipped := 0
	for _, tx := range pending {
		wrote, err := w.categorizeOne(ctx, tx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to categorize during startup sweep",
				"id", tx.ID, "error", err)
			continue
		}
		if wrote {
			labeled++
		} else {
			skipped++
		}
	}

	slog.InfoContext(ctx, "Startup sweep completed",
		"total", len(pending),
		"labeled", labeled,
		"skipped", skipped)

	return nil
}

// categorizeOne labels a single transaction. The bool reports whether a
// category was actually written, so sweeps can count real work.
func (w *CategorizeWorker) categorizeOne(ctx context.Context, tx storage.StoredTransaction) (bool, error) {
	// Only the unknown sentinel gets overwritten. User-set labels stay.
	if tx.Category != core.UnknownCategory {
		slog.DebugContext(ctx, "Transaction already labeled, skipping",
			"id", tx.ID, "category", tx.Category)
		return false, nil
	}

	category, ok := w.categorizer.Categorize(tx.Description)
	if !ok {
		slog.DebugContext(ctx, "No rule matched, leaving unknown",
			"id", tx.ID, "description", tx.Description)
		return false, nil
	}

	if err := w.storage.UpdateCategory(ctx, tx.ID, category); err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}

	slog.InfoContext(ctx, "Transaction labeled",
		"id", tx.ID,
		"description", tx.Description,
		"category", category)

	return true, nil
}
