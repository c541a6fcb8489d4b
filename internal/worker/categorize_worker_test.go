package worker

import (
	"context"
	"path/filepath"
	"testing"

	"vibe/internal/amqp"
	"vibe/internal/categorize"
	"vibe/internal/core"
	"vibe/internal/storage"
)

func newTestWorker(t *testing.T) (*CategorizeWorker, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewCategorizeWorker(repo, categorize.NewDefault(), 10), repo
}

func TestHandleMessageLabelsUnknown(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	ids, err := repo.InsertBatch(ctx, core.Ledger{
		{Date: core.NewDate(2024, 1, 5), Description: "dinner at luigi's", Amount: core.Money{Cents: 4000}, Category: core.UnknownCategory},
	})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	if err := w.HandleMessage(ctx, amqp.NewCategorizeMessage(ids[0])); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	got, err := repo.GetTransaction(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Category != "restaurant" {
		t.Fatalf("category = %q, want restaurant", got.Category)
	}
}

func TestHandleMessagePreservesExistingLabel(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	ids, err := repo.InsertBatch(ctx, core.Ledger{
		{Date: core.NewDate(2024, 1, 5), Description: "dinner at luigi's", Amount: core.Money{Cents: 4000}, Category: "gifts"},
	})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	if err := w.HandleMessage(ctx, amqp.NewCategorizeMessage(ids[0])); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	got, err := repo.GetTransaction(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Category != "gifts" {
		t.Fatalf("user label overwritten: %q", got.Category)
	}
}

func TestHandleMessageMissingRow(t *testing.T) {
	w, _ := newTestWorker(t)

	// A message for a deleted row must not error, or AMQP would requeue it
	// forever.
	if err := w.HandleMessage(context.Background(), amqp.NewCategorizeMessage(999)); err != nil {
		t.Fatalf("HandleMessage for missing row: %v", err)
	}
}

func TestCategorizeOneReportsWrites(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	ids, err := repo.InsertBatch(ctx, core.Ledger{
		{Date: core.NewDate(2024, 1, 5), Description: "dinner at luigi's", Amount: core.Money{Cents: 4000}, Category: core.UnknownCategory},
		{Date: core.NewDate(2024, 1, 6), Description: "mystery charge", Amount: core.Money{Cents: 900}, Category: core.UnknownCategory},
	})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	pending, err := repo.ListUncategorized(ctx, 10)
	if err != nil {
		t.Fatalf("ListUncategorized: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	// A matched rule counts as a write, an unmatched one does not: the sweep
	// counters report labels actually stored, not rows visited.
	for _, tx := range pending {
		wrote, err := w.categorizeOne(ctx, tx)
		if err != nil {
			t.Fatalf("categorizeOne(%d): %v", tx.ID, err)
		}
		want := tx.ID == ids[0]
		if wrote != want {
			t.Errorf("categorizeOne(%q) wrote = %v, want %v", tx.Description, wrote, want)
		}
	}
}

func TestProcessUncategorized(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, core.Ledger{
		{Date: core.NewDate(2024, 1, 5), Description: "uber trip home", Amount: core.Money{Cents: 1500}, Category: core.UnknownCategory},
		{Date: core.NewDate(2024, 1, 6), Description: "mystery charge", Amount: core.Money{Cents: 900}, Category: core.UnknownCategory},
		{Date: core.NewDate(2024, 1, 7), Description: "whole foods market", Amount: core.Money{Cents: 7000}, Category: core.UnknownCategory},
	})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	if err := w.ProcessUncategorized(ctx); err != nil {
		t.Fatalf("ProcessUncategorized: %v", err)
	}

	pending, err := repo.ListUncategorized(ctx, 10)
	if err != nil {
		t.Fatalf("ListUncategorized: %v", err)
	}
	// Only the row no rule matches stays unknown.
	if len(pending) != 1 || pending[0].Description != "mystery charge" {
		t.Fatalf("pending = %+v", pending)
	}
}
