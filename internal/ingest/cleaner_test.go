package ingest

import (
	"errors"
	"testing"

	"vibe/internal/core"
)

func TestCleanStandardizesAndCoerces(t *testing.T) {
	table := &Table{
		Columns: []string{"Transaction Date", "Merchant", "Price", "Type"},
		Rows: [][]string{
			{"2024-01-05", "Dinner At Cafe", "$40.00", "Restaurant"},
			{"2024-01-02", "UBER RIDE", "-25,50", ""},
			{"not a date", "broken row", "10.00", ""},
			{"2024-01-09", "zero amount", "0", ""},
		},
	}
	// "Transaction Date" is not a known alias; rename to a known one first.
	table.Columns[0] = "date"

	ledger, err := Clean(table)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("got %d rows, want 2 (bad date and zero amount dropped)", len(ledger))
	}
	// Sorted by date: the uber ride (Jan 2) comes first.
	if ledger[0].Description != "uber ride" {
		t.Fatalf("descriptions not lower-cased or order wrong: %+v", ledger[0])
	}
	if ledger[0].Amount.Cents != 2550 {
		t.Fatalf("negative amount not sign-normalized: %d", ledger[0].Amount.Cents)
	}
	if ledger[0].Category != core.UnknownCategory {
		t.Fatalf("empty category should default to %q, got %q", core.UnknownCategory, ledger[0].Category)
	}
	if ledger[1].Category != "Restaurant" || ledger[1].Amount.Cents != 4000 {
		t.Fatalf("unexpected second row: %+v", ledger[1])
	}
}

func TestCleanMissingColumns(t *testing.T) {
	_, err := Clean(&Table{Columns: []string{"description", "amount"}})
	var missing *MissingColumnError
	if !errors.As(err, &missing) || missing.Column != "date" {
		t.Fatalf("want MissingColumnError{date}, got %v", err)
	}

	_, err = Clean(&Table{Columns: []string{"date", "description"}})
	if !errors.As(err, &missing) || missing.Column != "amount" {
		t.Fatalf("want MissingColumnError{amount}, got %v", err)
	}
}

func TestCleanSynthesizesDescription(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "amount", "notes"},
		Rows: [][]string{
			{"2024-02-01", "12.00", "Coffee Run"},
			{"2024-02-02", "8.00", ""},
		},
	}
	ledger, err := Clean(table)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if ledger[0].Description != "coffee run" {
		t.Fatalf("leftover columns should become the description, got %q", ledger[0].Description)
	}
	if ledger[1].Description != core.DefaultDescription {
		t.Fatalf("empty description should default to %q, got %q", core.DefaultDescription, ledger[1].Description)
	}
}

func TestCleanDeduplicates(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "description", "amount"},
		Rows: [][]string{
			{"2024-03-01", "lunch", "15.00"},
			{"2024-03-01", "lunch", "15.00"},
			{"2024-03-01", "lunch", "16.00"},
		},
	}
	ledger, err := Clean(table)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("got %d rows, want 2 after duplicate removal", len(ledger))
	}
}

func TestCleanSortsByDate(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "description", "amount"},
		Rows: [][]string{
			{"2024-03-05", "later", "1.00"},
			{"2024-01-05", "earlier", "2.00"},
			{"2024-02-05", "middle", "3.00"},
		},
	}
	ledger, err := Clean(table)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	for i := 1; i < len(ledger); i++ {
		if ledger[i].Date.Before(ledger[i-1].Date.Time) {
			t.Fatalf("ledger not sorted by date: %+v", ledger)
		}
	}
}
