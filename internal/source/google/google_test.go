package google

import (
	"context"
	"testing"
)

func TestNewValidation(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, Config{Range: "A1:D"}); err == nil {
		t.Error("expected error for missing spreadsheet id")
	}
	if _, err := New(ctx, Config{SpreadsheetID: "sheet"}); err == nil {
		t.Error("expected error for missing range")
	}
	if _, err := New(ctx, Config{SpreadsheetID: "sheet", Range: "A1:D"}); err == nil {
		t.Error("expected error for missing credentials")
	}
}

func TestTableFromValues(t *testing.T) {
	values := [][]any{
		{"Date", "Description", "Amount"},
		{"2024-01-05", "Dinner", 40.0},
		{"2024-01-06", "Taxi"}, // short row padded
	}

	table, err := tableFromValues(values)
	if err != nil {
		t.Fatalf("tableFromValues: %v", err)
	}
	if len(table.Columns) != 3 || table.Columns[0] != "Date" {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[0][2] != "40" {
		t.Fatalf("numeric cell = %q", table.Rows[0][2])
	}
	if table.Rows[1][2] != "" {
		t.Fatalf("padded cell = %q", table.Rows[1][2])
	}
}

func TestTableFromValuesEmpty(t *testing.T) {
	if _, err := tableFromValues(nil); err == nil {
		t.Fatal("expected error for empty range")
	}
}
