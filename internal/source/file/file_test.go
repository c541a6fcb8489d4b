package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchMergesDirectory(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.csv", "Date,Description,Amount\n2024-01-05,Dinner,40.00\n")
	write("b.csv", "Date,Description,Amount\n2024-01-06,Taxi,15.50\n")
	write("notes.txt", "not a ledger")
	// Files with unusable columns are skipped, not fatal.
	write("broken.csv", "Description,Amount\nCoffee,3.50\n")

	got, err := New(dir).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(got), got)
	}
}

func TestFetchMissingDirectory(t *testing.T) {
	if _, err := New("/nonexistent/seed/dir").Fetch(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
