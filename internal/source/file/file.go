// Package file seeds the ledger from CSV and Excel files in a directory.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vibe/internal/core"
	"vibe/internal/ingest"
	"vibe/internal/source"
)

// DirSource reads every supported file in a directory and merges the rows
// into one ledger.
type DirSource struct {
	dir string
}

var _ source.LedgerSource = (*DirSource)(nil)

func New(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Fetch(ctx context.Context) (core.Ledger, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read seed directory: %w", err)
	}

	var merged core.Ledger
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, entry.Name())
		table, err := ingest.LoadFile(path)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable seed file", "path", path, "error", err)
			continue
		}
		ledger, err := ingest.Clean(table)
		if err != nil {
			slog.WarnContext(ctx, "Skipping seed file with bad columns", "path", path, "error", err)
			continue
		}

		slog.InfoContext(ctx, "Seed file loaded", "path", path, "rows", len(ledger))
		merged = append(merged, ledger...)
	}

	return merged, nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}
