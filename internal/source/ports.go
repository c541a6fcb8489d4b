// Package source defines where the initial ledger is pulled from at
// startup: a directory of files or a Google Sheets range.
package source

import (
	"context"

	"vibe/internal/core"
)

// LedgerSource produces a cleaned ledger ready for storage.
type LedgerSource interface {
	Fetch(ctx context.Context) (core.Ledger, error)
}
