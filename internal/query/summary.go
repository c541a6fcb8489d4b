package query

import (
	"fmt"
	"strings"
	"time"

	"vibe/internal/core"
)

// EmptySummary is the fixed answer for a query matching nothing.
const EmptySummary = "No expenses found matching your query."

// Render builds the one-sentence natural-language answer for a result set.
// It is a deterministic template: ordered clauses, each appended only when
// its condition holds, joined by single spaces and terminated with a period.
func Render(results core.Ledger, f Filter, originalQuery string) string {
	if len(results) == 0 {
		return EmptySummary
	}

	parts := []string{"You spent $" + results.Total().Format()}

	switch {
	case len(f.Categories) > 0:
		labels := f.Categories
		if len(labels) > 2 {
			labels = labels[:2]
		}
		parts = append(parts, "on "+strings.Join(labels, ", "))
	case strings.Contains(strings.ToLower(originalQuery), "total"):
		parts = append(parts, "in total")
	default:
		parts = append(parts, "on expenses")
	}

	if f.Month != 0 {
		monthName := time.Month(f.Month).String()
		if f.Year != 0 {
			parts = append(parts, fmt.Sprintf("in %s %d", monthName, f.Year))
		} else {
			parts = append(parts, "in "+monthName)
		}
	}

	unit := "transaction"
	if len(results) != 1 {
		unit += "s"
	}
	parts = append(parts, fmt.Sprintf("across %d %s", len(results), unit))

	return strings.Join(parts, " ") + "."
}
