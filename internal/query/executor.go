package query

import (
	"strings"

	"vibe/internal/core"
)

// Execute applies a Filter to a ledger and returns the surviving
// transactions in their original relative order. It is a pure function: the
// input ledger is never mutated and the result is a fresh slice.
//
// Filters are a conjunction applied in a fixed order — month/year, category,
// description keywords, minimum amount, maximum amount — each pass narrowing
// the previous one. An unset field is a no-op.
func Execute(f Filter, ledger core.Ledger) core.Ledger {
	results := ledger.Clone()

	if f.Month != 0 {
		results = keep(results, func(t core.Transaction) bool {
			if t.Date.Month() != f.Month {
				return false
			}
			return f.Year == 0 || t.Date.Year() == f.Year
		})
	}

	// A transaction passes the category filter when its category field equals
	// any detected label, or its description mentions one: category labels
	// double as description substrings.
	if len(f.Categories) > 0 {
		results = keep(results, func(t core.Transaction) bool {
			desc := strings.ToLower(t.Description)
			for _, label := range f.Categories {
				if strings.EqualFold(t.Category, label) || strings.Contains(desc, strings.ToLower(label)) {
					return true
				}
			}
			return false
		})
	}

	if len(f.Keywords) > 0 {
		results = keep(results, func(t core.Transaction) bool {
			desc := strings.ToLower(t.Description)
			for _, kw := range f.Keywords {
				if strings.Contains(desc, strings.ToLower(kw)) {
					return true
				}
			}
			return false
		})
	}

	if f.MinAmount != nil {
		results = keep(results, func(t core.Transaction) bool {
			return t.Amount.Cents >= f.MinAmount.Cents
		})
	}

	if f.MaxAmount != nil {
		results = keep(results, func(t core.Transaction) bool {
			return t.Amount.Cents <= f.MaxAmount.Cents
		})
	}

	return results
}

func keep(ledger core.Ledger, pred func(core.Transaction) bool) core.Ledger {
	out := make(core.Ledger, 0, len(ledger))
	for _, t := range ledger {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
