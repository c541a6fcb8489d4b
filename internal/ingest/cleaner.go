package ingest

import (
	"sort"
	"strings"
	"time"

	"vibe/internal/core"
)

// dateLayouts are tried in order when coercing the date column. Rows whose
// date parses with none of them are dropped, not errors.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// Clean converts a raw table into a query-ready ledger. It standardizes
// column names, coerces dates and amounts, normalizes signs to positive,
// lower-cases descriptions, fills category defaults, removes exact
// duplicates, and sorts by date.
//
// A table without a usable date or amount column yields a
// *MissingColumnError; individual bad rows are silently dropped, matching
// the all-or-nothing contract per predicate rather than per file.
func Clean(t *Table) (core.Ledger, error) {
	t.StandardizeColumns()

	dateIdx := t.columnIndex("date")
	if dateIdx == -1 {
		return nil, &MissingColumnError{Column: "date"}
	}
	amountIdx := t.columnIndex("amount")
	if amountIdx == -1 {
		return nil, &MissingColumnError{Column: "amount"}
	}
	descIdx := t.columnIndex("description")
	catIdx := t.columnIndex("category")

	ledger := make(core.Ledger, 0, len(t.Rows))
	seen := make(map[string]bool, len(t.Rows))

	for _, row := range t.Rows {
		date, ok := parseDate(cell(row, dateIdx))
		if !ok {
			continue
		}
		cents, err := core.ParseDecimalToCents(cell(row, amountIdx))
		if err != nil {
			continue
		}

		desc := cleanDescription(row, descIdx, dateIdx, amountIdx, catIdx)

		category := strings.TrimSpace(cell(row, catIdx))
		if category == "" {
			category = core.UnknownCategory
		}

		tx := core.Transaction{
			Date:        date,
			Description: desc,
			Amount:      core.Money{Cents: cents},
			Category:    category,
		}

		key := tx.Date.Format("2006-01-02") + "|" + tx.Description + "|" +
			strings.ToLower(tx.Category) + "|" + tx.Amount.Format()
		if seen[key] {
			continue
		}
		seen[key] = true
		ledger = append(ledger, tx)
	}

	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].Date.Before(ledger[j].Date.Time)
	})

	return ledger, nil
}

func parseDate(s string) (core.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return core.Date{Time: ts}, true
		}
	}
	return core.Date{}, false
}

// cleanDescription lower-cases and trims the description cell. When the file
// has no description column, the leftover cells are joined instead; an empty
// result falls back to the default sentinel.
func cleanDescription(row []string, descIdx, dateIdx, amountIdx, catIdx int) string {
	var desc string
	if descIdx != -1 {
		desc = cell(row, descIdx)
	} else {
		var parts []string
		for i, v := range row {
			if i == dateIdx || i == amountIdx || i == catIdx {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				parts = append(parts, v)
			}
		}
		desc = strings.Join(parts, " ")
	}
	desc = strings.ToLower(strings.TrimSpace(desc))
	if desc == "" {
		return core.DefaultDescription
	}
	return desc
}
