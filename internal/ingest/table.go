// Package ingest loads raw expense exports (CSV, XLSX) and cleans them into
// a core.Ledger the query engine can trust: standardized columns, parseable
// dates, positive amounts, lower-cased descriptions.
package ingest

import "strings"

// Table is a raw tabular file before cleaning: a header row plus string
// cells, exactly as read from disk.
type Table struct {
	Columns []string
	Rows    [][]string
}

// MissingColumnError reports a ledger file without one of the required
// columns. It is a precondition violation, fatal to the call; there is
// nothing to retry.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return "ledger missing required column: " + e.Column
}

// columnAliases maps common header variations to the canonical column names.
// Matching is case-insensitive on the trimmed header.
var columnAliases = map[string]string{
	"amount": "amount", "price": "amount", "cost": "amount", "value": "amount", "expense": "amount",

	"date": "date", "datetime": "date", "time": "date", "transaction_date": "date",

	"description": "description", "desc": "description", "details": "description",
	"merchant": "description", "vendor": "description", "item": "description", "transaction": "description",

	"category": "category", "cat": "category", "type": "category", "expense_type": "category",
}

// StandardizeColumns renames known header variations in place and returns
// the table for chaining. Unknown headers are left untouched.
func (t *Table) StandardizeColumns() *Table {
	for i, col := range t.Columns {
		key := strings.ToLower(strings.TrimSpace(col))
		if canonical, ok := columnAliases[key]; ok {
			t.Columns[i] = canonical
		}
	}
	return t
}

// columnIndex returns the index of a canonical column, or -1.
func (t *Table) columnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
