// Package insights derives statistical summaries from a ledger: totals,
// per-category breakdowns, month overviews, anomalies and a daily-spend
// forecast. Everything here is a pure function of the ledger it is given.
package insights

import (
	"sort"

	"vibe/internal/core"
)

// Totals summarizes a whole ledger.
type Totals struct {
	Sum     core.Money
	Count   int
	Average core.Money
	First   core.Date
	Last    core.Date
}

// Compute returns the headline numbers for a ledger.
func Compute(ledger core.Ledger) Totals {
	t := Totals{Count: len(ledger)}
	if len(ledger) == 0 {
		return t
	}
	t.Sum = ledger.Total()
	t.Average = core.Money{Cents: t.Sum.Cents / int64(len(ledger))}
	t.First, t.Last = ledger[0].Date, ledger[0].Date
	for _, tx := range ledger[1:] {
		if tx.Date.Before(t.First.Time) {
			t.First = tx.Date
		}
		if tx.Date.After(t.Last.Time) {
			t.Last = tx.Date
		}
	}
	return t
}

// ByCategory sums amounts per category label, largest first. Ties keep the
// order of first appearance in the ledger.
func ByCategory(ledger core.Ledger) []core.CategoryAmount {
	sums := make(map[string]int64)
	var order []string
	for _, tx := range ledger {
		if _, ok := sums[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		sums[tx.Category] += tx.Amount.Cents
	}
	out := make([]core.CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Cents: sums[name]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// Overview builds the month summary for a specific year and month.
func Overview(ledger core.Ledger, year, month int) core.MonthOverview {
	var monthLedger core.Ledger
	for _, tx := range ledger {
		if tx.Date.Year() == year && tx.Date.Month() == month {
			monthLedger = append(monthLedger, tx)
		}
	}
	return core.MonthOverview{
		Year:       year,
		Month:      month,
		Total:      monthLedger.Total(),
		Count:      len(monthLedger),
		ByCategory: ByCategory(monthLedger),
	}
}
