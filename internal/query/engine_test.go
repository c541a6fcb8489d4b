package query

import (
	"reflect"
	"strings"
	"testing"

	"vibe/internal/core"
)

func TestReportRestaurantInJanuary(t *testing.T) {
	ledger := core.Ledger{
		{Date: core.NewDate(2024, 1, 5), Description: "dinner at cafe", Amount: core.Money{Cents: 4000}, Category: "restaurant"},
		{Date: core.NewDate(2024, 2, 5), Description: "dinner at cafe", Amount: core.Money{Cents: 4000}, Category: "restaurant"},
	}

	results, summary := Report("restaurant expenses in january", ledger)

	if len(results) != 1 {
		t.Fatalf("got %d results, want exactly the January transaction", len(results))
	}
	if results[0].Date.Month() != 1 {
		t.Fatalf("wrong transaction survived: %+v", results[0])
	}
	want := "You spent $40.00 on restaurant in January across 1 transaction."
	if summary != want {
		t.Fatalf("summary = %q, want %q", summary, want)
	}
}

func TestReportTotalExpenses(t *testing.T) {
	ledger := core.Ledger{
		{Date: core.NewDate(2024, 1, 1), Description: "a", Amount: core.Money{Cents: 4000}, Category: "x"},
		{Date: core.NewDate(2024, 1, 2), Description: "b", Amount: core.Money{Cents: 4100}, Category: "y"},
		{Date: core.NewDate(2024, 1, 3), Description: "c", Amount: core.Money{Cents: 4245}, Category: "z"},
	}

	results, summary := Report("total expenses", ledger)

	if !reflect.DeepEqual(results, ledger) {
		t.Fatalf("no filter should narrow; got %d of %d rows", len(results), len(ledger))
	}
	if summary != "You spent $123.45 in total across 3 transactions." {
		t.Fatalf("summary = %q", summary)
	}
}

func TestReportFoodAbove500(t *testing.T) {
	// Descriptions carry category trigger words so the keyword pass keeps
	// them; the amount filter alone decides who survives.
	ledger := core.Ledger{
		{Date: core.NewDate(2024, 1, 1), Description: "weekly grocery run", Amount: core.Money{Cents: 30000}, Category: "food"},
		{Date: core.NewDate(2024, 1, 2), Description: "supermarket stock up", Amount: core.Money{Cents: 60000}, Category: "food"},
		{Date: core.NewDate(2024, 1, 3), Description: "big market haul", Amount: core.Money{Cents: 70000}, Category: "food"},
	}

	results, summary := Report("food above 500", ledger)

	if len(results) != 2 {
		t.Fatalf("got %d results, want the two transactions >= 500", len(results))
	}
	// "food" triggers both the restaurant and food categories (table order),
	// so the summary names both labels. The amounts and count are the point.
	if !strings.HasPrefix(summary, "You spent $1,300.00 on ") {
		t.Fatalf("summary = %q, want $1,300.00 total", summary)
	}
	if !strings.HasSuffix(summary, "across 2 transactions.") {
		t.Fatalf("summary = %q, want 2 transactions", summary)
	}
	if !strings.Contains(summary, "food") {
		t.Fatalf("summary = %q, want the food label mentioned", summary)
	}
}

func TestReportKeywordPassNeedsDescriptionHit(t *testing.T) {
	// The keyword filter is a conjunct of its own: a matching category does
	// not rescue a description that mentions none of the parsed keywords.
	ledger := core.Ledger{
		{Date: core.NewDate(2024, 1, 1), Description: "weekly errand", Amount: core.Money{Cents: 60000}, Category: "food"},
		{Date: core.NewDate(2024, 1, 2), Description: "supermarket stock up", Amount: core.Money{Cents: 60000}, Category: "food"},
	}

	results, _ := Report("food above 500", ledger)

	if len(results) != 1 || results[0].Description != "supermarket stock up" {
		t.Fatalf("results = %+v, want only the row whose description matches a keyword", results)
	}
}

func TestReportNothingMatches(t *testing.T) {
	ledger := core.Ledger{
		{Date: core.NewDate(2024, 1, 5), Description: "street parking", Amount: core.Money{Cents: 500}, Category: "transport"},
	}

	results, summary := Report("parking in december", ledger)

	if len(results) != 0 {
		t.Fatalf("got %d results, want none", len(results))
	}
	if summary != EmptySummary {
		t.Fatalf("summary = %q, want %q", summary, EmptySummary)
	}
}

func TestReportContentlessQueryReturnsEverything(t *testing.T) {
	ledger := core.Ledger{
		{Date: core.NewDate(2024, 1, 1), Description: "a", Amount: core.Money{Cents: 100}, Category: "x"},
		{Date: core.NewDate(2024, 5, 2), Description: "b", Amount: core.Money{Cents: 200}, Category: "y"},
	}

	results, _ := Report("of the to an", ledger)
	if !reflect.DeepEqual(results, ledger) {
		t.Fatalf("contentless query should return full ledger unchanged in order")
	}
}

func TestReportLeavesCallerLedgerUntouched(t *testing.T) {
	ledger := core.Ledger{
		{Date: core.NewDate(2024, 1, 5), Description: "dinner at cafe", Amount: core.Money{Cents: 4000}, Category: "restaurant"},
	}
	before := ledger.Clone()
	Report("restaurant in january", ledger)
	if !reflect.DeepEqual(ledger, before) {
		t.Fatalf("Report mutated the caller's ledger")
	}
}
