// Package query turns free-text questions about a ledger ("restaurant
// expenses in january", "food above 500") into a structured Filter, applies
// it deterministically, and renders a one-sentence summary of the result.
//
// The rule set is fixed: no learning, no spelling correction, no general
// language understanding. Determinism comes from ordered lookup tables and an
// ordered amount-rule chain; iteration order is part of the contract.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"vibe/internal/core"
)

// monthTable maps month names and abbreviations to month numbers. Scan order
// over this table decides ties: if a query somehow names two months, the one
// reached first here wins, not the one appearing first in the query.
var monthTable = []struct {
	name string
	num  int
}{
	{"january", 1}, {"jan", 1},
	{"february", 2}, {"feb", 2},
	{"march", 3}, {"mar", 3},
	{"april", 4}, {"apr", 4},
	{"may", 5},
	{"june", 6}, {"jun", 6},
	{"july", 7}, {"jul", 7},
	{"august", 8}, {"aug", 8},
	{"september", 9}, {"sep", 9}, {"sept", 9},
	{"october", 10}, {"oct", 10},
	{"november", 11}, {"nov", 11},
	{"december", 12}, {"dec", 12},
}

// categoryTable maps category labels to trigger words. When any one trigger
// matches, the label is recorded and ALL of the label's triggers become
// description keywords, then scanning moves to the next category.
var categoryTable = []struct {
	label    string
	triggers []string
}{
	{"restaurant", []string{"restaurant", "dining", "dinner", "lunch", "eat", "food", "cafe", "café"}},
	{"food", []string{"food", "grocery", "supermarket", "market", "groceries", "store", "grocery store"}},
	{"coffee", []string{"coffee", "starbucks", "cafe", "café", "espresso"}},
	{"transport", []string{"uber", "taxi", "transport", "gas", "fuel", "petrol", "car", "ride"}},
	{"shopping", []string{"shopping", "amazon", "target", "walmart", "store", "purchase", "buy"}},
	{"entertainment", []string{"netflix", "movie", "cinema", "entertainment", "streaming"}},
	{"bills", []string{"bill", "utility", "electric", "water", "internet", "phone", "subscription"}},
}

// stopWords are dropped during free-text keyword extraction: articles,
// prepositions and domain filler that would match nothing useful.
var stopWords = map[string]bool{
	"in": true, "on": true, "the": true, "and": true, "or": true,
	"of": true, "for": true, "with": true, "from": true, "to": true,
	"a": true, "an": true,
	"expenses": true, "expense": true, "total": true, "spent": true, "spending": true,
}

// amountRules is the ordered chain for comparative amount phrases. Every rule
// is attempted; a later match overwrites an earlier one.
type amountRule struct {
	pattern *regexp.Regexp
	apply   func(f *Filter, m core.Money)
}

var amountRules = []amountRule{
	{regexp.MustCompile(`(?:above|over|more than|greater than)\s+(\d+)`), setMinAmount},
	{regexp.MustCompile(`(?:below|under|less than|lower than)\s+(\d+)`), setMaxAmount},
	{regexp.MustCompile(`(\d+)\s*(?:and|to|-)\s*above`), setMinAmount},
}

var (
	yearPattern       = regexp.MustCompile(`\b(20\d{2})\b`)
	bareAmountPattern = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)`)
)

func setMinAmount(f *Filter, m core.Money) { f.MinAmount = &m }
func setMaxAmount(f *Filter, m core.Money) { f.MaxAmount = &m }

// Parse converts a free-text query into a Filter. It is a pure function of
// the input string and never fails: a contentless query produces an empty
// Filter, which the executor answers with the full ledger.
func Parse(query string) Filter {
	q := strings.ToLower(query)
	var f Filter

	// Rule 1: month, plus an attached year when one is present.
	for _, m := range monthTable {
		if strings.Contains(q, m.name) {
			f.Month = m.num
			if y := yearPattern.FindStringSubmatch(q); y != nil {
				f.Year, _ = strconv.Atoi(y[1])
			}
			break
		}
	}

	// Rule 2: category triggers. One hit records the label and unions the
	// whole trigger list into the keywords.
	for _, c := range categoryTable {
		for _, trigger := range c.triggers {
			if strings.Contains(q, trigger) {
				f.Categories = appendUnique(f.Categories, c.label)
				for _, kw := range c.triggers {
					f.Keywords = appendUnique(f.Keywords, kw)
				}
				break
			}
		}
	}

	// Rule 3: comparative amount phrases, evaluated in chain order.
	for _, rule := range amountRules {
		if m := rule.pattern.FindStringSubmatch(q); m != nil {
			if v, err := strconv.ParseInt(m[1], 10, 64); err == nil && v > 0 {
				rule.apply(&f, core.Money{Cents: v * 100})
			}
		}
	}

	// Rule 4: bare number fallback. Only when rule 3 set nothing; the whole
	// query is inspected for a directional word. A number with no direction
	// sets nothing. The whole-query inspection can misfire when "above" and
	// an unrelated later number coexist; that quirk is intentional and pinned
	// by tests.
	if f.MinAmount == nil && f.MaxAmount == nil {
		if m := bareAmountPattern.FindStringSubmatch(q); m != nil {
			if cents, err := core.ParseDecimalToCents(m[1]); err == nil {
				switch {
				case strings.Contains(q, "above") || strings.Contains(q, "over") || strings.Contains(q, "more"):
					f.MinAmount = &core.Money{Cents: cents}
				case strings.Contains(q, "below") || strings.Contains(q, "under") || strings.Contains(q, "less"):
					f.MaxAmount = &core.Money{Cents: cents}
				}
			}
		}
	}

	// Rule 5: free-text keywords from whatever words remain.
	for _, w := range strings.Fields(q) {
		if stopWords[w] || utf8.RuneCountInString(w) <= 2 {
			continue
		}
		f.Keywords = appendUnique(f.Keywords, w)
	}

	return f
}

// appendUnique appends s unless already present, preserving insertion order.
func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
