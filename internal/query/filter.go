package query

import "vibe/internal/core"

// Filter is the structured form of a parsed free-text query. The zero value
// matches everything: the executor treats unset fields as no-ops, so an
// unparseable query yields the full ledger rather than an error.
type Filter struct {
	// Month is 1-12, 0 when no month was recognized.
	Month int
	// Year is only meaningful alongside Month.
	Year int

	// Categories holds recognized category labels in the order they were
	// detected. The summary renderer shows at most the first two.
	Categories []string

	// Keywords holds lowercase substrings matched against descriptions: the
	// union of category trigger words and free-standing query words.
	Keywords []string

	// MinAmount and MaxAmount are inclusive bounds; nil means unset. A parsed
	// threshold of zero is left unset, matching the behavior the rule set was
	// lifted from.
	MinAmount *core.Money
	MaxAmount *core.Money
}

// IsEmpty reports whether no filter field is set.
func (f Filter) IsEmpty() bool {
	return f.Month == 0 && f.Year == 0 &&
		len(f.Categories) == 0 && len(f.Keywords) == 0 &&
		f.MinAmount == nil && f.MaxAmount == nil
}
