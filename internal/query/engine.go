package query

import "vibe/internal/core"

// Report runs the full pipeline for one user query: parse the text into a
// Filter, execute it against a private snapshot of the ledger, and render
// the summary sentence. It holds no state between calls, so concurrent
// invocations over the same ledger are safe.
func Report(text string, ledger core.Ledger) (core.Ledger, string) {
	f := Parse(text)
	results := Execute(f, ledger.Clone())
	return results, Render(results, f, text)
}
