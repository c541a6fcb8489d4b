package insights

import (
	"math"
	"sort"

	"vibe/internal/core"
)

// Anomaly is a transaction flagged as unusual, with the reason.
type Anomaly struct {
	Transaction core.Transaction
	Reason      string
}

// DetectAnomalies flags transactions whose amount exceeds the ledger mean by
// more than two standard deviations. Fewer than two transactions can never
// be anomalous.
func DetectAnomalies(ledger core.Ledger) []core.Transaction {
	mean, std, ok := meanStd(ledger)
	if !ok {
		return nil
	}
	threshold := mean + 2*std
	var out []core.Transaction
	for _, tx := range ledger {
		if float64(tx.Amount.Cents) > threshold {
			out = append(out, tx)
		}
	}
	return out
}

// DetectCategoryAnomalies applies the same two-sigma rule within each
// category. Categories with fewer than three transactions are skipped.
func DetectCategoryAnomalies(ledger core.Ledger) []Anomaly {
	byCat := make(map[string]core.Ledger)
	var order []string
	for _, tx := range ledger {
		if _, ok := byCat[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		byCat[tx.Category] = append(byCat[tx.Category], tx)
	}

	var out []Anomaly
	for _, cat := range order {
		group := byCat[cat]
		if len(group) < 3 {
			continue
		}
		mean, std, ok := meanStd(group)
		if !ok {
			continue
		}
		threshold := mean + 2*std
		for _, tx := range group {
			if float64(tx.Amount.Cents) > threshold {
				out = append(out, Anomaly{
					Transaction: tx,
					Reason:      "amount exceeds the " + cat + " average by two standard deviations",
				})
			}
		}
	}
	return out
}

// DetectSpikes flags transactions that stand out against a centered rolling
// window of their neighbors in date order. Positions without a full window
// are never spikes.
func DetectSpikes(ledger core.Ledger, window int) []core.Transaction {
	if window < 2 || len(ledger) < window {
		return nil
	}
	sorted := ledger.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	var out []core.Transaction
	half := window / 2
	for i := range sorted {
		lo := i - half
		hi := lo + window
		if lo < 0 || hi > len(sorted) {
			continue
		}
		mean, std, ok := meanStd(sorted[lo:hi])
		if !ok {
			continue
		}
		if float64(sorted[i].Amount.Cents) > mean+2*std {
			out = append(out, sorted[i])
		}
	}
	return out
}

// meanStd returns the mean and sample standard deviation of the amounts in
// cents. ok is false when there are fewer than two transactions.
func meanStd(ledger core.Ledger) (mean, std float64, ok bool) {
	n := len(ledger)
	if n < 2 {
		return 0, 0, false
	}
	var sum float64
	for _, tx := range ledger {
		sum += float64(tx.Amount.Cents)
	}
	mean = sum / float64(n)
	var ss float64
	for _, tx := range ledger {
		d := float64(tx.Amount.Cents) - mean
		ss += d * d
	}
	std = math.Sqrt(ss / float64(n-1))
	return mean, std, true
}
