package insights

import (
	"errors"
	"math"
	"sort"
	"time"

	"vibe/internal/core"
)

// ErrNotEnoughData is returned when the ledger covers fewer than two
// distinct days, which is not enough to fit a trend.
var ErrNotEnoughData = errors.New("not enough data to forecast: need at least 2 days")

// ForecastPoint is one projected day of spending with a confidence band.
type ForecastPoint struct {
	Date     core.Date
	Forecast core.Money
	Lower    core.Money
	Upper    core.Money
}

// Forecast projects total daily spend for the given number of future days.
// Daily totals are fitted with an ordinary least-squares trend; the band is
// the fit plus/minus 1.96 residual standard deviations, floored at zero.
// Projections are clamped non-negative as well, since a spend forecast below
// zero is meaningless.
func Forecast(ledger core.Ledger, days int) ([]ForecastPoint, error) {
	if days <= 0 {
		return nil, errors.New("forecast horizon must be positive")
	}

	totals := dailyTotals(ledger)
	if len(totals) < 2 {
		return nil, ErrNotEnoughData
	}

	first := totals[0].date
	xs := make([]float64, len(totals))
	ys := make([]float64, len(totals))
	for i, d := range totals {
		xs[i] = d.date.Sub(first).Hours() / 24
		ys[i] = float64(d.cents)
	}

	slope, intercept := leastSquares(xs, ys)

	// Residual spread drives the confidence band.
	var ss float64
	for i := range xs {
		r := ys[i] - (intercept + slope*xs[i])
		ss += r * r
	}
	sigma := math.Sqrt(ss / float64(len(xs)-1))

	lastDay := totals[len(totals)-1].date
	lastX := lastDay.Sub(first).Hours() / 24

	out := make([]ForecastPoint, 0, days)
	for d := 1; d <= days; d++ {
		x := lastX + float64(d)
		y := intercept + slope*x
		out = append(out, ForecastPoint{
			Date:     core.Date{Time: lastDay.AddDate(0, 0, d)},
			Forecast: core.Money{Cents: clampCents(y)},
			Lower:    core.Money{Cents: clampCents(y - 1.96*sigma)},
			Upper:    core.Money{Cents: clampCents(y + 1.96*sigma)},
		})
	}
	return out, nil
}

type dayTotal struct {
	date  time.Time
	cents int64
}

func dailyTotals(ledger core.Ledger) []dayTotal {
	sums := make(map[time.Time]int64)
	for _, tx := range ledger {
		day := tx.Date.Truncate(24 * time.Hour)
		sums[day] += tx.Amount.Cents
	}
	out := make([]dayTotal, 0, len(sums))
	for day, cents := range sums {
		out = append(out, dayTotal{date: day, cents: cents})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out
}

func leastSquares(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func clampCents(v float64) int64 {
	if v < 0 {
		return 0
	}
	return int64(math.Round(v))
}
