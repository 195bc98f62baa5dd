// Package returns derives period returns and volatility from an aligned
// price table. Only real observations participate: explicitly missing and
// forward-filled cells are skipped, and a return bridging skipped rows is
// flagged as a lower-confidence sample instead of being dropped or zeroed.
package returns

import (
	"math"

	"equity_analytics/pkg/models"
)

// Compute derives a ReturnSeries per ticker column. The first available
// observation has no return; a column with fewer than two observations
// yields an empty series, which downstream consumers reject with their own
// sample-size checks.
func Compute(aligned *models.AlignedSeries) (map[string]*models.ReturnSeries, error) {
	if aligned == nil || len(aligned.Dates) == 0 {
		return nil, &models.AlignmentError{Reason: "empty aligned series"}
	}

	out := make(map[string]*models.ReturnSeries, len(aligned.Columns))
	for ticker, col := range aligned.Columns {
		rs := &models.ReturnSeries{Ticker: ticker}

		prevIdx := -1
		var prevPrice float64
		for i, cell := range col {
			if !cell.Observed() {
				continue
			}
			if prevIdx >= 0 {
				gap := i - prevIdx
				ratio := cell.Value / prevPrice
				rs.Points = append(rs.Points, models.ReturnPoint{
					Date:          aligned.Dates[i],
					Simple:        ratio - 1,
					Log:           math.Log(ratio),
					GapDays:       gap,
					LowConfidence: gap > 1,
				})
			}
			prevIdx, prevPrice = i, cell.Value
		}
		out[ticker] = rs
	}
	return out, nil
}

// Volatility is the sample standard deviation of simple returns over the
// trailing window (window <= 0 means the full series), annualized by
// sqrt(periodsPerYear).
func Volatility(rs *models.ReturnSeries, window, periodsPerYear int) (float64, error) {
	pts := rs.Points
	if window > 0 && window < len(pts) {
		pts = pts[len(pts)-window:]
	}
	if len(pts) < 2 {
		return 0, &models.InsufficientDataError{Ticker: rs.Ticker, Need: 2, Have: len(pts)}
	}

	var sum float64
	for _, p := range pts {
		sum += p.Simple
	}
	mean := sum / float64(len(pts))

	var variance float64
	for _, p := range pts {
		d := p.Simple - mean
		variance += d * d
	}
	variance /= float64(len(pts) - 1)

	return math.Sqrt(variance) * math.Sqrt(float64(periodsPerYear)), nil
}

// CumulativeReturn is the total compounded return over the series, i.e.
// the product of (1 + r) - 1. It equals the end/start price ratio minus one
// when no observations were skipped.
func CumulativeReturn(rs *models.ReturnSeries) float64 {
	wealth := 1.0
	for _, p := range rs.Points {
		wealth *= 1 + p.Simple
	}
	return wealth - 1
}

// AnnualizedReturn scales the mean simple return by periodsPerYear.
func AnnualizedReturn(rs *models.ReturnSeries, periodsPerYear int) float64 {
	if len(rs.Points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range rs.Points {
		sum += p.Simple
	}
	return sum / float64(len(rs.Points)) * float64(periodsPerYear)
}
