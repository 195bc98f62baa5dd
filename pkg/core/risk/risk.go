// Package risk computes benchmark-relative risk metrics from return
// series. Beta and alpha are estimated only over dates present in both the
// ticker and the benchmark: misaligned dates are excluded from the sample,
// never treated as zero returns.
package risk

import (
	"math"
	"sort"
	"time"

	"equity_analytics/pkg/core/returns"
	"equity_analytics/pkg/models"
)

// Params carries the rate and annualization conventions.
type Params struct {
	RiskFreeRate   float64
	PeriodsPerYear int
}

// minOverlap is the smallest joint sample beta/alpha can be estimated on.
const minOverlap = 2

// Compute derives the full risk profile of ticker against benchmark.
func Compute(ticker, benchmark *models.ReturnSeries, p Params) (*models.RiskMetrics, error) {
	tJoined, bJoined := innerJoin(ticker, benchmark)
	if len(tJoined) < minOverlap {
		return nil, &models.InsufficientDataError{Ticker: ticker.Ticker, Need: minOverlap, Have: len(tJoined)}
	}

	// 1. Beta = cov(ticker, benchmark) / var(benchmark) on the joint sample.
	meanT := mean(tJoined)
	meanB := mean(bJoined)
	var cov, varB float64
	for i := range tJoined {
		cov += (tJoined[i] - meanT) * (bJoined[i] - meanB)
		varB += (bJoined[i] - meanB) * (bJoined[i] - meanB)
	}
	n := float64(len(tJoined) - 1)
	cov /= n
	varB /= n
	if varB == 0 {
		return nil, &models.DegenerateInputError{Ticker: benchmark.Ticker, Reason: "benchmark variance is zero"}
	}
	beta := cov / varB

	// 2. Alpha, annualized with the same period convention as the returns.
	alpha := (meanT - beta*meanB) * float64(p.PeriodsPerYear)

	// 3. Sharpe over the ticker's own full series.
	vol, err := returns.Volatility(ticker, 0, p.PeriodsPerYear)
	if err != nil {
		return nil, err
	}
	if vol == 0 {
		return nil, &models.DegenerateInputError{Ticker: ticker.Ticker, Reason: "zero volatility"}
	}
	annReturn := returns.AnnualizedReturn(ticker, p.PeriodsPerYear)
	sharpe := (annReturn - p.RiskFreeRate) / vol

	// 4. Drawdown from the compounded wealth index.
	maxDD, peak, trough := maxDrawdown(ticker)

	m := &models.RiskMetrics{
		Ticker:           ticker.Ticker,
		Sharpe:           sharpe,
		Alpha:            alpha,
		Beta:             beta,
		MaxDrawdown:      maxDD,
		DrawdownPeak:     peak,
		DrawdownTrough:   trough,
		AnnualizedReturn: annReturn,
		Volatility:       vol,
		Observations:     len(tJoined),
	}

	// 5. Distribution-sensitive extras. A series with no downside
	// observations or no drawdown leaves the dependent ratio unset
	// rather than zero.
	m.DownsideDeviation = downsideDeviation(ticker, p)
	if m.DownsideDeviation > 0 {
		m.Sortino = ptr((annReturn - p.RiskFreeRate) / m.DownsideDeviation)
	}
	if maxDD < 0 {
		m.Calmar = ptr(annReturn / -maxDD)
	}
	m.VaR95 = historicalVaR(ticker, 0.95)

	return m, nil
}

// innerJoin pairs returns by date, dropping dates absent from either side.
func innerJoin(a, b *models.ReturnSeries) (av, bv []float64) {
	bByDate := make(map[time.Time]float64, len(b.Points))
	for _, p := range b.Points {
		bByDate[p.Date] = p.Simple
	}
	for _, p := range a.Points {
		if bv2, ok := bByDate[p.Date]; ok {
			av = append(av, p.Simple)
			bv = append(bv, bv2)
		}
	}
	return av, bv
}

func ptr(f float64) *float64 { return &f }

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// maxDrawdown walks the wealth index w[t] = prod(1+r) and reports the
// deepest peak-to-trough fall as a negative fraction with both dates.
func maxDrawdown(rs *models.ReturnSeries) (dd float64, peak, trough time.Time) {
	if len(rs.Points) == 0 {
		return 0, time.Time{}, time.Time{}
	}
	wealth := 1.0
	runningMax := 1.0
	peakDate := rs.Points[0].Date
	for _, p := range rs.Points {
		wealth *= 1 + p.Simple
		if wealth > runningMax {
			runningMax = wealth
			peakDate = p.Date
		}
		if d := wealth/runningMax - 1; d < dd {
			dd = d
			peak = peakDate
			trough = p.Date
		}
	}
	return dd, peak, trough
}

// downsideDeviation is the annualized root-mean-square of returns below
// the per-period risk-free rate.
func downsideDeviation(rs *models.ReturnSeries, p Params) float64 {
	periodRF := p.RiskFreeRate / float64(p.PeriodsPerYear)
	var sum float64
	count := 0
	for _, pt := range rs.Points {
		if pt.Simple < periodRF {
			d := periodRF - pt.Simple
			sum += d * d
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(count) * float64(p.PeriodsPerYear))
}

// historicalVaR is the empirical loss quantile at the given confidence,
// reported as a positive fraction.
func historicalVaR(rs *models.ReturnSeries, confidence float64) float64 {
	if len(rs.Points) == 0 {
		return 0
	}
	sorted := rs.SimpleReturns()
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)) * (1 - confidence))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return -sorted[idx]
}
