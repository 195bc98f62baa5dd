package models

import (
	"time"
)

// ReturnPoint is one period return. GapDays counts the calendar rows
// spanned to the prior observation; anything above 1 means the return
// bridges missing data and is flagged low confidence.
type ReturnPoint struct {
	Date          time.Time `json:"date"`
	Simple        float64   `json:"simple_return"`
	Log           float64   `json:"log_return"`
	GapDays       int       `json:"gap_days"`
	LowConfidence bool      `json:"low_confidence,omitempty"`
}

// ReturnSeries holds the derived returns for one ticker. The first date of
// the source calendar has no return (undefined, not zero), so Points starts
// at the second available observation.
type ReturnSeries struct {
	Ticker string        `json:"ticker"`
	Points []ReturnPoint `json:"points"`
}

// SimpleReturns returns the simple-return values in order.
func (rs *ReturnSeries) SimpleReturns() []float64 {
	out := make([]float64, len(rs.Points))
	for i, p := range rs.Points {
		out[i] = p.Simple
	}
	return out
}

// RiskMetrics is the benchmark-relative risk/return profile for one ticker.
// Alpha, Sharpe and the deviation figures are annualized consistently with
// the return period. MaxDrawdown is a negative fraction.
type RiskMetrics struct {
	Ticker string `json:"ticker"`

	Sharpe float64 `json:"sharpe"`
	Alpha  float64 `json:"alpha"`
	Beta   float64 `json:"beta"`

	MaxDrawdown    float64   `json:"max_drawdown"`
	DrawdownPeak   time.Time `json:"drawdown_peak"`
	DrawdownTrough time.Time `json:"drawdown_trough"`

	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`

	// Sortino and Calmar are nil when their denominator is undefined
	// (no downside observations, no drawdown); an undefined ratio is
	// never reported as zero.
	Sortino           *float64 `json:"sortino,omitempty"`
	Calmar            *float64 `json:"calmar,omitempty"`
	VaR95             float64  `json:"var_95"`
	DownsideDeviation float64  `json:"downside_deviation"`

	// Observations is the count of dates present in both ticker and
	// benchmark series, i.e. the sample beta/alpha were estimated on.
	Observations int `json:"observations"`
}
