package risk

import (
	"errors"
	"math"
	"testing"
	"time"

	"equity_analytics/pkg/models"
)

const tol = 1e-9

func date(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// returnSeries builds a series with consecutive dates starting 2024-01-02.
func returnSeries(ticker string, simples ...float64) *models.ReturnSeries {
	start := date("2024-01-02")
	rs := &models.ReturnSeries{Ticker: ticker}
	for i, r := range simples {
		rs.Points = append(rs.Points, models.ReturnPoint{
			Date:   start.AddDate(0, 0, i),
			Simple: r,
			Log:    math.Log(1 + r),
		})
	}
	return rs
}

var params = Params{RiskFreeRate: 0.04, PeriodsPerYear: 252}

func TestBetaAgainstSelfIsOne(t *testing.T) {
	rs := returnSeries("AAA", 0.01, -0.02, 0.015, 0.005, -0.01)
	bench := returnSeries("SPY", 0.01, -0.02, 0.015, 0.005, -0.01)

	m, err := Compute(rs, bench, params)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.Beta-1.0) > tol {
		t.Errorf("beta of a series against itself = %v, want 1.0", m.Beta)
	}
	// alpha = mean - 1.0*mean = 0, annualized still 0.
	if math.Abs(m.Alpha) > tol {
		t.Errorf("alpha against itself = %v, want 0", m.Alpha)
	}
}

func TestZeroVolatilityIsDegenerate(t *testing.T) {
	flat := returnSeries("AAA", 0, 0, 0, 0)
	bench := returnSeries("SPY", 0.01, -0.01, 0.02, -0.02)

	_, err := Compute(flat, bench, params)
	var degen *models.DegenerateInputError
	if !errors.As(err, &degen) {
		t.Fatalf("expected DegenerateInputError for flat series, got %v", err)
	}
}

func TestFlatBenchmarkIsDegenerate(t *testing.T) {
	rs := returnSeries("AAA", 0.01, -0.01, 0.02, -0.02)
	flat := returnSeries("SPY", 0, 0, 0, 0)

	_, err := Compute(rs, flat, params)
	var degen *models.DegenerateInputError
	if !errors.As(err, &degen) {
		t.Fatalf("expected DegenerateInputError for zero-variance benchmark, got %v", err)
	}
}

func TestInsufficientOverlap(t *testing.T) {
	rs := returnSeries("AAA", 0.01, 0.02)
	// Benchmark dated far from the ticker: no overlapping dates.
	bench := &models.ReturnSeries{Ticker: "SPY", Points: []models.ReturnPoint{
		{Date: date("2020-01-02"), Simple: 0.01},
		{Date: date("2020-01-03"), Simple: -0.01},
	}}

	_, err := Compute(rs, bench, params)
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestBetaUsesOnlyOverlappingDates(t *testing.T) {
	// 100 ticker observations; the benchmark is missing 3 of those dates.
	// Beta must be estimated on exactly 97 joint observations.
	start := date("2024-01-02")
	ticker := &models.ReturnSeries{Ticker: "AAA"}
	bench := &models.ReturnSeries{Ticker: "SPY"}
	skip := map[int]bool{10: true, 40: true, 70: true}
	for i := 0; i < 100; i++ {
		d := start.AddDate(0, 0, i)
		r := 0.01 * math.Sin(float64(i))
		ticker.Points = append(ticker.Points, models.ReturnPoint{Date: d, Simple: r})
		if !skip[i] {
			bench.Points = append(bench.Points, models.ReturnPoint{Date: d, Simple: 0.5 * r})
		}
	}

	m, err := Compute(ticker, bench, params)
	if err != nil {
		t.Fatal(err)
	}
	if m.Observations != 97 {
		t.Errorf("beta sample size = %d, want 97 (inner join, not union)", m.Observations)
	}
	// Ticker moves exactly 2x the benchmark on joint dates.
	if math.Abs(m.Beta-2.0) > 1e-6 {
		t.Errorf("beta = %v, want 2.0", m.Beta)
	}
}

func TestMaxDrawdown(t *testing.T) {
	// Wealth path: 1.10, 0.99, 0.88 (peak 1.10 then two drops), recovery.
	// Deepest point: 0.88/1.10 - 1 = -0.2.
	rs := returnSeries("AAA", 0.10, -0.10, -1.0/9.0, 0.25)

	m, err := Compute(rs, returnSeries("SPY", 0.10, -0.10, -1.0/9.0, 0.25), params)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.MaxDrawdown-(-0.2)) > 1e-9 {
		t.Errorf("max drawdown = %v, want -0.2", m.MaxDrawdown)
	}
	if m.MaxDrawdown >= 0 {
		t.Error("drawdown must be reported as a negative fraction")
	}
	if !m.DrawdownPeak.Equal(date("2024-01-02")) {
		t.Errorf("drawdown peak = %v, want 2024-01-02", m.DrawdownPeak)
	}
	if !m.DrawdownTrough.Equal(date("2024-01-04")) {
		t.Errorf("drawdown trough = %v, want 2024-01-04", m.DrawdownTrough)
	}
}

func TestAllGainSeriesLeavesSortinoCalmarUnset(t *testing.T) {
	// Every return sits above the per-period risk-free rate and the wealth
	// index never falls: downside deviation has no sample and there is no
	// drawdown, so both dependent ratios are undefined, not zero.
	rs := returnSeries("AAA", 0.010, 0.012, 0.014, 0.011, 0.013)
	bench := returnSeries("SPY", 0.005, 0.010, 0.002, 0.008, 0.004)

	m, err := Compute(rs, bench, params)
	if err != nil {
		t.Fatal(err)
	}
	if m.DownsideDeviation != 0 {
		t.Errorf("downside deviation = %v, want 0 for an all-gain series", m.DownsideDeviation)
	}
	if m.Sortino != nil {
		t.Errorf("sortino = %v, want unset when downside deviation is zero", *m.Sortino)
	}
	if m.MaxDrawdown != 0 {
		t.Errorf("max drawdown = %v, want 0 for a monotonic wealth path", m.MaxDrawdown)
	}
	if m.Calmar != nil {
		t.Errorf("calmar = %v, want unset when there is no drawdown", *m.Calmar)
	}
	if m.Sharpe <= 0 {
		t.Errorf("sharpe = %v, want positive for an all-gain series", m.Sharpe)
	}
}

func TestMixedSeriesSetsSortinoCalmar(t *testing.T) {
	rs := returnSeries("AAA", 0.02, -0.01, 0.015, -0.02, 0.01)
	bench := returnSeries("SPY", 0.01, -0.02, 0.03, -0.01, 0.005)

	m, err := Compute(rs, bench, params)
	if err != nil {
		t.Fatal(err)
	}
	if m.Sortino == nil {
		t.Error("sortino unset despite downside observations")
	}
	if m.Calmar == nil {
		t.Error("calmar unset despite a drawdown")
	}
}

func TestIdenticalSeriesIdenticalMetrics(t *testing.T) {
	bench := returnSeries("SPY", 0.01, -0.02, 0.03, -0.01, 0.005)
	a := returnSeries("AAA", 0.02, -0.01, 0.015, -0.02, 0.01)
	b := returnSeries("BBB", 0.02, -0.01, 0.015, -0.02, 0.01)

	ma, err := Compute(a, bench, params)
	if err != nil {
		t.Fatal(err)
	}
	mb, err := Compute(b, bench, params)
	if err != nil {
		t.Fatal(err)
	}

	if ma.Sharpe != mb.Sharpe || ma.Alpha != mb.Alpha || ma.Beta != mb.Beta ||
		ma.MaxDrawdown != mb.MaxDrawdown || ma.Volatility != mb.Volatility {
		t.Errorf("identical price histories must produce identical metrics:\n%+v\n%+v", ma, mb)
	}
}
