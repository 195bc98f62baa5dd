// Package compare ranks a subject ticker against a caller-supplied peer
// set. Ranking is per metric with standard competition ranking (equal
// values share a rank); a participant missing a metric sits out that
// metric only and stays in the rest of the report.
package compare

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"equity_analytics/pkg/models"
)

// Entry is one participant: a ticker and whatever metrics were computed
// for it. Absent map keys mean the metric is missing for this ticker.
type Entry struct {
	Ticker  string
	Metrics map[string]float64
}

// EntryFrom flattens a risk profile and a valuation result into a
// comparison participant. Multiples without a value (non-meaningful or
// missing input) are simply absent, which excludes the ticker from those
// rankings.
func EntryFrom(risk *models.RiskMetrics, val *models.ValuationResult) Entry {
	e := Entry{Metrics: map[string]float64{}}
	if risk != nil {
		e.Ticker = risk.Ticker
		e.Metrics["sharpe"] = risk.Sharpe
		e.Metrics["alpha"] = risk.Alpha
		e.Metrics["beta"] = risk.Beta
		e.Metrics["max_drawdown"] = risk.MaxDrawdown
		e.Metrics["volatility"] = risk.Volatility
		e.Metrics["annualized_return"] = risk.AnnualizedReturn
		if risk.Sortino != nil {
			e.Metrics["sortino"] = *risk.Sortino
		}
		if risk.Calmar != nil {
			e.Metrics["calmar"] = *risk.Calmar
		}
		e.Metrics["var_95"] = risk.VaR95
		e.Metrics["downside_deviation"] = risk.DownsideDeviation
	}
	if val != nil {
		e.Ticker = val.Ticker
		for name, m := range val.Multiples {
			if m.Value != nil {
				e.Metrics[name] = *m.Value
			}
		}
		if val.DCFValue != nil {
			e.Metrics["dcf_value"] = *val.DCFValue
		}
	}
	return e
}

// lowerIsBetter flips the ranking direction for metrics where a smaller
// value is the stronger showing. max_drawdown is a negative fraction, so
// larger (closer to zero) already means better.
var lowerIsBetter = map[string]bool{
	"pe":                 true,
	"peg":                true,
	"debt_to_equity":     true,
	"price_to_sales":     true,
	"volatility":         true,
	"var_95":             true,
	"downside_deviation": true,
}

// Compare builds the ranked report. The result is independent of the
// order peers were supplied in.
func Compare(subject Entry, peers []Entry, asOf time.Time) (*models.ComparisonReport, error) {
	if subject.Ticker == "" {
		return nil, &models.DegenerateInputError{Reason: "subject has no ticker"}
	}

	participants := append([]Entry{subject}, peers...)

	peerSet := make([]string, 0, len(peers))
	metricSet := map[string]struct{}{}
	for _, p := range participants {
		for m := range p.Metrics {
			metricSet[m] = struct{}{}
		}
	}
	for _, p := range peers {
		peerSet = append(peerSet, p.Ticker)
	}
	sort.Strings(peerSet)

	metrics := make([]string, 0, len(metricSet))
	for m := range metricSet {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	report := &models.ComparisonReport{
		ReportID:      uuid.New().String(),
		SubjectTicker: subject.Ticker,
		PeerSet:       peerSet,
		AsOfDate:      asOf,
	}

	for _, metric := range metrics {
		report.Rankings = append(report.Rankings, rankMetric(metric, participants))
	}

	return report, nil
}

// rankMetric ranks the participants reporting this metric and lists the
// rest as excluded.
func rankMetric(metric string, participants []Entry) models.MetricRanking {
	type sample struct {
		ticker string
		value  float64
	}
	var samples []sample
	var excluded []string
	for _, p := range participants {
		if v, ok := p.Metrics[metric]; ok {
			samples = append(samples, sample{p.Ticker, v})
		} else {
			excluded = append(excluded, p.Ticker)
		}
	}
	sort.Strings(excluded)

	better := func(a, b float64) bool {
		if lowerIsBetter[metric] {
			return a < b
		}
		return a > b
	}
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].value != samples[j].value {
			return better(samples[i].value, samples[j].value)
		}
		return samples[i].ticker < samples[j].ticker
	})

	n := len(samples)
	ranking := models.MetricRanking{Metric: metric, Excluded: excluded}
	for i, s := range samples {
		rank := i + 1
		if i > 0 && s.value == samples[i-1].value {
			rank = ranking.Ranked[i-1].Rank
		}
		percentile := 100.0
		if n > 1 {
			percentile = 100 * float64(n-rank) / float64(n-1)
		}
		ranking.Ranked = append(ranking.Ranked, models.RankedValue{
			Ticker:     s.ticker,
			Value:      s.value,
			Rank:       rank,
			Percentile: percentile,
		})
	}
	return ranking
}
