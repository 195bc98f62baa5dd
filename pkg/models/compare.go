package models

import (
	"time"
)

// RankedValue is one participant's standing on one metric.
type RankedValue struct {
	Ticker string  `json:"ticker"`
	Value  float64 `json:"value"`
	// Rank uses standard competition ranking: equal values share a rank
	// and the next distinct value skips the tied positions.
	Rank       int     `json:"rank"`
	Percentile float64 `json:"percentile"`
}

// MetricRanking ranks all participants that reported a value for one
// metric. Participants missing the metric are listed in Excluded and sit
// out this metric only.
type MetricRanking struct {
	Metric   string        `json:"metric"`
	Ranked   []RankedValue `json:"ranked"`
	Excluded []string      `json:"excluded,omitempty"`
}

// ComparisonReport benchmarks a subject ticker against a caller-supplied
// peer set. It is a plain derived record: the engine keeps no reference to
// it once returned.
type ComparisonReport struct {
	ReportID      string    `json:"report_id"`
	SubjectTicker string    `json:"subject_ticker"`
	PeerSet       []string  `json:"peer_set"`
	AsOfDate      time.Time `json:"as_of_date"`

	Rankings []MetricRanking `json:"rankings"`

	// Errors maps failed peer tickers to the failure that excluded them.
	// A failed peer is dropped from rankings, not the whole report.
	Errors map[string]string `json:"errors,omitempty"`
}
