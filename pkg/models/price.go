package models

import (
	"time"
)

// DateFormat is the canonical day-granularity date layout used across the engine.
const DateFormat = "2006-01-02"

// Day normalizes a timestamp to midnight UTC so dates compare and hash cleanly.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// PricePoint is a single daily bar for one ticker from one source.
// AdjClose is retroactively adjusted for splits/dividends and is the only
// field return computation reads.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   float64   `json:"volume"`
}

// SeriesMeta identifies a price series: the ticker, the provider it came
// from, and the currency the bars are quoted in.
type SeriesMeta struct {
	Ticker   string `json:"ticker"`
	Source   string `json:"source"`
	Currency string `json:"currency"`
	// Adjusted declares whether AdjClose was split/dividend adjusted upstream.
	Adjusted bool `json:"adjusted"`
}

// Series pairs a metadata tag with its ordered price bars.
type Series struct {
	Meta   SeriesMeta   `json:"meta"`
	Points []PricePoint `json:"points"`
}

// Cell is one (date, ticker) slot of an aligned table. A cell is either a
// real observation, an explicit gap, or a forward-filled value carrying the
// date it was filled from. It is never a silent NaN.
type Cell struct {
	Value      float64    `json:"value"`
	Missing    bool       `json:"missing,omitempty"`
	FilledFrom *time.Time `json:"filled_from,omitempty"`
}

// Observed reports whether the cell holds a real (not filled, not missing)
// observation.
func (c Cell) Observed() bool { return !c.Missing && c.FilledFrom == nil }

// AlignedSeries is the per-ticker value table over a shared trading
// calendar. Every ticker column has exactly len(Dates) cells; a ticker
// missing a date still occupies a row.
type AlignedSeries struct {
	Dates    []time.Time       `json:"dates"`
	Currency string            `json:"currency"`
	Columns  map[string][]Cell `json:"columns"`
}

// Tickers returns the column names in no particular order.
func (a *AlignedSeries) Tickers() []string {
	out := make([]string, 0, len(a.Columns))
	for t := range a.Columns {
		out = append(out, t)
	}
	return out
}
