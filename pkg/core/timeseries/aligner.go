// Package timeseries places raw price series from heterogeneous sources
// onto a single shared trading calendar. The calendar is the union of all
// input dates: a ticker missing a date still occupies a row, marked
// explicitly missing rather than dropped or NaN-filled.
package timeseries

import (
	"sort"
	"time"

	"equity_analytics/pkg/core/config"
	"equity_analytics/pkg/core/logger"
	"equity_analytics/pkg/models"
)

// AlignOptions selects the gap-handling behavior.
type AlignOptions struct {
	Policy config.FillPolicy
	// MaxFillGap bounds forward filling (and, under FillFail, the largest
	// tolerated gap) in calendar rows.
	MaxFillGap int
}

// DefaultOptions leaves gaps as explicit missing cells.
func DefaultOptions() AlignOptions {
	return AlignOptions{Policy: config.FillNone, MaxFillGap: 5}
}

// Align validates every input series and builds the shared-calendar table.
// All series must share one currency; converting beforehand is the
// caller's responsibility.
func Align(inputs []models.Series, opts AlignOptions) (*models.AlignedSeries, error) {
	if len(inputs) == 0 {
		return nil, &models.AlignmentError{Reason: "no input series"}
	}

	currency := inputs[0].Meta.Currency
	calendar := map[time.Time]struct{}{}

	for _, s := range inputs {
		if err := validateSeries(s); err != nil {
			return nil, err
		}
		if s.Meta.Currency != currency {
			return nil, &models.CurrencyMismatchError{
				Ticker: s.Meta.Ticker,
				Want:   currency,
				Got:    s.Meta.Currency,
			}
		}
		if !s.Meta.Adjusted {
			logger.WithField("ticker", s.Meta.Ticker).
				Warn("series not declared split/dividend adjusted; returns may be distorted")
		}
		for _, p := range s.Points {
			calendar[models.Day(p.Date)] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(calendar))
	for d := range calendar {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	aligned := &models.AlignedSeries{
		Dates:    dates,
		Currency: currency,
		Columns:  make(map[string][]Cell, len(inputs)),
	}

	for _, s := range inputs {
		if _, dup := aligned.Columns[s.Meta.Ticker]; dup {
			return nil, &models.AlignmentError{
				Ticker: s.Meta.Ticker,
				Reason: "ticker appears in more than one input series",
			}
		}
		col, err := buildColumn(s, dates, opts)
		if err != nil {
			return nil, err
		}
		aligned.Columns[s.Meta.Ticker] = col
	}

	return aligned, nil
}

// Cell aliases the model cell type for readability inside this package.
type Cell = models.Cell

func validateSeries(s models.Series) error {
	if len(s.Points) == 0 {
		return &models.AlignmentError{Ticker: s.Meta.Ticker, Reason: "series is empty"}
	}
	for i := 1; i < len(s.Points); i++ {
		prev, cur := models.Day(s.Points[i-1].Date), models.Day(s.Points[i].Date)
		if cur.Equal(prev) {
			return &models.AlignmentError{Ticker: s.Meta.Ticker, Date: cur, Reason: "duplicate date"}
		}
		if cur.Before(prev) {
			return &models.AlignmentError{Ticker: s.Meta.Ticker, Date: cur, Reason: "dates not in increasing order"}
		}
	}
	return nil
}

// buildColumn walks the shared calendar once, placing observations and
// applying the gap policy in the same pass.
func buildColumn(s models.Series, dates []time.Time, opts AlignOptions) ([]Cell, error) {
	byDate := make(map[time.Time]float64, len(s.Points))
	for _, p := range s.Points {
		byDate[models.Day(p.Date)] = p.AdjClose
	}

	col := make([]Cell, len(dates))
	var lastSeen time.Time
	var lastValue float64
	haveSeen := false
	gapRun := 0

	for i, d := range dates {
		if v, ok := byDate[d]; ok {
			col[i] = Cell{Value: v}
			lastSeen, lastValue, haveSeen = d, v, true
			gapRun = 0
			continue
		}

		gapRun++
		switch opts.Policy {
		case config.FillForward:
			if haveSeen && gapRun <= opts.MaxFillGap {
				from := lastSeen
				col[i] = Cell{Value: lastValue, FilledFrom: &from}
			} else {
				col[i] = Cell{Missing: true}
			}
		case config.FillFail:
			// Leading gaps (before the ticker's first observation) are a
			// calendar artifact of the union, not a data hole.
			if haveSeen && gapRun > opts.MaxFillGap {
				return nil, &models.AlignmentError{
					Ticker: s.Meta.Ticker,
					Date:   d,
					Reason: "gap exceeds max_fill_gap_days under fail policy",
				}
			}
			col[i] = Cell{Missing: true}
		default:
			col[i] = Cell{Missing: true}
		}
	}

	return col, nil
}
