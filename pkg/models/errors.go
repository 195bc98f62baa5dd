package models

import (
	"fmt"
	"time"
)

// The engine never swallows a failure or substitutes a default numeric
// value for an undefined result. Each failure class below carries the
// triggering ticker/date context so callers can report it verbatim.

// AlignmentError reports a series that cannot be placed on a shared
// calendar: empty, duplicate dates, non-monotonic dates, or a gap that
// violates the fill policy.
type AlignmentError struct {
	Ticker string
	Date   time.Time
	Reason string
}

func (e *AlignmentError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("alignment failed for %s: %s", e.Ticker, e.Reason)
	}
	return fmt.Sprintf("alignment failed for %s at %s: %s", e.Ticker, e.Date.Format(DateFormat), e.Reason)
}

// CurrencyMismatchError reports series whose declared currencies disagree.
// Multi-currency conversion is the caller's job, not the aligner's.
type CurrencyMismatchError struct {
	Ticker string
	Want   string
	Got    string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch for %s: series is %s, alignment is %s", e.Ticker, e.Got, e.Want)
}

// DegenerateInputError reports a statistically undefined result, e.g. a
// Sharpe ratio over a flat series with zero volatility.
type DegenerateInputError struct {
	Ticker string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input for %s: %s", e.Ticker, e.Reason)
}

// InsufficientDataError reports too few observations for an estimate.
type InsufficientDataError struct {
	Ticker string
	Need   int
	Have   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need %d observations, have %d", e.Ticker, e.Need, e.Have)
}

// SchemaMismatchError reports a fundamentals batch missing a required
// canonical field across every supplied period.
type SchemaMismatchError struct {
	Ticker   string
	Provider string
	Field    string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch for %s (provider %s): required field %q absent from all periods", e.Ticker, e.Provider, e.Field)
}

// InvalidAssumptionError reports DCF parameters on which the model is
// mathematically undefined.
type InvalidAssumptionError struct {
	Ticker string
	Reason string
}

func (e *InvalidAssumptionError) Error() string {
	return fmt.Sprintf("invalid assumption for %s: %s", e.Ticker, e.Reason)
}
