package models

import (
	"time"
)

// ReasonNonMeaningful marks a multiple whose denominator was zero or
// negative. The value stays nil; it is never reported as +/-Inf.
const ReasonNonMeaningful = "non_meaningful_ratio"

// ReasonMissingInput marks a multiple that could not be computed because a
// canonical field it needs was absent from the fundamentals record.
const ReasonMissingInput = "missing_input"

// Multiple is one relative-valuation ratio. Value is nil when the ratio is
// undefined, with Reason explaining why.
type Multiple struct {
	Value  *float64 `json:"value"`
	Reason string   `json:"reason,omitempty"`
}

// DCFAssumptions records every input the DCF result depends on. A dcf_value
// is meaningless without them, so they travel with the result.
type DCFAssumptions struct {
	StartingFCF    float64 `json:"starting_fcf"`
	GrowthRate     float64 `json:"growth_rate"`
	DiscountRate   float64 `json:"discount_rate"`
	TerminalGrowth float64 `json:"terminal_growth"`
	HorizonYears   int     `json:"horizon_years"`
}

// ValuationResult is the immutable valuation snapshot for one ticker as of
// one date. Recomputation produces a new value, never mutates an old one.
type ValuationResult struct {
	Ticker      string              `json:"ticker"`
	AsOfDate    time.Time           `json:"as_of_date"`
	Multiples   map[string]Multiple `json:"multiples"`
	DCFValue    *float64            `json:"dcf_value,omitempty"`
	Assumptions *DCFAssumptions     `json:"assumptions,omitempty"`
}
