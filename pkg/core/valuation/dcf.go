package valuation

import (
	"math"

	"equity_analytics/pkg/models"
)

// DCFInput parameterizes an explicit N-year free-cash-flow projection with
// a perpetuity-growth terminal value.
type DCFInput struct {
	Ticker string

	StartingFCF    float64 // most recent annual free cash flow
	GrowthRate     float64 // explicit-period FCF growth, e.g. 0.05
	DiscountRate   float64
	TerminalGrowth float64 // e.g. 0.025
	HorizonYears   int

	// Optional: when SharesOutstanding > 0 the result also carries a
	// per-share equity value net of NetDebt.
	SharesOutstanding float64
	NetDebt           float64
}

// DCFResult is the present-value breakdown of the projection.
type DCFResult struct {
	Value         float64 // PV of explicit FCF + PV of terminal value
	PVExplicit    float64
	PVTerminal    float64
	TerminalValue float64
	PerShare      *float64

	Assumptions models.DCFAssumptions
}

// ComputeDCF runs the projection. The perpetuity formula is undefined when
// the discount rate does not exceed terminal growth, so that input fails
// with InvalidAssumptionError instead of producing a sign-flipped value.
func ComputeDCF(in DCFInput) (*DCFResult, error) {
	if in.HorizonYears <= 0 {
		return nil, &models.InvalidAssumptionError{Ticker: in.Ticker, Reason: "projection horizon must be at least one year"}
	}
	if in.DiscountRate <= in.TerminalGrowth {
		return nil, &models.InvalidAssumptionError{Ticker: in.Ticker, Reason: "discount rate must exceed terminal growth"}
	}

	// 1. Explicit period: grow FCF and discount each year.
	fcf := in.StartingFCF
	var pvExplicit float64
	for year := 1; year <= in.HorizonYears; year++ {
		fcf *= 1 + in.GrowthRate
		pvExplicit += fcf / math.Pow(1+in.DiscountRate, float64(year))
	}

	// 2. Terminal value by perpetuity growth on the final-year FCF.
	terminal := fcf * (1 + in.TerminalGrowth) / (in.DiscountRate - in.TerminalGrowth)
	pvTerminal := terminal / math.Pow(1+in.DiscountRate, float64(in.HorizonYears))

	res := &DCFResult{
		Value:         pvExplicit + pvTerminal,
		PVExplicit:    pvExplicit,
		PVTerminal:    pvTerminal,
		TerminalValue: terminal,
		Assumptions: models.DCFAssumptions{
			StartingFCF:    in.StartingFCF,
			GrowthRate:     in.GrowthRate,
			DiscountRate:   in.DiscountRate,
			TerminalGrowth: in.TerminalGrowth,
			HorizonYears:   in.HorizonYears,
		},
	}

	// 3. Per-share equity value when capitalization is known.
	if in.SharesOutstanding > 0 {
		res.PerShare = ptr((res.Value - in.NetDebt) / in.SharesOutstanding)
	}

	return res, nil
}
