// Package valuation computes relative multiples and a discounted cash
// flow value from normalized fundamentals. A ratio with a zero or negative
// denominator is reported as a nil value with a reason, never as +/-Inf,
// and every DCF result carries the assumptions it was computed under.
package valuation

import (
	"time"

	"equity_analytics/pkg/models"
)

// Multiple names as they appear in ValuationResult.Multiples.
const (
	MultiplePE           = "pe"
	MultiplePEG          = "peg"
	MultipleDebtToEquity = "debt_to_equity"
	MultipleEVToEBITDA   = "ev_to_ebitda"
	MultiplePriceToSales = "price_to_sales"
)

// MultiplesInput bundles the fundamentals and market data one ticker's
// multiples are computed from. Prior is the preceding fiscal period and is
// only needed for PEG's earnings growth.
type MultiplesInput struct {
	Record      *models.FundamentalsRecord
	Prior       *models.FundamentalsRecord
	MarketPrice float64
}

// ComputeMultiples derives the relative multiples for one ticker.
func ComputeMultiples(in MultiplesInput) (map[string]models.Multiple, error) {
	if in.Record == nil {
		return nil, &models.DegenerateInputError{Reason: "no fundamentals record"}
	}
	if in.MarketPrice <= 0 {
		return nil, &models.DegenerateInputError{Ticker: in.Record.Ticker, Reason: "market price must be positive"}
	}

	rec := in.Record
	out := make(map[string]models.Multiple, 5)

	netIncome, hasNI := rec.Get(models.FieldNetIncome)
	shares, hasShares := rec.Get(models.FieldSharesOut)
	revenue, hasRev := rec.Get(models.FieldRevenue)
	debt, hasDebt := rec.Get(models.FieldTotalDebt)
	equity, hasEquity := rec.Get(models.FieldTotalEquity)
	cash, _ := rec.Get(models.FieldCash)
	ebitda, hasEBITDA := rec.Get(models.FieldEBITDA)

	// 1. PE = price / trailing EPS.
	switch {
	case !hasNI || !hasShares:
		out[MultiplePE] = missing()
	case shares <= 0 || netIncome <= 0:
		out[MultiplePE] = nonMeaningful()
	default:
		eps := netIncome / shares
		out[MultiplePE] = models.Multiple{Value: ptr(in.MarketPrice / eps)}
	}

	// 2. PEG = PE / earnings growth (growth in percent, the street
	// convention: 15% growth divides by 15).
	out[MultiplePEG] = computePEG(out[MultiplePE], rec, in.Prior)

	// 3. Debt / Equity.
	switch {
	case !hasDebt || !hasEquity:
		out[MultipleDebtToEquity] = missing()
	case equity <= 0:
		out[MultipleDebtToEquity] = nonMeaningful()
	default:
		out[MultipleDebtToEquity] = models.Multiple{Value: ptr(debt / equity)}
	}

	// 4. EV / EBITDA with EV = market cap + total debt - cash.
	switch {
	case !hasEBITDA || !hasShares || !hasDebt:
		out[MultipleEVToEBITDA] = missing()
	case ebitda <= 0 || shares <= 0:
		out[MultipleEVToEBITDA] = nonMeaningful()
	default:
		ev := in.MarketPrice*shares + debt - cash
		out[MultipleEVToEBITDA] = models.Multiple{Value: ptr(ev / ebitda)}
	}

	// 5. Price / Sales on market cap.
	switch {
	case !hasRev || !hasShares:
		out[MultiplePriceToSales] = missing()
	case revenue <= 0 || shares <= 0:
		out[MultiplePriceToSales] = nonMeaningful()
	default:
		out[MultiplePriceToSales] = models.Multiple{Value: ptr(in.MarketPrice * shares / revenue)}
	}

	return out, nil
}

func computePEG(pe models.Multiple, rec, prior *models.FundamentalsRecord) models.Multiple {
	// PEG inherits the PE's own failure reason: a PE absent for missing
	// inputs makes the PEG missing too, not non-meaningful.
	if pe.Value == nil {
		return models.Multiple{Reason: pe.Reason}
	}
	if prior == nil {
		return missing()
	}
	cur, okC := rec.Get(models.FieldNetIncome)
	prev, okP := prior.Get(models.FieldNetIncome)
	if !okC || !okP {
		return missing()
	}
	if prev <= 0 {
		return nonMeaningful()
	}
	growthPct := (cur/prev - 1) * 100
	if growthPct <= 0 {
		return nonMeaningful()
	}
	return models.Multiple{Value: ptr(*pe.Value / growthPct)}
}

// Compute assembles the immutable valuation snapshot: multiples always,
// DCF only when the caller supplies assumptions.
func Compute(in MultiplesInput, dcf *DCFInput, asOf time.Time) (*models.ValuationResult, error) {
	multiples, err := ComputeMultiples(in)
	if err != nil {
		return nil, err
	}

	res := &models.ValuationResult{
		Ticker:    in.Record.Ticker,
		AsOfDate:  asOf,
		Multiples: multiples,
	}

	if dcf != nil {
		dcfRes, err := ComputeDCF(*dcf)
		if err != nil {
			return nil, err
		}
		res.DCFValue = ptr(dcfRes.Value)
		assumptions := dcfRes.Assumptions
		res.Assumptions = &assumptions
	}

	return res, nil
}

func ptr(f float64) *float64 { return &f }

func nonMeaningful() models.Multiple {
	return models.Multiple{Reason: models.ReasonNonMeaningful}
}

func missing() models.Multiple {
	return models.Multiple{Reason: models.ReasonMissingInput}
}
