package valuation

import (
	"equity_analytics/pkg/models"
)

// CapitalStructure describes a ticker's financing mix for deriving a DCF
// discount rate when the caller does not supply one directly.
type CapitalStructure struct {
	Ticker string `json:"ticker"`

	UnleveredBeta     float64 `json:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	EquityRiskPremium float64 `json:"equity_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt"`
	TaxRate           float64 `json:"tax_rate"`
	DebtToEquity      float64 `json:"debt_to_equity"` // target leverage
}

// DiscountRate is a weighted average cost of capital with the pieces it
// was assembled from, so a DCF built on it stays reproducible.
type DiscountRate struct {
	Rate float64 `json:"rate"`

	LeveredBeta      float64 `json:"levered_beta"`
	CostOfEquity     float64 `json:"cost_of_equity"`
	AfterTaxCostDebt float64 `json:"after_tax_cost_of_debt"`
	DebtWeight       float64 `json:"debt_weight"`
	EquityWeight     float64 `json:"equity_weight"`
}

// DeriveDiscountRate computes a WACC-style discount rate: beta relevered
// for the target leverage (Hamada), cost of equity from CAPM, cost of debt
// after tax, blended by the capital weights D/E implies.
func DeriveDiscountRate(cs CapitalStructure) (*DiscountRate, error) {
	if cs.DebtToEquity < 0 {
		return nil, &models.InvalidAssumptionError{Ticker: cs.Ticker, Reason: "debt-to-equity ratio must not be negative"}
	}
	if cs.TaxRate < 0 || cs.TaxRate >= 1 {
		return nil, &models.InvalidAssumptionError{Ticker: cs.Ticker, Reason: "tax rate must be in [0, 1)"}
	}

	// 1. Relever beta: BetaL = BetaU * (1 + (1-t)*(D/E)).
	leveredBeta := cs.UnleveredBeta * (1 + (1-cs.TaxRate)*cs.DebtToEquity)

	// 2. CAPM cost of equity: Ke = Rf + BetaL * ERP.
	costOfEquity := cs.RiskFreeRate + leveredBeta*cs.EquityRiskPremium

	// 3. After-tax cost of debt.
	costOfDebt := cs.PreTaxCostOfDebt * (1 - cs.TaxRate)

	// 4. With D/E = x, debt is x/(1+x) of capital and equity 1/(1+x).
	debtWeight := cs.DebtToEquity / (1 + cs.DebtToEquity)
	equityWeight := 1 - debtWeight

	return &DiscountRate{
		Rate:             costOfEquity*equityWeight + costOfDebt*debtWeight,
		LeveredBeta:      leveredBeta,
		CostOfEquity:     costOfEquity,
		AfterTaxCostDebt: costOfDebt,
		DebtWeight:       debtWeight,
		EquityWeight:     equityWeight,
	}, nil
}
