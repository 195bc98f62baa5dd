package models

import (
	"time"
)

// Canonical statement field names. Providers use their own labels; the
// normalizer maps everything onto these before valuation sees it.
const (
	FieldNetIncome     = "net_income"
	FieldRevenue       = "revenue"
	FieldTotalDebt     = "total_debt"
	FieldTotalEquity   = "total_equity"
	FieldSharesOut     = "shares_outstanding"
	FieldCash          = "cash_and_equivalents"
	FieldEBITDA        = "ebitda"
	FieldFreeCashFlow  = "free_cash_flow"
	FieldOperatingCost = "operating_expenses"
)

// RequiredFields are the canonical fields downstream valuation cannot work
// without. A batch of statements missing one of these entirely fails
// normalization with SchemaMismatchError.
var RequiredFields = []string{FieldNetIncome, FieldRevenue, FieldTotalDebt, FieldTotalEquity}

// FundamentalsRecord is one normalized financial statement: canonical
// field names, values scaled to base currency units (not thousands or
// millions), and the provider fields that had no canonical mapping.
type FundamentalsRecord struct {
	Ticker        string    `json:"ticker"`
	PeriodEnd     time.Time `json:"period_end"`
	StatementType string    `json:"statement_type"` // income, balance, cashflow
	Currency      string    `json:"currency"`

	Fields map[string]float64 `json:"fields"`

	// DroppedFields lists provider fields that resolved to no canonical
	// name. They are reported, never silently coerced to zero.
	DroppedFields []string `json:"dropped_fields,omitempty"`

	Provider      string `json:"provider"`
	SchemaVersion string `json:"schema_version"`
}

// Get returns the canonical field value and whether it was present.
func (r *FundamentalsRecord) Get(field string) (float64, bool) {
	v, ok := r.Fields[field]
	return v, ok
}
