// Package fundamentals maps heterogeneous provider statement payloads
// onto the canonical field schema. Each provider has an explicit,
// versioned field-mapping table; nothing is resolved by guessing at
// runtime.
package fundamentals

import (
	"fmt"

	hjson "github.com/hjson/hjson-go/v4"
)

// ProviderSchema is one versioned mapping table: provider field names to
// canonical names, plus the unit scale the provider reports in.
type ProviderSchema struct {
	Provider string `json:"provider"`
	Version  string `json:"version"`
	Currency string `json:"currency"`
	// UnitMultiplier converts reported values to base currency units,
	// e.g. 1000 when the provider reports in thousands.
	UnitMultiplier float64 `json:"unit_multiplier"`
	// Fields maps provider field name -> canonical field name.
	Fields map[string]string `json:"fields"`
}

// ParseSchema reads a mapping table from its HJSON source. HJSON keeps the
// tables comment-friendly so each mapping line can cite the provider doc
// it came from.
func ParseSchema(src []byte) (*ProviderSchema, error) {
	var s ProviderSchema
	if err := hjson.Unmarshal(src, &s); err != nil {
		return nil, fmt.Errorf("parse provider schema: %w", err)
	}
	if s.Provider == "" || s.Version == "" {
		return nil, fmt.Errorf("provider schema missing provider or version")
	}
	if s.UnitMultiplier == 0 {
		s.UnitMultiplier = 1
	}
	return &s, nil
}

// Built-in mapping tables for the providers the ingestion side currently
// emits. Callers with other providers pass their own table to Normalize.
var builtinSchemas = map[string]string{
	"yahoo": `{
  provider: yahoo
  version: "2024.1"
  currency: USD
  # yahooquery income/balance exports report raw units
  unit_multiplier: 1
  fields: {
    NetIncome: net_income
    TotalRevenue: revenue
    TotalDebt: total_debt
    StockholdersEquity: total_equity
    ShareIssued: shares_outstanding
    CashAndCashEquivalents: cash_and_equivalents
    EBITDA: ebitda
    FreeCashFlow: free_cash_flow
    OperatingExpense: operating_expenses
  }
}`,
	"edgar": `{
  provider: edgar
  version: "2023.2"
  currency: USD
  # XBRL company facts come through in thousands
  unit_multiplier: 1000
  fields: {
    NetIncomeLoss: net_income
    Revenues: revenue
    RevenueFromContractWithCustomerExcludingAssessedTax: revenue
    DebtCurrent: total_debt
    LongTermDebtNoncurrent: total_debt
    StockholdersEquity: total_equity
    CommonStockSharesOutstanding: shares_outstanding
    CashAndCashEquivalentsAtCarryingValue: cash_and_equivalents
  }
}`,
}

// BuiltinSchema returns the packaged mapping table for a provider.
func BuiltinSchema(provider string) (*ProviderSchema, error) {
	src, ok := builtinSchemas[provider]
	if !ok {
		return nil, fmt.Errorf("no built-in schema for provider %q", provider)
	}
	return ParseSchema([]byte(src))
}
