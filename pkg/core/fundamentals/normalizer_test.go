package fundamentals

import (
	"errors"
	"math"
	"testing"

	"equity_analytics/pkg/models"
)

var testSchema = &ProviderSchema{
	Provider:       "testprov",
	Version:        "1.0",
	Currency:       "USD",
	UnitMultiplier: 1000, // provider reports in thousands
	Fields: map[string]string{
		"netIncome":   "net_income",
		"totalRev":    "revenue",
		"debtShort":   "total_debt",
		"debtLong":    "total_debt",
		"equityTotal": "total_equity",
		"sharesOut":   "shares_outstanding",
	},
}

func rawFY(ticker, periodEnd string, values map[string]interface{}) RawStatement {
	return RawStatement{
		Ticker:        ticker,
		PeriodEnd:     periodEnd,
		StatementType: "income",
		Currency:      "USD",
		Values:        values,
	}
}

func TestNormalizeMapsAndScales(t *testing.T) {
	raw := rawFY("AAA", "2023-12-31", map[string]interface{}{
		"netIncome":    97.0, // thousands
		"totalRev":     1000.0,
		"equityTotal":  400.0,
		"debtShort":    50.0,
		"debtLong":     150.0,
		"someVendorID": 42.0, // unmapped
	})

	rec, err := Normalize(raw, testSchema)
	if err != nil {
		t.Fatal(err)
	}

	// 97 thousand -> 97,000 base units.
	if got, _ := rec.Get(models.FieldNetIncome); math.Abs(got-97000) > 1e-9 {
		t.Errorf("net_income = %v, want 97000", got)
	}
	// debtShort + debtLong accumulate onto total_debt.
	if got, _ := rec.Get(models.FieldTotalDebt); math.Abs(got-200000) > 1e-9 {
		t.Errorf("total_debt = %v, want 200000", got)
	}
	// Unmapped fields are reported, never coerced to zero.
	if len(rec.DroppedFields) != 1 || rec.DroppedFields[0] != "someVendorID" {
		t.Errorf("dropped_fields = %v, want [someVendorID]", rec.DroppedFields)
	}
	if _, ok := rec.Fields["someVendorID"]; ok {
		t.Error("unmapped field leaked into canonical fields")
	}
	if rec.Provider != "testprov" || rec.SchemaVersion != "1.0" {
		t.Errorf("record must carry provider and schema version, got %s/%s", rec.Provider, rec.SchemaVersion)
	}
}

func TestNormalizeDropsNonNumericValues(t *testing.T) {
	raw := rawFY("AAA", "2023-12-31", map[string]interface{}{
		"netIncome": "N/A", // mapped but not a number
		"totalRev":  500.0,
	})

	rec, err := Normalize(raw, testSchema)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.Get(models.FieldNetIncome); ok {
		t.Error("non-numeric value must not appear as zero net_income")
	}
	if len(rec.DroppedFields) != 1 || rec.DroppedFields[0] != "netIncome" {
		t.Errorf("dropped_fields = %v, want [netIncome]", rec.DroppedFields)
	}
}

func TestNormalizeBatchRequiresCanonicalFields(t *testing.T) {
	// Two periods, neither carries equity in any form.
	raws := []RawStatement{
		rawFY("AAA", "2023-12-31", map[string]interface{}{
			"netIncome": 10.0, "totalRev": 100.0, "debtLong": 5.0,
		}),
		rawFY("AAA", "2022-12-31", map[string]interface{}{
			"netIncome": 8.0, "totalRev": 90.0, "debtLong": 6.0,
		}),
	}

	_, err := NormalizeBatch(raws, testSchema)
	var mismatch *models.SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}
	if mismatch.Field != models.FieldTotalEquity {
		t.Errorf("missing field = %q, want total_equity", mismatch.Field)
	}
}

func TestNormalizeBatchAcceptsFieldInAnyPeriod(t *testing.T) {
	// Equity appears only in the older period; that still satisfies the
	// requirement (absent across ALL periods is the failure condition).
	raws := []RawStatement{
		rawFY("AAA", "2023-12-31", map[string]interface{}{
			"netIncome": 10.0, "totalRev": 100.0, "debtLong": 5.0,
		}),
		rawFY("AAA", "2022-12-31", map[string]interface{}{
			"netIncome": 8.0, "totalRev": 90.0, "debtLong": 6.0, "equityTotal": 40.0,
		}),
	}

	records, err := NormalizeBatch(raws, testSchema)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Most recent period first.
	if !records[0].PeriodEnd.After(records[1].PeriodEnd) {
		t.Error("records must be ordered most recent first")
	}
}

func TestParseRawStatementRepairsSloppyJSON(t *testing.T) {
	// Single quotes and a trailing comma: typical provider export noise.
	payload := `{'ticker': 'AAA', 'period_end': '2023-12-31', 'statement_type': 'income',
		'values': {'netIncome': 97, 'totalRev': 1000,},}`

	raw, err := ParseRawStatement([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	if raw.Ticker != "AAA" {
		t.Errorf("ticker = %q, want AAA", raw.Ticker)
	}
	if v, ok := raw.Values["netIncome"]; !ok || v.(float64) != 97 {
		t.Errorf("values not recovered: %v", raw.Values)
	}
}

func TestParseSchemaHJSON(t *testing.T) {
	src := `{
  # human-maintained mapping table
  provider: custom
  version: "2025.1"
  currency: EUR
  unit_multiplier: 1000000
  fields: {
    result: net_income
    umsatz: revenue
  }
}`
	schema, err := ParseSchema([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if schema.Provider != "custom" || schema.UnitMultiplier != 1000000 {
		t.Errorf("schema parsed wrong: %+v", schema)
	}
	if schema.Fields["umsatz"] != "revenue" {
		t.Errorf("field mapping lost: %v", schema.Fields)
	}
}

func TestBuiltinSchemas(t *testing.T) {
	for _, provider := range []string{"yahoo", "edgar"} {
		schema, err := BuiltinSchema(provider)
		if err != nil {
			t.Fatalf("%s: %v", provider, err)
		}
		if schema.Version == "" || len(schema.Fields) == 0 {
			t.Errorf("%s schema incomplete: %+v", provider, schema)
		}
	}
	if _, err := BuiltinSchema("unknown"); err == nil {
		t.Error("unknown provider must not resolve to a schema")
	}
}
