package fundamentals

import (
	"encoding/json"
	"sort"

	"equity_analytics/pkg/core/logger"
	"equity_analytics/pkg/models"
)

// Normalize maps one raw statement onto the canonical schema. Provider
// fields with no mapping land in DroppedFields with a logged warning.
// Several provider fields may map onto one canonical field (e.g. current
// plus long-term debt); their values accumulate.
func Normalize(raw RawStatement, schema *ProviderSchema) (*models.FundamentalsRecord, error) {
	periodEnd, err := models.ParseDate(raw.PeriodEnd)
	if err != nil {
		return nil, &models.SchemaMismatchError{Ticker: raw.Ticker, Provider: schema.Provider, Field: "period_end"}
	}

	currency := raw.Currency
	if currency == "" {
		currency = schema.Currency
	}

	rec := &models.FundamentalsRecord{
		Ticker:        raw.Ticker,
		PeriodEnd:     periodEnd,
		StatementType: raw.StatementType,
		Currency:      currency,
		Fields:        make(map[string]float64, len(raw.Values)),
		Provider:      schema.Provider,
		SchemaVersion: schema.Version,
	}

	for name, value := range raw.Values {
		canonical, mapped := schema.Fields[name]
		if !mapped {
			rec.DroppedFields = append(rec.DroppedFields, name)
			continue
		}
		f, ok := toFloat(value)
		if !ok {
			rec.DroppedFields = append(rec.DroppedFields, name)
			logger.WithFields(map[string]interface{}{
				"ticker":   raw.Ticker,
				"provider": schema.Provider,
				"field":    name,
			}).Warn("mapped field has non-numeric value, dropped")
			continue
		}
		rec.Fields[canonical] += f * schema.UnitMultiplier
	}

	if len(rec.DroppedFields) > 0 {
		logger.WithFields(map[string]interface{}{
			"ticker":   raw.Ticker,
			"provider": schema.Provider,
			"dropped":  len(rec.DroppedFields),
		}).Warn("provider fields without canonical mapping were dropped")
	}

	return rec, nil
}

// NormalizeBatch normalizes every supplied period, then verifies that each
// canonical field valuation requires appears in at least one period.
// A field absent from all periods fails the batch with SchemaMismatchError.
func NormalizeBatch(raws []RawStatement, schema *ProviderSchema) ([]*models.FundamentalsRecord, error) {
	if len(raws) == 0 {
		return nil, &models.SchemaMismatchError{Provider: schema.Provider, Field: "no statements supplied"}
	}

	records := make([]*models.FundamentalsRecord, 0, len(raws))
	seen := make(map[string]bool)
	for _, raw := range raws {
		rec, err := Normalize(raw, schema)
		if err != nil {
			return nil, err
		}
		for field := range rec.Fields {
			seen[field] = true
		}
		records = append(records, rec)
	}

	for _, field := range models.RequiredFields {
		if !seen[field] {
			return nil, &models.SchemaMismatchError{
				Ticker:   records[0].Ticker,
				Provider: schema.Provider,
				Field:    field,
			}
		}
	}

	// Most recent period first: valuation reads trailing figures from the
	// head of the slice.
	sort.Slice(records, func(i, j int) bool {
		return records[i].PeriodEnd.After(records[j].PeriodEnd)
	})
	return records, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
