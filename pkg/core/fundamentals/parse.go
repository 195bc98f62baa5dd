package fundamentals

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// RawStatement is a provider statement payload before normalization.
// Values keeps provider field names untouched; anything non-numeric is
// handled (and reported) by the normalizer, never coerced.
type RawStatement struct {
	Ticker        string                 `json:"ticker"`
	PeriodEnd     string                 `json:"period_end"`
	StatementType string                 `json:"statement_type"`
	Currency      string                 `json:"currency"`
	Values        map[string]interface{} `json:"values"`
}

// ParseRawStatement decodes one provider payload. Provider exports are
// often sloppy JSON (single quotes, trailing commas, unquoted keys), so a
// failed strict parse falls back to repair-then-parse.
func ParseRawStatement(data []byte) (*RawStatement, error) {
	var raw RawStatement
	if err := json.Unmarshal(data, &raw); err == nil {
		return &raw, nil
	}

	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return nil, fmt.Errorf("statement payload unparseable: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return nil, fmt.Errorf("statement payload invalid after repair: %w", err)
	}
	return &raw, nil
}

// ParseRawStatements decodes an array of provider payloads with the same
// repair fallback.
func ParseRawStatements(data []byte) ([]RawStatement, error) {
	var raws []RawStatement
	if err := json.Unmarshal(data, &raws); err == nil {
		return raws, nil
	}

	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return nil, fmt.Errorf("statements payload unparseable: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &raws); err != nil {
		return nil, fmt.Errorf("statements payload invalid after repair: %w", err)
	}
	return raws, nil
}
