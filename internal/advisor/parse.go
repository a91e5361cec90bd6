package advisor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// cleanModelJSON strips Markdown fences and any prose around a JSON array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = strings.TrimSpace(s[:idx])
	}

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

var validLine = regexp.MustCompile(`\bVALID\|([^|\n]*?)\|([\d,.]+)`)

// parseSymbolCheck reads the VALID|Name|Price line. Anything else, including
// INVALID, is reported as not valid.
func parseSymbolCheck(symbol, text string) SymbolCheck {
	check := SymbolCheck{Symbol: symbol}

	m := validLine.FindStringSubmatch(text)
	if m == nil {
		return check
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
	if err != nil || price.IsNegative() {
		return check
	}

	check.Valid = true
	check.Name = strings.TrimSpace(m[1])
	check.Price = price
	return check
}

type rawInsight struct {
	TransactionID string `json:"transactionId"`
	Reason        string `json:"reason"`
	Confidence    string `json:"confidence"`
}

// parseInsights decodes the model's deduction list, dropping entries for
// unknown transactions or with an unrecognised confidence.
func parseInsights(text string, known map[string]bool) ([]domain.TaxDeductionInsight, error) {
	var raw []rawInsight
	if err := json.Unmarshal([]byte(cleanModelJSON(text)), &raw); err != nil {
		return nil, fmt.Errorf("parseInsights: unmarshal JSON: %w", err)
	}

	out := make([]domain.TaxDeductionInsight, 0, len(raw))
	for _, r := range raw {
		if !known[r.TransactionID] {
			continue
		}
		conf := domain.Confidence(strings.ToUpper(strings.TrimSpace(r.Confidence)))
		switch conf {
		case domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow:
		default:
			continue
		}
		out = append(out, domain.TaxDeductionInsight{
			TransactionID: r.TransactionID,
			Reason:        strings.TrimSpace(r.Reason),
			Confidence:    conf,
		})
	}
	return out, nil
}

func parseSymbolMatches(text string) ([]SymbolMatch, error) {
	var matches []SymbolMatch
	if err := json.Unmarshal([]byte(cleanModelJSON(text)), &matches); err != nil {
		return nil, fmt.Errorf("parseSymbolMatches: unmarshal JSON: %w", err)
	}

	out := make([]SymbolMatch, 0, len(matches))
	for _, m := range matches {
		m.Symbol = strings.ToUpper(strings.TrimSpace(m.Symbol))
		if m.Symbol == "" {
			continue
		}
		out = append(out, m)
		if len(out) == 5 {
			break
		}
	}
	return out, nil
}
