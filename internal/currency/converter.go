// Package currency converts USD amounts into display currencies using a
// static rate table loaded once at startup.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Base is the currency every stored amount is denominated in.
const Base = "USD"

// Currency is one row of the rate table. Rate is units per 1 USD.
type Currency struct {
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
	Label  string          `json:"label"`
}

// Meta describes a display currency.
type Meta struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

// Converter is immutable after construction and safe for concurrent use.
type Converter struct {
	entries map[string]Currency
	codes   []string
}

// DefaultTable returns the built-in rate table.
func DefaultTable() map[string]Currency {
	return map[string]Currency{
		"USD": {Symbol: "$", Rate: decimal.NewFromInt(1), Label: "US Dollar"},
		"EUR": {Symbol: "€", Rate: decimal.RequireFromString("0.92"), Label: "Euro"},
		"GBP": {Symbol: "£", Rate: decimal.RequireFromString("0.79"), Label: "British Pound"},
		"INR": {Symbol: "₹", Rate: decimal.RequireFromString("83.5"), Label: "Indian Rupee"},
		"JPY": {Symbol: "¥", Rate: decimal.NewFromInt(150), Label: "Japanese Yen"},
		"CAD": {Symbol: "C$", Rate: decimal.RequireFromString("1.35"), Label: "Canadian Dollar"},
		"AUD": {Symbol: "A$", Rate: decimal.RequireFromString("1.52"), Label: "Australian Dollar"},
	}
}

// Default returns a Converter over DefaultTable.
func Default() *Converter {
	c, err := NewConverter(DefaultTable())
	if err != nil {
		panic(err)
	}
	return c
}

// NewConverter validates entries and builds a Converter. The table must
// contain USD at rate 1 and only positive rates.
func NewConverter(entries map[string]Currency) (*Converter, error) {
	c := &Converter{entries: make(map[string]Currency, len(entries))}

	for code, cur := range entries {
		key := normalize(code)
		if key == "" {
			return nil, &domain.ConfigurationError{Key: "currency", Reason: "empty currency code"}
		}
		if _, dup := c.entries[key]; dup {
			return nil, &domain.ConfigurationError{Key: key, Reason: "duplicate currency code"}
		}
		if !cur.Rate.IsPositive() {
			return nil, &domain.ConfigurationError{Key: key, Reason: "rate must be positive"}
		}
		c.entries[key] = cur
		c.codes = append(c.codes, key)
	}

	usd, ok := c.entries[Base]
	if !ok || !usd.Rate.Equal(decimal.NewFromInt(1)) {
		return nil, &domain.ConfigurationError{Key: Base, Reason: "base currency must be present with rate 1"}
	}

	sort.Strings(c.codes)
	return c, nil
}

// Convert returns amountUSD × rate(code).
func (c *Converter) Convert(amountUSD decimal.Decimal, code string) (decimal.Decimal, error) {
	cur, key, err := c.lookup(code)
	if err != nil {
		return decimal.Zero, err
	}
	if key == Base {
		return amountUSD, nil
	}
	return amountUSD.Mul(cur.Rate), nil
}

// Meta returns display metadata for code.
func (c *Converter) Meta(code string) (Meta, error) {
	cur, key, err := c.lookup(code)
	if err != nil {
		return Meta{}, err
	}
	return Meta{Code: key, Symbol: cur.Symbol, Label: cur.Label}, nil
}

// Rate returns units of code per 1 USD.
func (c *Converter) Rate(code string) (decimal.Decimal, error) {
	cur, _, err := c.lookup(code)
	if err != nil {
		return decimal.Zero, err
	}
	return cur.Rate, nil
}

// Codes lists supported currency codes in sorted order.
func (c *Converter) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

func (c *Converter) lookup(code string) (Currency, string, error) {
	key := normalize(code)
	cur, ok := c.entries[key]
	if !ok {
		return Currency{}, "", &domain.ConfigurationError{
			Key:    "currency",
			Reason: fmt.Sprintf("unsupported currency code %q", code),
		}
	}
	return cur, key, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
