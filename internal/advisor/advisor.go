// Package advisor talks to the generative model that powers chat, portfolio
// review, categorization and tax-deduction hints.
package advisor

import (
	"context"
	"errors"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrDisabled is returned by every method when no model is configured.
var ErrDisabled = errors.New("advisor is not configured")

// Uncategorized is returned when the model has no category suggestion.
const Uncategorized = "Uncategorized"

// SymbolCheck is the outcome of validating a ticker symbol.
type SymbolCheck struct {
	Symbol string          `json:"symbol"`
	Valid  bool            `json:"valid"`
	Name   string          `json:"name,omitempty"`
	Price  decimal.Decimal `json:"price"`
}

// SymbolMatch is one autocomplete suggestion.
type SymbolMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Advisor is the narrow contract the rest of the service depends on.
type Advisor interface {
	Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error)
	AnalyzePortfolio(ctx context.Context, investments []domain.Investment) (string, error)
	SuggestCategory(ctx context.Context, description string) (string, error)
	IdentifyTaxDeductions(ctx context.Context, txs []domain.Transaction) ([]domain.TaxDeductionInsight, error)
	ValidateSymbol(ctx context.Context, symbol string) (SymbolCheck, error)
	SearchSymbols(ctx context.Context, query string) ([]SymbolMatch, error)
}

// Disabled satisfies Advisor and fails every call with ErrDisabled.
type Disabled struct{}

func (Disabled) Chat(context.Context, []domain.ChatMessage, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) AnalyzePortfolio(context.Context, []domain.Investment) (string, error) {
	return "", ErrDisabled
}

func (Disabled) SuggestCategory(context.Context, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) IdentifyTaxDeductions(context.Context, []domain.Transaction) ([]domain.TaxDeductionInsight, error) {
	return nil, ErrDisabled
}

func (Disabled) ValidateSymbol(context.Context, string) (SymbolCheck, error) {
	return SymbolCheck{}, ErrDisabled
}

func (Disabled) SearchSymbols(context.Context, string) ([]SymbolMatch, error) {
	return nil, ErrDisabled
}

var (
	_ Advisor = Disabled{}
	_ Advisor = (*Gemini)(nil)
)
