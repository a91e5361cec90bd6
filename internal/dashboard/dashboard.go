// Package dashboard composes the engine outputs into the single summary the
// dashboard view renders.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/budget"
	"github.com/dvloznov/finance-dashboard/internal/charts"
	"github.com/dvloznov/finance-dashboard/internal/currency"
	"github.com/dvloznov/finance-dashboard/internal/store/inmemory"
	"github.com/dvloznov/finance-dashboard/internal/valuation"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied to total income for the tax estimate.
var DefaultTaxRate = decimal.RequireFromString("0.24")

// cashFlowMonths is how many trailing months the cash flow chart covers.
const cashFlowMonths = 6

// SnapshotSource supplies a consistent view of all records.
type SnapshotSource interface {
	Snapshot(ctx context.Context) inmemory.Snapshot
}

// Headline holds the top-of-page figures converted to the display currency.
type Headline struct {
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	NetWorth       decimal.Decimal `json:"net_worth"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	EstimatedTax   decimal.Decimal `json:"estimated_tax"`
	Overspend      decimal.Decimal `json:"overspend"`
}

// Summary is everything the dashboard renders. Headline figures are in the
// display currency; all other amounts stay in USD.
type Summary struct {
	GeneratedAt   time.Time                  `json:"generated_at"`
	Currency      currency.Meta              `json:"currency"`
	Headline      Headline                   `json:"headline"`
	Formatted     map[string]string          `json:"formatted"`
	Valuation     valuation.Valuation        `json:"valuation"`
	Portfolio     valuation.PortfolioSummary `json:"portfolio"`
	Budgets       []budget.Analysis          `json:"budgets"`
	PaymentMethod []charts.MethodTotal       `json:"payment_methods"`
	CashFlow      []charts.MonthFlow         `json:"cash_flow"`
	NetWorthTrend []charts.Point             `json:"net_worth_trend"`
}

// Service builds summaries from a snapshot source.
type Service struct {
	source     SnapshotSource
	calculator *valuation.Calculator
	converter  *currency.Converter
	taxRate    decimal.Decimal
}

// NewService wires a Service.
func NewService(source SnapshotSource, calculator *valuation.Calculator, converter *currency.Converter, taxRate decimal.Decimal) *Service {
	return &Service{source: source, calculator: calculator, converter: converter, taxRate: taxRate}
}

// EstimatedTax is totalIncome × rate.
func EstimatedTax(totalIncome, rate decimal.Decimal) decimal.Decimal {
	return totalIncome.Mul(rate)
}

// Summary aggregates one snapshot in USD and converts the headline figures
// to currencyCode last.
func (s *Service) Summary(ctx context.Context, now time.Time, currencyCode string) (*Summary, error) {
	meta, err := s.converter.Meta(currencyCode)
	if err != nil {
		return nil, err
	}

	snap := s.source.Snapshot(ctx)

	income, expense, err := valuation.CashTotals(snap.Transactions)
	if err != nil {
		return nil, fmt.Errorf("Summary: cash totals: %w", err)
	}
	analyses, err := budget.Analyze(snap.Budgets, snap.Transactions, now)
	if err != nil {
		return nil, fmt.Errorf("Summary: budgets: %w", err)
	}
	val, err := s.calculator.Compute(snap.Accounts, snap.Investments, income, expense)
	if err != nil {
		return nil, fmt.Errorf("Summary: valuation: %w", err)
	}
	portfolio, err := valuation.Summarize(snap.Investments)
	if err != nil {
		return nil, fmt.Errorf("Summary: portfolio: %w", err)
	}

	usd := Headline{
		TotalIncome:    income,
		TotalExpense:   expense,
		NetWorth:       val.NetWorth,
		PortfolioValue: val.PortfolioValue,
		EstimatedTax:   EstimatedTax(income, s.taxRate),
		Overspend:      budget.Overspend(analyses),
	}
	headline, err := s.convertHeadline(usd, meta.Code)
	if err != nil {
		return nil, fmt.Errorf("Summary: %w", err)
	}

	return &Summary{
		GeneratedAt: now,
		Currency:    meta,
		Headline:    headline,
		Formatted: map[string]string{
			"total_income":    currency.Format(headline.TotalIncome, meta),
			"total_expense":   currency.Format(headline.TotalExpense, meta),
			"net_worth":       currency.Format(headline.NetWorth, meta),
			"portfolio_value": currency.Format(headline.PortfolioValue, meta),
			"estimated_tax":   currency.Format(headline.EstimatedTax, meta),
		},
		Valuation:     val,
		Portfolio:     portfolio,
		Budgets:       analyses,
		PaymentMethod: charts.PaymentMethodBreakdown(snap.Transactions),
		CashFlow:      charts.MonthlyCashFlow(snap.Transactions, now, cashFlowMonths),
		NetWorthTrend: charts.NetWorthTrend(val.NetWorth),
	}, nil
}

func (s *Service) convertHeadline(h Headline, code string) (Headline, error) {
	fields := []*decimal.Decimal{
		&h.TotalIncome, &h.TotalExpense, &h.NetWorth,
		&h.PortfolioValue, &h.EstimatedTax, &h.Overspend,
	}
	for _, f := range fields {
		v, err := s.converter.Convert(*f, code)
		if err != nil {
			return Headline{}, err
		}
		*f = v
	}
	return h, nil
}
