// Package valuation computes portfolio value, account totals and net worth.
// All figures are in the base currency (USD); display conversion happens later.
package valuation

import (
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultFallbackBaseline is the assumed starting net worth used when a user
// has no linked accounts or holdings.
const DefaultFallbackBaseline = 45000

var hundred = decimal.NewFromInt(100)

// Valuation is the balance-sheet view derived from accounts and holdings.
type Valuation struct {
	AssetTotal       decimal.Decimal `json:"asset_total"`
	LiabilityTotal   decimal.Decimal `json:"liability_total"`
	PortfolioValue   decimal.Decimal `json:"portfolio_value"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	HasConnectedData bool            `json:"has_connected_data"`
}

// Calculator computes valuations with a configurable fallback baseline.
type Calculator struct {
	baseline decimal.Decimal
}

// NewCalculator returns a Calculator using baseline for the no-data fallback.
func NewCalculator(baseline decimal.Decimal) *Calculator {
	return &Calculator{baseline: baseline}
}

var defaultCalculator = NewCalculator(decimal.NewFromInt(DefaultFallbackBaseline))

// Compute uses DefaultFallbackBaseline.
func Compute(accounts []domain.BankAccount, investments []domain.Investment, totalIncome, totalExpense decimal.Decimal) (Valuation, error) {
	return defaultCalculator.Compute(accounts, investments, totalIncome, totalExpense)
}

// Baseline returns the fallback constant in use.
func (c *Calculator) Baseline() decimal.Decimal {
	return c.baseline
}

// Compute sums assets, liabilities and holdings. With at least one account or
// holding, net worth is assets + portfolio - liabilities. Otherwise it falls
// back to totalIncome - totalExpense + baseline.
func (c *Calculator) Compute(accounts []domain.BankAccount, investments []domain.Investment, totalIncome, totalExpense decimal.Decimal) (Valuation, error) {
	var v Valuation

	for _, a := range accounts {
		if err := a.Validate(); err != nil {
			return Valuation{}, err
		}
		if a.Type.IsLiability() {
			v.LiabilityTotal = v.LiabilityTotal.Add(a.Balance)
		} else {
			v.AssetTotal = v.AssetTotal.Add(a.Balance)
		}
	}

	portfolio, err := PortfolioValue(investments)
	if err != nil {
		return Valuation{}, err
	}
	v.PortfolioValue = portfolio

	v.HasConnectedData = len(accounts) > 0 || len(investments) > 0
	if v.HasConnectedData {
		v.NetWorth = v.AssetTotal.Add(v.PortfolioValue).Sub(v.LiabilityTotal)
	} else {
		v.NetWorth = totalIncome.Sub(totalExpense).Add(c.baseline)
	}

	return v, nil
}

// PortfolioValue is the sum of shares × current price over all holdings.
func PortfolioValue(investments []domain.Investment) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range investments {
		if err := inv.Validate(); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(inv.MarketValue())
	}
	return total, nil
}

// Gain is the unrealized gain on a holding: shares × (price - avg cost).
func Gain(inv domain.Investment) decimal.Decimal {
	return inv.Shares.Mul(inv.CurrentPrice.Sub(inv.AvgCost))
}

// GainPercent is (price - avg cost) / avg cost × 100, or 0 when avg cost is 0.
func GainPercent(inv domain.Investment) decimal.Decimal {
	if inv.AvgCost.IsZero() {
		return decimal.Zero
	}
	return inv.CurrentPrice.Sub(inv.AvgCost).Div(inv.AvgCost).Mul(hundred)
}

// CashTotals returns to-date income and expense totals.
func CashTotals(txs []domain.Transaction) (income, expense decimal.Decimal, err error) {
	income, expense = decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		switch tx.Kind {
		case domain.KindIncome:
			income = income.Add(tx.Amount)
		case domain.KindExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense, nil
}
