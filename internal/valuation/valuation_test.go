package valuation

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, day int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: day}
}

func TestCompute_PortfolioOnly(t *testing.T) {
	investments := []domain.Investment{
		{ID: "i1", Symbol: "AAPL", Shares: d("15"), AvgCost: d("145"), CurrentPrice: d("173.5"), AssetClass: domain.AssetStock},
	}

	v, err := Compute(nil, investments, d("5000"), d("3000"))
	require.NoError(t, err)

	assert.True(t, v.PortfolioValue.Equal(d("2602.5")), "portfolio %s", v.PortfolioValue)
	assert.True(t, v.NetWorth.Equal(d("2602.5")), "net worth %s", v.NetWorth)
	assert.True(t, v.HasConnectedData)
	assert.True(t, Gain(investments[0]).Equal(d("427.5")))
}

func TestCompute_AccountsAndLiabilities(t *testing.T) {
	accounts := []domain.BankAccount{
		{ID: "a1", Type: domain.AccountChecking, Balance: d("12000")},
		{ID: "a2", Type: domain.AccountSavings, Balance: d("8000")},
		{ID: "a3", Type: domain.AccountCreditCard, Balance: d("1500")},
	}

	v, err := Compute(accounts, nil, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, v.AssetTotal.Equal(d("20000")))
	assert.True(t, v.LiabilityTotal.Equal(d("1500")))
	assert.True(t, v.NetWorth.Equal(d("18500")))
}

func TestCompute_FallbackBaseline(t *testing.T) {
	v, err := Compute(nil, nil, d("5000"), d("3000"))
	require.NoError(t, err)

	assert.False(t, v.HasConnectedData)
	assert.True(t, v.NetWorth.Equal(d("47000")), "net worth %s", v.NetWorth)
	assert.True(t, v.PortfolioValue.IsZero())
}

func TestCalculator_CustomBaseline(t *testing.T) {
	c := NewCalculator(decimal.Zero)
	v, err := c.Compute(nil, nil, d("100"), d("250"))
	require.NoError(t, err)

	assert.True(t, v.NetWorth.Equal(d("-150")))
	assert.True(t, c.Baseline().IsZero())
}

func TestCompute_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		accounts    []domain.BankAccount
		investments []domain.Investment
		field       string
	}{
		{
			name:     "negative balance",
			accounts: []domain.BankAccount{{ID: "a1", Type: domain.AccountChecking, Balance: d("-1")}},
		},
		{
			name:     "unknown account type",
			accounts: []domain.BankAccount{{ID: "a1", Type: "BROKERAGE", Balance: d("1")}},
		},
		{
			name: "negative shares",
			investments: []domain.Investment{
				{ID: "i1", Symbol: "X", Shares: d("-2"), CurrentPrice: d("1"), AssetClass: domain.AssetETF},
			},
			field: "shares",
		},
		{
			name: "negative current price",
			investments: []domain.Investment{
				{ID: "i1", Symbol: "X", Shares: d("2"), AvgCost: d("1"), CurrentPrice: d("-0.01"), AssetClass: domain.AssetETF},
			},
			field: "current_price",
		},
		{
			name: "negative avg cost",
			investments: []domain.Investment{
				{ID: "i1", Symbol: "X", Shares: d("2"), AvgCost: d("-5"), CurrentPrice: d("1"), AssetClass: domain.AssetStock},
			},
			field: "avg_cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.accounts, tt.investments, decimal.Zero, decimal.Zero)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			if tt.field != "" {
				assert.Equal(t, tt.field, vErr.Field)
			}

			if tt.investments != nil {
				_, err = Summarize(tt.investments)
				require.True(t, errors.As(err, &vErr), "Summarize got %v", err)
				assert.Equal(t, tt.field, vErr.Field)
			}
		})
	}
}

func TestGainPercent(t *testing.T) {
	inv := domain.Investment{Shares: d("2"), AvgCost: d("50"), CurrentPrice: d("60")}
	assert.True(t, GainPercent(inv).Equal(d("20")))

	free := domain.Investment{Shares: d("2"), CurrentPrice: d("60")}
	assert.True(t, GainPercent(free).IsZero())
}

func TestCashTotals(t *testing.T) {
	txs := []domain.Transaction{
		{ID: "t1", Date: date(2024, 3, 1), Amount: d("5000"), Kind: domain.KindIncome},
		{ID: "t2", Date: date(2024, 3, 2), Amount: d("1200.25"), Kind: domain.KindExpense},
		{ID: "t3", Date: date(2024, 2, 2), Amount: d("800"), Kind: domain.KindExpense},
	}

	income, expense, err := CashTotals(txs)
	require.NoError(t, err)
	assert.True(t, income.Equal(d("5000")))
	assert.True(t, expense.Equal(d("2000.25")))

	_, _, err = CashTotals([]domain.Transaction{{ID: "bad", Date: date(2024, 1, 1), Amount: d("-1"), Kind: domain.KindIncome}})
	assert.Error(t, err)
}
