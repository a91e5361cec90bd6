package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/currency"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/store/inmemory"
	"github.com/dvloznov/finance-dashboard/internal/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 18, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newService(t *testing.T) *Service {
	t.Helper()
	store := inmemory.NewStore()
	require.NoError(t, store.Seed(context.Background(), inmemory.Demo(now)))
	return NewService(store, valuation.NewCalculator(d("45000")), currency.Default(), DefaultTaxRate)
}

func TestSummary_USD(t *testing.T) {
	s, err := newService(t).Summary(context.Background(), now, "USD")
	require.NoError(t, err)

	// Demo income: 3500 + 2000; expenses: 54.99 + 124.50 + 349 + 800 + 12.50.
	assert.True(t, s.Headline.TotalIncome.Equal(d("5500")))
	assert.True(t, s.Headline.TotalExpense.Equal(d("1340.99")))
	assert.True(t, s.Headline.EstimatedTax.Equal(d("1320")))

	// Holdings: 2602.5 + 3302 + 10127.5 + 1722.4.
	assert.True(t, s.Headline.PortfolioValue.Equal(d("17754.4")), "portfolio %s", s.Headline.PortfolioValue)
	assert.True(t, s.Headline.NetWorth.Equal(d("17754.4")))
	assert.Equal(t, "$17,754.40", s.Formatted["net_worth"])

	require.Len(t, s.Budgets, 4)
	assert.Equal(t, "Meals", s.Budgets[0].Category)
	assert.Len(t, s.NetWorthTrend, 12)
	assert.Len(t, s.CashFlow, 6)
	assert.NotEmpty(t, s.PaymentMethod)
	assert.Equal(t, "USD", s.Currency.Code)
}

func TestSummary_ConvertsHeadlineOnly(t *testing.T) {
	svc := newService(t)

	usd, err := svc.Summary(context.Background(), now, "USD")
	require.NoError(t, err)
	inr, err := svc.Summary(context.Background(), now, "inr")
	require.NoError(t, err)

	assert.Equal(t, "INR", inr.Currency.Code)
	assert.True(t, inr.Headline.TotalIncome.Equal(d("459250")))
	assert.True(t, inr.Headline.NetWorth.Equal(usd.Headline.NetWorth.Mul(d("83.5"))))
	assert.True(t, inr.Valuation.NetWorth.Equal(usd.Valuation.NetWorth), "valuation stays in USD")
}

func TestSummary_UnknownCurrency(t *testing.T) {
	_, err := newService(t).Summary(context.Background(), now, "XYZ")
	var cfgErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestSummary_FallbackNetWorth(t *testing.T) {
	store := inmemory.NewStore()
	data := inmemory.Demo(now)
	data.Investments = nil
	require.NoError(t, store.Seed(context.Background(), data))

	svc := NewService(store, valuation.NewCalculator(d("45000")), currency.Default(), DefaultTaxRate)
	s, err := svc.Summary(context.Background(), now, "USD")
	require.NoError(t, err)

	assert.False(t, s.Valuation.HasConnectedData)
	assert.True(t, s.Headline.NetWorth.Equal(d("49159.01")), "net worth %s", s.Headline.NetWorth)
}

func TestEstimatedTax(t *testing.T) {
	assert.True(t, EstimatedTax(d("1000"), d("0.24")).Equal(d("240")))
	assert.True(t, EstimatedTax(decimal.Zero, d("0.24")).IsZero())
}
