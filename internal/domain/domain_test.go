package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		ID:            "tx-1",
		Date:          civil.Date{Year: 2024, Month: time.March, Day: 5},
		Description:   "Groceries",
		Amount:        decimal.RequireFromString("42.10"),
		Kind:          KindExpense,
		Category:      "Food",
		PaymentMethod: PaymentCard,
	}
}

func TestTransaction_Validate(t *testing.T) {
	end := civil.Date{Year: 2024, Month: time.January, Day: 1}

	tests := []struct {
		name      string
		mutate    func(tx *Transaction)
		wantField string
	}{
		{name: "valid", mutate: func(tx *Transaction) {}},
		{name: "missing id", mutate: func(tx *Transaction) { tx.ID = "" }, wantField: "id"},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, wantField: "amount"},
		{name: "unknown kind", mutate: func(tx *Transaction) { tx.Kind = "TRANSFER" }, wantField: "kind"},
		{name: "unknown payment method", mutate: func(tx *Transaction) { tx.PaymentMethod = "CHEQUE" }, wantField: "payment_method"},
		{name: "zero date", mutate: func(tx *Transaction) { tx.Date = civil.Date{} }, wantField: "date"},
		{
			name: "recurrence ends before start",
			mutate: func(tx *Transaction) {
				tx.Recurrence = &Recurrence{Frequency: FrequencyMonthly, EndDate: &end}
			},
			wantField: "recurrence.end_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)

			err := tx.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, "transaction", vErr.Entity)
		})
	}
}

func TestInvestment_ValueAndValidate(t *testing.T) {
	inv := Investment{
		ID:           "inv-1",
		Symbol:       "AAPL",
		Shares:       decimal.NewFromInt(15),
		AvgCost:      decimal.NewFromInt(145),
		CurrentPrice: decimal.RequireFromString("173.5"),
		AssetClass:   AssetStock,
	}
	require.NoError(t, inv.Validate())
	assert.True(t, inv.MarketValue().Equal(decimal.RequireFromString("2602.5")))
	assert.True(t, inv.CostBasis().Equal(decimal.NewFromInt(2175)))

	inv.Shares = decimal.NewFromInt(-2)
	assert.Error(t, inv.Validate())

	inv.Shares = decimal.NewFromInt(2)
	inv.AssetClass = AssetMutualFund
	assert.Error(t, inv.Validate(), "mutual funds are SIP-only")
}

func TestBudget_Validate(t *testing.T) {
	b := Budget{ID: "b1", Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly}
	assert.NoError(t, b.Validate())

	b.Limit = decimal.Zero
	assert.Error(t, b.Validate())

	b.Limit = decimal.NewFromInt(10)
	b.Category = "   "
	assert.Error(t, b.Validate())
}

func TestBankAccount_Validate(t *testing.T) {
	a := BankAccount{ID: "a1", Type: AccountCreditCard, Balance: decimal.NewFromInt(900)}
	assert.NoError(t, a.Validate())
	assert.True(t, a.Type.IsLiability())
	assert.False(t, AccountSavings.IsLiability())

	a.Balance = decimal.NewFromInt(-5)
	assert.Error(t, a.Validate())

	a.Balance = decimal.Zero
	a.Type = "BROKERAGE"
	assert.Error(t, a.Validate())
}

func TestSIP_Validate(t *testing.T) {
	s := SIP{
		ID:         "s1",
		Name:       "Index fund",
		Amount:     decimal.NewFromInt(100),
		Frequency:  FrequencyMonthly,
		NextDate:   civil.Date{Year: 2024, Month: time.April, Day: 1},
		Active:     true,
		AssetClass: AssetMutualFund,
	}
	assert.NoError(t, s.Validate())

	s.Frequency = FrequencyYearly
	assert.Error(t, s.Validate())
}

func TestTransaction_JSONShape(t *testing.T) {
	tx := validTransaction()

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2024-03-05", raw["date"])
	assert.Equal(t, 42.1, raw["amount"])
	assert.Equal(t, "EXPENSE", raw["kind"])
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Entity: "investment", ID: "inv-9", Field: "shares", Reason: "must not be negative"}
	assert.Equal(t, `invalid investment "inv-9": shares must not be negative`, err.Error())

	cfg := &ConfigurationError{Key: "currency", Reason: `unsupported code "XYZ"`}
	assert.Contains(t, cfg.Error(), "XYZ")
}

func TestSum(t *testing.T) {
	assert.True(t, Sum().Equal(decimal.Zero))
	assert.True(t, Sum(decimal.NewFromInt(2), decimal.RequireFromString("0.5")).Equal(decimal.RequireFromString("2.5")))
}
