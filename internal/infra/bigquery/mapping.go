package bigquery

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// RateSource converts statement currencies to USD.
type RateSource interface {
	Rate(code string) (decimal.Decimal, error)
}

const uncategorized = "Uncategorized"

func ratToDecimal(r *big.Rat) (decimal.Decimal, error) {
	return decimal.NewFromString(r.FloatString(8))
}

func toUSD(amount decimal.Decimal, currency string, rates RateSource) (decimal.Decimal, error) {
	if currency == "" {
		return amount, nil
	}
	rate, err := rates.Rate(currency)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Div(rate).Round(2), nil
}

// TransactionFromRow maps a signed statement row to an INCOME or EXPENSE
// magnitude in USD.
func TransactionFromRow(row *TransactionRow, rates RateSource) (domain.Transaction, error) {
	if row.Amount == nil {
		return domain.Transaction{}, fmt.Errorf("TransactionFromRow: %s: amount is NULL", row.TransactionID)
	}
	signed, err := ratToDecimal(row.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("TransactionFromRow: %s: amount: %w", row.TransactionID, err)
	}
	amount, err := toUSD(signed.Abs(), row.Currency, rates)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("TransactionFromRow: %s: %w", row.TransactionID, err)
	}

	kind := domain.KindExpense
	if signed.IsPositive() {
		kind = domain.KindIncome
	}

	description := row.RawDescription
	if row.NormalizedDescription.Valid && row.NormalizedDescription.StringVal != "" {
		description = row.NormalizedDescription.StringVal
	}
	category := uncategorized
	if row.CategoryName.Valid && row.CategoryName.StringVal != "" {
		category = row.CategoryName.StringVal
	}

	tx := domain.Transaction{
		ID:            row.TransactionID,
		Date:          row.TransactionDate,
		Description:   description,
		Amount:        amount,
		Kind:          kind,
		Category:      category,
		PaymentMethod: domain.PaymentBank,
		TaxDeductible: hasTag(row.Tags, "tax_deductible"),
	}
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, fmt.Errorf("TransactionFromRow: %w", err)
	}
	return tx, nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func accountType(raw string) domain.AccountType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SAVINGS", "SAVER", "ISA":
		return domain.AccountSavings
	case "CREDIT", "CREDIT_CARD", "CARD":
		return domain.AccountCreditCard
	case "INVESTMENT", "BROKERAGE", "STOCKS_AND_SHARES_ISA":
		return domain.AccountInvestment
	default:
		return domain.AccountChecking
	}
}

func maskNumber(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	if len(number) <= 4 {
		return number
	}
	return "•••• " + number[len(number)-4:]
}

// AccountFromRow maps an account row. Balances are stored as magnitudes; for
// credit cards that is the amount owed.
func AccountFromRow(row *AccountRow, rates RateSource) (domain.BankAccount, error) {
	balance := decimal.Zero
	if row.Balance != nil {
		b, err := ratToDecimal(row.Balance)
		if err != nil {
			return domain.BankAccount{}, fmt.Errorf("AccountFromRow: %s: balance: %w", row.AccountID, err)
		}
		if balance, err = toUSD(b.Abs(), row.Currency.StringVal, rates); err != nil {
			return domain.BankAccount{}, fmt.Errorf("AccountFromRow: %s: %w", row.AccountID, err)
		}
	}

	institution := row.InstitutionID.StringVal
	if row.AccountName.Valid && row.AccountName.StringVal != "" {
		institution = row.AccountName.StringVal
	}

	a := domain.BankAccount{
		ID:           row.AccountID,
		Institution:  institution,
		MaskedNumber: maskNumber(row.AccountNumber.StringVal),
		Type:         accountType(row.AccountType.StringVal),
		Balance:      balance,
	}
	if row.UpdatedTS.Valid {
		a.LastSynced = row.UpdatedTS.Timestamp
	}
	if err := a.Validate(); err != nil {
		return domain.BankAccount{}, fmt.Errorf("AccountFromRow: %w", err)
	}
	return a, nil
}
