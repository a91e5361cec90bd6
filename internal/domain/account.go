package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType decides whether a balance counts as an asset or a liability.
type AccountType string

const (
	AccountChecking   AccountType = "CHECKING"
	AccountSavings    AccountType = "SAVINGS"
	AccountCreditCard AccountType = "CREDIT_CARD"
	AccountInvestment AccountType = "INVESTMENT"
)

// IsLiability reports whether balances of this type are owed rather than held.
func (t AccountType) IsLiability() bool {
	return t == AccountCreditCard
}

// BankAccount is a linked account. Balance is always a non-negative magnitude;
// for credit cards it is the amount owed.
type BankAccount struct {
	ID           string          `json:"id"`
	Institution  string          `json:"institution"`
	MaskedNumber string          `json:"masked_number"`
	Type         AccountType     `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	LastSynced   time.Time       `json:"last_synced"`
}

// Validate checks the account type and balance sign.
func (a BankAccount) Validate() error {
	const entity = "account"
	switch a.Type {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountInvestment:
	default:
		return invalid(entity, a.ID, "type", "is not supported")
	}
	if a.Balance.IsNegative() {
		return invalid(entity, a.ID, "balance", "must not be negative")
	}
	return nil
}
