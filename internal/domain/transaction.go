package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionKind tells income from expense. Amounts are always magnitudes.
type TransactionKind string

const (
	KindIncome  TransactionKind = "INCOME"
	KindExpense TransactionKind = "EXPENSE"
)

// PaymentMethod is the instrument a transaction was paid with.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCard         PaymentMethod = "CARD"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBank         PaymentMethod = "BANK"
	PaymentMobileWallet PaymentMethod = "MOBILE_WALLET"
)

// PaymentMethods lists every supported payment method in display order.
var PaymentMethods = []PaymentMethod{PaymentUPI, PaymentCard, PaymentCash, PaymentBank, PaymentMobileWallet}

// Frequency is how often a recurring record repeats.
type Frequency string

const (
	FrequencyNone    Frequency = "NONE"
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// Recurrence describes a repeating transaction. EndDate is inclusive.
type Recurrence struct {
	Frequency Frequency   `json:"frequency"`
	EndDate   *civil.Date `json:"end_date,omitempty"`
}

// Transaction is a single income or expense record, denominated in USD.
// Edits replace the whole record and keep its ID.
type Transaction struct {
	ID            string          `json:"id"`
	Date          civil.Date      `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          TransactionKind `json:"kind"`
	Category      string          `json:"category"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	UPIID         string          `json:"upi_id,omitempty"`
	TaxDeductible bool            `json:"tax_deductible,omitempty"`
	Recurrence    *Recurrence     `json:"recurrence,omitempty"`
}

// IsRecurring reports whether the transaction carries an active recurrence rule.
func (t Transaction) IsRecurring() bool {
	return t.Recurrence != nil && t.Recurrence.Frequency != FrequencyNone && t.Recurrence.Frequency != ""
}

// Validate checks the invariants every stored transaction must hold.
func (t Transaction) Validate() error {
	const entity = "transaction"
	if t.ID == "" {
		return invalid(entity, t.ID, "id", "is required")
	}
	if !t.Date.IsValid() {
		return invalid(entity, t.ID, "date", "is not a calendar date")
	}
	if t.Amount.IsNegative() {
		return invalid(entity, t.ID, "amount", "must not be negative")
	}
	switch t.Kind {
	case KindIncome, KindExpense:
	default:
		return invalid(entity, t.ID, "kind", "must be INCOME or EXPENSE")
	}
	if t.PaymentMethod != "" && !validPaymentMethod(t.PaymentMethod) {
		return invalid(entity, t.ID, "payment_method", "is not supported")
	}
	if t.Recurrence != nil {
		switch t.Recurrence.Frequency {
		case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		default:
			return invalid(entity, t.ID, "recurrence.frequency", "is not supported")
		}
		if t.Recurrence.EndDate != nil && t.Recurrence.EndDate.Before(t.Date) {
			return invalid(entity, t.ID, "recurrence.end_date", "is before the transaction date")
		}
	}
	return nil
}

func validPaymentMethod(m PaymentMethod) bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}
