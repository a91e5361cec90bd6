package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the window a budget limit applies to.
type BudgetPeriod string

// PeriodMonthly is currently the only supported period.
const PeriodMonthly BudgetPeriod = "MONTHLY"

// Budget is a monthly spending goal for a free-text category.
type Budget struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Period   BudgetPeriod    `json:"period"`
}

// Validate checks the invariants of a stored budget.
func (b Budget) Validate() error {
	const entity = "budget"
	if strings.TrimSpace(b.Category) == "" {
		return invalid(entity, b.ID, "category", "is required")
	}
	if !b.Limit.IsPositive() {
		return invalid(entity, b.ID, "limit", "must be positive")
	}
	if b.Period != "" && b.Period != PeriodMonthly {
		return invalid(entity, b.ID, "period", "must be MONTHLY")
	}
	return nil
}
