package budget

import (
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Upsert sets the monthly limit for category. An existing budget whose
// category matches case-insensitively keeps its ID and original spelling and
// gets the new limit; otherwise a new budget is appended with an ID from
// newID. The input slice is never modified.
func Upsert(budgets []domain.Budget, category string, limit decimal.Decimal, newID func() string) ([]domain.Budget, error) {
	candidate := domain.Budget{Category: category, Limit: limit, Period: domain.PeriodMonthly}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	out := make([]domain.Budget, len(budgets), len(budgets)+1)
	copy(out, budgets)

	key := CategoryKey(category)
	for i := range out {
		if CategoryKey(out[i].Category) == key {
			out[i].Limit = limit
			return out, nil
		}
	}

	candidate.ID = newID()
	return append(out, candidate), nil
}
