// Package budget maps monthly budget goals to actual spend.
//
// Everything here is a pure function over the snapshots it is given. The
// caller supplies "now" so results are reproducible across month boundaries.
package budget

import (
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

var hundred = decimal.NewFromInt(100)

// Analysis is a budget together with its spend in the current month.
type Analysis struct {
	domain.Budget
	Spent      decimal.Decimal `json:"spent"`
	Percentage decimal.Decimal `json:"percentage"` // clamped to [0, 100]
	IsOver     bool            `json:"is_over"`
	Remaining  decimal.Decimal `json:"remaining"` // negative when over
}

// CategoryKey normalizes a free-text category for case-insensitive matching.
func CategoryKey(category string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(category))
}

// Analyze computes spend against every budget for the calendar month that
// contains now. Only EXPENSE transactions dated in that month count. A budget
// whose limit is zero or negative is reported as fully used and over.
//
// Results are sorted by percentage, highest first; ties keep input order.
func Analyze(budgets []domain.Budget, txs []domain.Transaction, now time.Time) ([]Analysis, error) {
	today := civil.DateOf(now)

	spentByCategory := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		if tx.Kind != domain.KindExpense {
			continue
		}
		if tx.Date.Year != today.Year || tx.Date.Month != today.Month {
			continue
		}
		key := CategoryKey(tx.Category)
		spentByCategory[key] = spentByCategory[key].Add(tx.Amount)
	}

	result := make([]Analysis, 0, len(budgets))
	for _, b := range budgets {
		spent := spentByCategory[CategoryKey(b.Category)]
		result = append(result, analyzeOne(b, spent))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Percentage.GreaterThan(result[j].Percentage)
	})

	return result, nil
}

func analyzeOne(b domain.Budget, spent decimal.Decimal) Analysis {
	a := Analysis{
		Budget:    b,
		Spent:     spent,
		Remaining: b.Limit.Sub(spent),
	}

	if !b.Limit.IsPositive() {
		a.Percentage = hundred
		a.IsOver = true
		return a
	}

	pct := spent.Div(b.Limit).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	a.Percentage = pct
	a.IsOver = spent.GreaterThan(b.Limit)
	return a
}

// Overspend totals how far over-budget categories exceed their limits.
func Overspend(analyses []Analysis) decimal.Decimal {
	total := decimal.Zero
	for _, a := range analyses {
		if a.IsOver && a.Remaining.IsNegative() {
			total = total.Add(a.Remaining.Neg())
		}
	}
	return total
}
