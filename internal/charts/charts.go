// Package charts derives the series shown on the dashboard graphs.
package charts

import (
	"fmt"
	"math/rand"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Point is one labelled value in a series.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

var trendMultipliers = [12]string{
	"0.85", "0.88", "0.87", "0.91", "0.93", "0.95",
	"0.98", "0.96", "0.99", "1.02", "1.05", "1.00",
}

// NetWorthTrend returns twelve monthly points, Jan through Dec, scaled from
// the current net worth.
func NetWorthTrend(netWorth decimal.Decimal) []Point {
	points := make([]Point, 0, len(trendMultipliers))
	for i, m := range trendMultipliers {
		points = append(points, Point{
			Label: time.Month(i + 1).String()[:3],
			Value: netWorth.Mul(decimal.RequireFromString(m)).Round(2),
		})
	}
	return points
}

// Range selects the span of a price history chart.
type Range string

const (
	Range1D  Range = "1D"
	Range1W  Range = "1W"
	Range1M  Range = "1M"
	Range1Y  Range = "1Y"
	RangeAll Range = "ALL"
)

type rangeShape struct {
	points     int
	volatility float64
	step       func(t time.Time, back int) time.Time
}

var ranges = map[Range]rangeShape{
	Range1D:  {points: 24, volatility: 0.005, step: func(t time.Time, n int) time.Time { return t.Add(-time.Duration(n) * time.Hour) }},
	Range1W:  {points: 7, volatility: 0.02, step: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -n) }},
	Range1M:  {points: 30, volatility: 0.02, step: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -n) }},
	Range1Y:  {points: 52, volatility: 0.05, step: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -7*n) }},
	RangeAll: {points: 60, volatility: 0.10, step: func(t time.Time, n int) time.Time { return t.AddDate(0, -n, 0) }},
}

// ParseRange accepts the range names used by the price chart.
func ParseRange(s string) (Range, error) {
	r := Range(s)
	if _, ok := ranges[r]; !ok {
		return "", &domain.ConfigurationError{Key: "range", Reason: fmt.Sprintf("unsupported range %q", s)}
	}
	return r, nil
}

// PricePoint is one sample of a synthetic price series.
type PricePoint struct {
	Time  time.Time       `json:"time"`
	Price decimal.Decimal `json:"price"`
}

// PriceHistory builds a synthetic random walk that ends at currentPrice.
// Walking backwards from now, each earlier price moves by up to ±volatility/2
// of the later one. Prices never go below zero.
func PriceHistory(currentPrice decimal.Decimal, r Range, now time.Time, rng *rand.Rand) ([]PricePoint, error) {
	shape, ok := ranges[r]
	if !ok {
		return nil, &domain.ConfigurationError{Key: "range", Reason: fmt.Sprintf("unsupported range %q", r)}
	}
	if currentPrice.IsNegative() {
		return nil, &domain.ValidationError{Entity: "price", Field: "current_price", Reason: "must not be negative"}
	}

	vol := decimal.NewFromFloat(shape.volatility)
	half := decimal.NewFromFloat(0.5)

	// walk[0] is now; walk[i] is i steps back.
	walk := make([]decimal.Decimal, shape.points+1)
	walk[0] = currentPrice
	for i := 1; i <= shape.points; i++ {
		later := walk[i-1]
		change := decimal.NewFromFloat(rng.Float64()).Sub(half).Mul(vol).Mul(later)
		p := later.Sub(change)
		if p.IsNegative() {
			p = decimal.Zero
		}
		walk[i] = p
	}

	out := make([]PricePoint, 0, len(walk))
	for i := shape.points; i >= 0; i-- {
		out = append(out, PricePoint{Time: shape.step(now, i), Price: walk[i].Round(2)})
	}
	out[len(out)-1].Price = currentPrice
	return out, nil
}

// MethodTotal is the expense total for one payment method.
type MethodTotal struct {
	Method domain.PaymentMethod `json:"method"`
	Label  string               `json:"label"`
	Total  decimal.Decimal      `json:"total"`
}

func methodLabel(m domain.PaymentMethod) string {
	if m == domain.PaymentMobileWallet {
		return "WALLET"
	}
	return string(m)
}

// PaymentMethodBreakdown sums expenses per payment method in display order,
// dropping methods with no spend.
func PaymentMethodBreakdown(txs []domain.Transaction) []MethodTotal {
	totals := make(map[domain.PaymentMethod]decimal.Decimal)
	for _, tx := range txs {
		if tx.Kind != domain.KindExpense {
			continue
		}
		totals[tx.PaymentMethod] = totals[tx.PaymentMethod].Add(tx.Amount)
	}

	out := []MethodTotal{}
	for _, m := range domain.PaymentMethods {
		total := totals[m]
		if total.IsZero() {
			continue
		}
		out = append(out, MethodTotal{Method: m, Label: methodLabel(m), Total: total})
	}
	return out
}

// MonthFlow is income and expense for one calendar month.
type MonthFlow struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// MonthlyCashFlow returns income and expense for the trailing months calendar
// months, oldest first, ending with the month containing now.
func MonthlyCashFlow(txs []domain.Transaction, now time.Time, months int) []MonthFlow {
	if months <= 0 {
		return []MonthFlow{}
	}

	today := civil.DateOf(now)

	out := make([]MonthFlow, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		start := time.Date(today.Year, today.Month+time.Month(i-months+1), 1, 0, 0, 0, 0, time.UTC)
		key := monthKey(civil.DateOf(start))
		out[i] = MonthFlow{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
		index[key] = i
	}

	for _, tx := range txs {
		i, ok := index[monthKey(tx.Date)]
		if !ok {
			continue
		}
		switch tx.Kind {
		case domain.KindIncome:
			out[i].Income = out[i].Income.Add(tx.Amount)
		case domain.KindExpense:
			out[i].Expense = out[i].Expense.Add(tx.Amount)
		}
	}

	for i := range out {
		out[i].Net = out[i].Income.Sub(out[i].Expense)
	}
	return out
}

func monthKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}
