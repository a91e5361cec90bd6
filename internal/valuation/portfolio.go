package valuation

import (
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Holding is the per-row view of an investment in the holdings table.
type Holding struct {
	domain.Investment
	MarketValue   decimal.Decimal `json:"market_value"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
	Gain          decimal.Decimal `json:"gain"`
	GainPercent   decimal.Decimal `json:"gain_percent"`
	AllocationPct decimal.Decimal `json:"allocation_pct"`
}

// ClassAllocation is the share of portfolio value held in one asset class.
type ClassAllocation struct {
	AssetClass    domain.AssetClass `json:"asset_class"`
	Value         decimal.Decimal   `json:"value"`
	AllocationPct decimal.Decimal   `json:"allocation_pct"`
}

// PortfolioSummary aggregates holdings for the investments view.
type PortfolioSummary struct {
	TotalValue   decimal.Decimal   `json:"total_value"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
	TotalGain    decimal.Decimal   `json:"total_gain"`
	GainPercent  decimal.Decimal   `json:"gain_percent"`
	Holdings     []Holding         `json:"holdings"`
	ByAssetClass []ClassAllocation `json:"by_asset_class"`
}

// Summarize values every holding and the portfolio as a whole. Holdings keep
// input order; asset classes appear in order of first occurrence.
func Summarize(investments []domain.Investment) (PortfolioSummary, error) {
	s := PortfolioSummary{
		Holdings:     make([]Holding, 0, len(investments)),
		ByAssetClass: []ClassAllocation{},
	}

	classIndex := make(map[domain.AssetClass]int)
	for _, inv := range investments {
		if err := inv.Validate(); err != nil {
			return PortfolioSummary{}, err
		}
		h := Holding{
			Investment:  inv,
			MarketValue: inv.MarketValue(),
			CostBasis:   inv.CostBasis(),
			Gain:        Gain(inv),
			GainPercent: GainPercent(inv),
		}
		s.Holdings = append(s.Holdings, h)
		s.TotalValue = s.TotalValue.Add(h.MarketValue)
		s.TotalCost = s.TotalCost.Add(h.CostBasis)

		idx, ok := classIndex[inv.AssetClass]
		if !ok {
			idx = len(s.ByAssetClass)
			classIndex[inv.AssetClass] = idx
			s.ByAssetClass = append(s.ByAssetClass, ClassAllocation{AssetClass: inv.AssetClass})
		}
		s.ByAssetClass[idx].Value = s.ByAssetClass[idx].Value.Add(h.MarketValue)
	}

	s.TotalGain = s.TotalValue.Sub(s.TotalCost)
	if s.TotalCost.IsPositive() {
		s.GainPercent = s.TotalGain.Div(s.TotalCost).Mul(hundred)
	}

	for i := range s.Holdings {
		s.Holdings[i].AllocationPct = share(s.Holdings[i].MarketValue, s.TotalValue)
	}
	for i := range s.ByAssetClass {
		s.ByAssetClass[i].AllocationPct = share(s.ByAssetClass[i].Value, s.TotalValue)
	}

	return s, nil
}

func share(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}
