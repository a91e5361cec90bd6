package domain

import "github.com/shopspring/decimal"

// AssetClass groups holdings for allocation views.
type AssetClass string

const (
	AssetStock      AssetClass = "STOCK"
	AssetCrypto     AssetClass = "CRYPTO"
	AssetETF        AssetClass = "ETF"
	AssetRealEstate AssetClass = "REAL_ESTATE"
	AssetGold       AssetClass = "GOLD"
	AssetSilver     AssetClass = "SILVER"
	// AssetMutualFund is only valid for SIPs.
	AssetMutualFund AssetClass = "MUTUAL_FUND"
)

var holdingClasses = map[AssetClass]bool{
	AssetStock: true, AssetCrypto: true, AssetETF: true,
	AssetRealEstate: true, AssetGold: true, AssetSilver: true,
}

// Investment is a portfolio holding. Prices are in USD.
type Investment struct {
	ID           string          `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Shares       decimal.Decimal `json:"shares"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	AssetClass   AssetClass      `json:"asset_class"`
}

// MarketValue is shares × current price.
func (i Investment) MarketValue() decimal.Decimal {
	return i.Shares.Mul(i.CurrentPrice)
}

// CostBasis is shares × average cost.
func (i Investment) CostBasis() decimal.Decimal {
	return i.Shares.Mul(i.AvgCost)
}

// Validate rejects holdings that would produce negative valuations.
func (i Investment) Validate() error {
	const entity = "investment"
	if i.Symbol == "" {
		return invalid(entity, i.ID, "symbol", "is required")
	}
	if i.Shares.IsNegative() {
		return invalid(entity, i.ID, "shares", "must not be negative")
	}
	if i.AvgCost.IsNegative() {
		return invalid(entity, i.ID, "avg_cost", "must not be negative")
	}
	if i.CurrentPrice.IsNegative() {
		return invalid(entity, i.ID, "current_price", "must not be negative")
	}
	if !holdingClasses[i.AssetClass] {
		return invalid(entity, i.ID, "asset_class", "is not supported")
	}
	return nil
}
