package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// SIP is a systematic investment plan: a fixed amount invested on a schedule.
type SIP struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Frequency  Frequency       `json:"frequency"`
	NextDate   civil.Date      `json:"next_date"`
	StartDate  *civil.Date     `json:"start_date,omitempty"`
	Active     bool            `json:"active"`
	AssetClass AssetClass      `json:"asset_class"`
}

// Validate checks plan amount, schedule and asset class.
func (s SIP) Validate() error {
	const entity = "sip"
	if s.Name == "" {
		return invalid(entity, s.ID, "name", "is required")
	}
	if !s.Amount.IsPositive() {
		return invalid(entity, s.ID, "amount", "must be positive")
	}
	switch s.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return invalid(entity, s.ID, "frequency", "must be DAILY, WEEKLY or MONTHLY")
	}
	if !s.NextDate.IsValid() {
		return invalid(entity, s.ID, "next_date", "is not a calendar date")
	}
	if s.AssetClass != AssetMutualFund && !holdingClasses[s.AssetClass] {
		return invalid(entity, s.ID, "asset_class", "is not supported")
	}
	return nil
}
