package inmemory

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Demo returns the sample data set shown on first launch, dated around the
// month containing now so that the current-month views are populated.
func Demo(now time.Time) Snapshot {
	today := civil.DateOf(now)
	thisMonth := func(day int) civil.Date {
		return civil.Date{Year: today.Year, Month: today.Month, Day: min(day, today.Day)}
	}
	lastMonth := func(day int) civil.Date {
		t := time.Date(today.Year, today.Month-1, 1, 0, 0, 0, 0, time.UTC)
		return civil.Date{Year: t.Year(), Month: t.Month(), Day: day}
	}
	inYear := func(d civil.Date) *civil.Date {
		end := civil.Date{Year: d.Year + 1, Month: d.Month, Day: d.Day}
		return &end
	}
	money := decimal.RequireFromString

	rentStart := lastMonth(1)
	softwareStart := lastMonth(25)

	return Snapshot{
		Transactions: []domain.Transaction{
			{ID: "1", Date: lastMonth(24), Description: "Web Design Project", Amount: money("3500"),
				Kind: domain.KindIncome, Category: "Freelance", PaymentMethod: domain.PaymentBank},
			{ID: "2", Date: softwareStart, Description: "Adobe Creative Cloud", Amount: money("54.99"),
				Kind: domain.KindExpense, Category: "Software", PaymentMethod: domain.PaymentCard,
				Recurrence: &domain.Recurrence{Frequency: domain.FrequencyMonthly, EndDate: inYear(softwareStart)}},
			{ID: "3", Date: thisMonth(2), Description: "Client Dinner", Amount: money("124.50"),
				Kind: domain.KindExpense, Category: "Meals", PaymentMethod: domain.PaymentUPI, UPIID: "restaurant@okhdfc",
				TaxDeductible: true},
			{ID: "4", Date: thisMonth(3), Description: "New Office Monitor", Amount: money("349.00"),
				Kind: domain.KindExpense, Category: "Equipment", PaymentMethod: domain.PaymentCard},
			{ID: "5", Date: thisMonth(1), Description: "Monthly Retainer", Amount: money("2000"),
				Kind: domain.KindIncome, Category: "Freelance", PaymentMethod: domain.PaymentBank},
			{ID: "6", Date: rentStart, Description: "Office Rent", Amount: money("800"),
				Kind: domain.KindExpense, Category: "Rent", PaymentMethod: domain.PaymentUPI, UPIID: "landlord@upi",
				Recurrence: &domain.Recurrence{Frequency: domain.FrequencyMonthly, EndDate: inYear(rentStart)}},
			{ID: "7", Date: thisMonth(4), Description: "Coffee Run", Amount: money("12.50"),
				Kind: domain.KindExpense, Category: "Food", PaymentMethod: domain.PaymentCash},
		},
		Budgets: []domain.Budget{
			{ID: "1", Category: "Food", Limit: money("500"), Period: domain.PeriodMonthly},
			{ID: "2", Category: "Rent", Limit: money("800"), Period: domain.PeriodMonthly},
			{ID: "3", Category: "Software", Limit: money("100"), Period: domain.PeriodMonthly},
			{ID: "4", Category: "Meals", Limit: money("200"), Period: domain.PeriodMonthly},
		},
		Investments: []domain.Investment{
			{ID: "1", Symbol: "AAPL", Name: "Apple Inc.", Shares: money("15"), AvgCost: money("145.00"),
				CurrentPrice: money("173.50"), AssetClass: domain.AssetStock},
			{ID: "2", Symbol: "MSFT", Name: "Microsoft Corp.", Shares: money("10"), AvgCost: money("280.00"),
				CurrentPrice: money("330.20"), AssetClass: domain.AssetStock},
			{ID: "3", Symbol: "VOO", Name: "Vanguard S&P 500 ETF", Shares: money("25"), AvgCost: money("380.00"),
				CurrentPrice: money("405.10"), AssetClass: domain.AssetETF},
			{ID: "4", Symbol: "TSLA", Name: "Tesla Inc.", Shares: money("8"), AvgCost: money("250.00"),
				CurrentPrice: money("215.30"), AssetClass: domain.AssetStock},
		},
		SIPs: []domain.SIP{
			{ID: "1", Name: "Vanguard S&P 500", Amount: money("500"), Frequency: domain.FrequencyMonthly,
				NextDate: today.AddDays(10), Active: true, AssetClass: domain.AssetETF},
			{ID: "2", Name: "Bitcoin DCA", Amount: money("50"), Frequency: domain.FrequencyWeekly,
				NextDate: today.AddDays(2), Active: true, AssetClass: domain.AssetCrypto},
		},
		Accounts: []domain.BankAccount{},
	}
}
