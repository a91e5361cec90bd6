package recurring

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) civil.Date { return civil.Date{Year: y, Month: m, Day: d} }

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		freq domain.Frequency
		from civil.Date
		want civil.Date
	}{
		{"daily", domain.FrequencyDaily, date(2024, 2, 28), date(2024, 2, 29)},
		{"weekly across month", domain.FrequencyWeekly, date(2024, 1, 29), date(2024, 2, 5)},
		{"monthly", domain.FrequencyMonthly, date(2024, 3, 15), date(2024, 4, 15)},
		{"monthly clamps", domain.FrequencyMonthly, date(2024, 1, 31), date(2024, 2, 29)},
		{"monthly clamps non-leap", domain.FrequencyMonthly, date(2023, 1, 31), date(2023, 2, 28)},
		{"monthly over year end", domain.FrequencyMonthly, date(2023, 12, 10), date(2024, 1, 10)},
		{"yearly from leap day", domain.FrequencyYearly, date(2024, 2, 29), date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.freq, tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Next(domain.FrequencyNone, date(2024, 1, 1))
	assert.Error(t, err)
}

func recurringTx(freq domain.Frequency, start civil.Date, end *civil.Date) domain.Transaction {
	return domain.Transaction{
		ID:          "rent",
		Date:        start,
		Description: "Office Rent",
		Amount:      decimal.NewFromInt(800),
		Kind:        domain.KindExpense,
		Category:    "Rent",
		Recurrence:  &domain.Recurrence{Frequency: freq, EndDate: end},
	}
}

func TestOccurrences_MonthlyKeepsAnchorDay(t *testing.T) {
	tx := recurringTx(domain.FrequencyMonthly, date(2024, 1, 31), nil)

	got, err := Occurrences(tx, date(2024, 4, 30))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, date(2024, 2, 29), got[0].Date)
	assert.Equal(t, date(2024, 3, 31), got[1].Date)
	assert.Equal(t, date(2024, 4, 30), got[2].Date)
	assert.Equal(t, "rent@2024-02-29", got[0].ID)
	assert.Nil(t, got[0].Recurrence)
	assert.NotNil(t, tx.Recurrence, "input must not be modified")
}

func TestOccurrences_StopsAtEndDate(t *testing.T) {
	end := date(2024, 3, 1)
	tx := recurringTx(domain.FrequencyWeekly, date(2024, 2, 1), &end)

	got, err := Occurrences(tx, date(2024, 12, 31))
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, date(2024, 2, 29), got[3].Date)
}

func TestOccurrences_NothingDue(t *testing.T) {
	tx := recurringTx(domain.FrequencyMonthly, date(2024, 3, 1), nil)
	got, err := Occurrences(tx, date(2024, 3, 20))
	require.NoError(t, err)
	assert.Empty(t, got)

	plain := tx
	plain.Recurrence = nil
	got, err = Occurrences(plain, date(2030, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDueInstallments(t *testing.T) {
	sip := domain.SIP{
		ID: "s1", Name: "Bitcoin DCA", Amount: decimal.NewFromInt(50),
		Frequency: domain.FrequencyWeekly, NextDate: date(2024, 3, 1), Active: true,
		AssetClass: domain.AssetCrypto,
	}

	due, next, err := DueInstallments(sip, date(2024, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, []civil.Date{date(2024, 3, 1), date(2024, 3, 8), date(2024, 3, 15)}, due)
	assert.Equal(t, date(2024, 3, 22), next)

	sip.Active = false
	due, next, err = DueInstallments(sip, date(2024, 3, 15))
	require.NoError(t, err)
	assert.Empty(t, due)
	assert.Equal(t, date(2024, 3, 1), next)
}

func TestOccurrences_CapIsReported(t *testing.T) {
	tx := recurringTx(domain.FrequencyDaily, date(2000, 1, 1), nil)

	got, err := Occurrences(tx, date(2024, 3, 18))
	assert.ErrorIs(t, err, ErrTooManyOccurrences)
	require.Len(t, got, maxOccurrences)
	assert.Equal(t, date(2000, 1, 2), got[0].Date)

	// Exactly at the cap is not an error.
	got, err = Occurrences(tx, date(2000, 1, 1).AddDays(maxOccurrences))
	require.NoError(t, err)
	assert.Len(t, got, maxOccurrences)
}

func TestDueInstallments_CapResumesNextPass(t *testing.T) {
	sip := domain.SIP{
		ID: "s1", Name: "Daily saver", Amount: decimal.NewFromInt(5),
		Frequency: domain.FrequencyDaily, NextDate: date(2000, 1, 1), Active: true,
		AssetClass: domain.AssetCrypto,
	}

	due, next, err := DueInstallments(sip, date(2024, 3, 18))
	assert.ErrorIs(t, err, ErrTooManyOccurrences)
	require.Len(t, due, maxOccurrences)
	assert.Equal(t, date(2000, 1, 1).AddDays(maxOccurrences), next)
}
