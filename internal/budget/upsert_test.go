package budget

import (
	"errors"
	"testing"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID(id string) func() string {
	return func() string { return id }
}

func TestUpsert_UpdatesCaseInsensitiveMatch(t *testing.T) {
	existing := []domain.Budget{{ID: "b1", Category: "food", Limit: d("400"), Period: domain.PeriodMonthly}}

	got, err := Upsert(existing, "Food", d("600"), fixedID("unused"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "food", got[0].Category)
	assert.True(t, got[0].Limit.Equal(d("600")))

	assert.True(t, existing[0].Limit.Equal(d("400")), "input must not be mutated")
}

func TestUpsert_AppendsNewCategory(t *testing.T) {
	existing := []domain.Budget{{ID: "b1", Category: "Food", Limit: d("400"), Period: domain.PeriodMonthly}}

	got, err := Upsert(existing, "Travel", d("250"), fixedID("b2"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Budget{ID: "b2", Category: "Travel", Limit: d("250"), Period: domain.PeriodMonthly}, got[1])
	assert.Len(t, existing, 1)
}

func TestUpsert_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		category string
		limit    string
	}{
		{"zero limit", "Food", "0"},
		{"negative limit", "Food", "-5"},
		{"blank category", "  ", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Upsert(nil, tt.category, d(tt.limit), fixedID("x"))
			var vErr *domain.ValidationError
			assert.True(t, errors.As(err, &vErr), "got %v", err)
		})
	}
}
