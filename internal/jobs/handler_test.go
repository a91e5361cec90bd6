package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAdvisor struct {
	advisor.Disabled
	IdentifyTaxDeductionsFunc func(ctx context.Context, txs []domain.Transaction) ([]domain.TaxDeductionInsight, error)
	AnalyzePortfolioFunc      func(ctx context.Context, investments []domain.Investment) (string, error)
}

func (m *mockAdvisor) IdentifyTaxDeductions(ctx context.Context, txs []domain.Transaction) ([]domain.TaxDeductionInsight, error) {
	return m.IdentifyTaxDeductionsFunc(ctx, txs)
}

func (m *mockAdvisor) AnalyzePortfolio(ctx context.Context, investments []domain.Investment) (string, error) {
	return m.AnalyzePortfolioFunc(ctx, investments)
}

type mockSource struct {
	txs         []domain.Transaction
	investments []domain.Investment
}

func (m mockSource) Transactions(context.Context) []domain.Transaction { return m.txs }
func (m mockSource) Investments(context.Context) []domain.Investment   { return m.investments }

func TestAdvisorHandler_TaxScan(t *testing.T) {
	src := mockSource{txs: []domain.Transaction{{ID: "3", Kind: domain.KindExpense, Amount: decimal.NewFromInt(10)}}}
	adv := &mockAdvisor{
		IdentifyTaxDeductionsFunc: func(_ context.Context, txs []domain.Transaction) ([]domain.TaxDeductionInsight, error) {
			require.Len(t, txs, 1)
			return []domain.TaxDeductionInsight{{TransactionID: "3", Reason: "Business meal", Confidence: domain.ConfidenceHigh}}, nil
		},
	}

	out, err := NewAdvisorHandler(adv, src)(context.Background(), &Job{JobID: "j1", Type: JobTypeTaxScan})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"transaction_id":"3","reason":"Business meal","confidence":"HIGH"}]`, string(out))
}

func TestAdvisorHandler_PortfolioAnalysis(t *testing.T) {
	adv := &mockAdvisor{
		AnalyzePortfolioFunc: func(context.Context, []domain.Investment) (string, error) {
			return "Diversify.", nil
		},
	}

	out, err := NewAdvisorHandler(adv, mockSource{})(context.Background(), &Job{Type: JobTypePortfolioAnalysis})
	require.NoError(t, err)
	assert.JSONEq(t, `{"analysis":"Diversify."}`, string(out))
}

func TestAdvisorHandler_Errors(t *testing.T) {
	h := NewAdvisorHandler(advisor.Disabled{}, mockSource{})

	_, err := h(context.Background(), &Job{Type: JobTypeTaxScan})
	assert.ErrorIs(t, err, ErrPermanent)
	assert.ErrorIs(t, err, advisor.ErrDisabled)

	_, err = h(context.Background(), &Job{Type: "unknown"})
	assert.ErrorIs(t, err, ErrPermanent)

	transient := &mockAdvisor{
		AnalyzePortfolioFunc: func(context.Context, []domain.Investment) (string, error) {
			return "", errors.New("timeout")
		},
	}
	_, err = NewAdvisorHandler(transient, mockSource{})(context.Background(), &Job{Type: JobTypePortfolioAnalysis})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPermanent))
}
