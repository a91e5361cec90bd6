package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// RecordSource supplies the records advisor jobs run over.
type RecordSource interface {
	Transactions(ctx context.Context) []domain.Transaction
	Investments(ctx context.Context) []domain.Investment
}

// PortfolioAnalysis is the result of a portfolio_analysis job.
type PortfolioAnalysis struct {
	Analysis string `json:"analysis"`
}

// NewAdvisorHandler dispatches jobs to adv by type, reading inputs from src at
// run time.
func NewAdvisorHandler(adv advisor.Advisor, src RecordSource) JobHandler {
	return func(ctx context.Context, job *Job) (json.RawMessage, error) {
		log := logger.FromContext(ctx)
		log.Info().Str("job_id", job.JobID).Str("job_type", string(job.Type)).Msg("running advisor job")

		var (
			result any
			err    error
		)
		switch job.Type {
		case JobTypeTaxScan:
			result, err = adv.IdentifyTaxDeductions(ctx, src.Transactions(ctx))
		case JobTypePortfolioAnalysis:
			var text string
			text, err = adv.AnalyzePortfolio(ctx, src.Investments(ctx))
			result = PortfolioAnalysis{Analysis: text}
		default:
			return nil, fmt.Errorf("unknown job type %q: %w", job.Type, ErrPermanent)
		}

		if err != nil {
			if errors.Is(err, advisor.ErrDisabled) {
				err = fmt.Errorf("%w: %w", ErrPermanent, err)
			}
			return nil, err
		}

		out, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshal %s result: %w: %w", job.Type, ErrPermanent, err)
		}
		return out, nil
	}
}
