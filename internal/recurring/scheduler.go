package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSchedule runs shortly after midnight every day.
const DefaultSchedule = "5 0 * * *"

// SIPCategory is the expense category recorded for plan installments.
const SIPCategory = "Investments"

// Store is the subset of the record store the scheduler needs.
type Store interface {
	Transactions(ctx context.Context) []domain.Transaction
	AddTransactionsIfAbsent(ctx context.Context, txs []domain.Transaction) (int, error)
	SIPs(ctx context.Context) []domain.SIP
	AdvanceSIP(ctx context.Context, id string, from, next civil.Date) (bool, error)
}

// Result summarizes one materialization pass.
type Result struct {
	Transactions int `json:"transactions"`
	Installments int `json:"installments"`
}

// Scheduler materializes due recurring records on a cron schedule.
type Scheduler struct {
	store  Store
	cron   *cron.Cron
	now    func() time.Time
	logger zerolog.Logger
}

// NewScheduler registers the materialization job under spec. The job does not
// run until Start is called.
func NewScheduler(store Store, spec string, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		store:  store,
		cron:   cron.New(),
		now:    time.Now,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("NewScheduler: invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the cron loop in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron loop and returns a context that is done once any
// running pass has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) tick() {
	res, err := s.RunOnce(context.Background(), s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("recurring materialization failed")
		return
	}
	s.logger.Info().
		Int("transactions", res.Transactions).
		Int("installments", res.Installments).
		Msg("recurring materialization complete")
}

// RunOnce adds every recurring transaction instance and plan installment due
// on or before now's date. Running it twice for the same date adds nothing.
// A plan paused or deleted while the pass runs is left alone.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (Result, error) {
	today := civil.DateOf(now)
	var res Result

	var pending []domain.Transaction
	for _, tx := range s.store.Transactions(ctx) {
		occ, err := Occurrences(tx, today)
		if err != nil && !s.capped(err) {
			return res, fmt.Errorf("RunOnce: expanding transaction %q: %w", tx.ID, err)
		}
		pending = append(pending, occ...)
	}
	added, err := s.store.AddTransactionsIfAbsent(ctx, pending)
	if err != nil {
		return res, fmt.Errorf("RunOnce: storing occurrences: %w", err)
	}
	res.Transactions = added

	for _, sip := range s.store.SIPs(ctx) {
		due, next, err := DueInstallments(sip, today)
		if err != nil && !s.capped(err) {
			return res, fmt.Errorf("RunOnce: expanding sip %q: %w", sip.ID, err)
		}
		if len(due) == 0 {
			continue
		}

		// Claim the installments first so a concurrent pause or delete wins.
		advanced, err := s.store.AdvanceSIP(ctx, sip.ID, sip.NextDate, next)
		if err != nil {
			return res, fmt.Errorf("RunOnce: advancing sip %q: %w", sip.ID, err)
		}
		if !advanced {
			s.logger.Debug().Str("sip_id", sip.ID).Msg("sip changed during pass, skipped")
			continue
		}

		installments := make([]domain.Transaction, 0, len(due))
		for _, on := range due {
			installments = append(installments, domain.Transaction{
				ID:            OccurrenceID("sip-"+sip.ID, on),
				Date:          on,
				Description:   "SIP: " + sip.Name,
				Amount:        sip.Amount,
				Kind:          domain.KindExpense,
				Category:      SIPCategory,
				PaymentMethod: domain.PaymentBank,
			})
		}
		n, err := s.store.AddTransactionsIfAbsent(ctx, installments)
		if err != nil {
			return res, fmt.Errorf("RunOnce: storing installments for sip %q: %w", sip.ID, err)
		}
		res.Installments += n
	}

	return res, nil
}

// capped logs an expansion cut short at maxOccurrences and reports whether
// err was that case.
func (s *Scheduler) capped(err error) bool {
	if !errors.Is(err, ErrTooManyOccurrences) {
		return false
	}
	s.logger.Warn().Err(err).Int("max", maxOccurrences).Msg("recurring expansion capped")
	return true
}
