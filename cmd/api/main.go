package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/api"
	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/currency"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/gcs"
	infraBQ "github.com/dvloznov/finance-dashboard/internal/infra/bigquery"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	jobsmem "github.com/dvloznov/finance-dashboard/internal/jobs/inmemory"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/recurring"
	"github.com/dvloznov/finance-dashboard/internal/store/inmemory"
	"github.com/dvloznov/finance-dashboard/internal/valuation"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	ctx := logger.WithContext(context.Background(), log)

	converter, err := currency.LoadConverter(ctx, gcs.NewReader(), cfg.CurrencyTableURI)
	if err != nil {
		log.Fatal().Err(err).Str("uri", cfg.CurrencyTableURI).Msg("Failed to load currency table")
	}
	log.Info().Strs("currencies", converter.Codes()).Msg("Currency table loaded")

	store := inmemory.NewStore()
	if err := seedStore(ctx, store, cfg, converter, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed store")
	}

	adv := newAdvisor(ctx, cfg, log)

	// Initialize job infrastructure
	jobStore := jobsmem.NewStore()
	jobQueue := jobsmem.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := jobQueue.Start(workerCtx, jobs.NewAdvisorHandler(adv, store)); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job worker")
	}
	log.Info().Int("workers", jobQueue.Workers).Msg("Job worker started")

	scheduler, err := recurring.NewScheduler(store, cfg.RecurringSchedule, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create recurring scheduler")
	}
	// Catch up once at startup so records due while the service was down appear.
	if res, err := scheduler.RunOnce(ctx, time.Now()); err != nil {
		log.Error().Err(err).Msg("Initial recurring materialization failed")
	} else {
		log.Info().Int("transactions", res.Transactions).Int("installments", res.Installments).Msg("Recurring records caught up")
	}
	scheduler.Start()

	calculator := valuation.NewCalculator(cfg.NetWorthFallbackBaseline)
	handler := api.NewRouter(api.Deps{
		Store:     store,
		Dashboard: dashboard.NewService(store, calculator, converter, cfg.TaxRate),
		Converter: converter,
		Advisor:   adv,
		Publisher: jobQueue,
		JobStore:  jobStore,
		Log:       log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("Recurring pass still running at shutdown")
	}

	cancelWorker()
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// seedStore loads the demo data set and, when a BigQuery project is
// configured, replaces its transactions and accounts with statement data.
func seedStore(ctx context.Context, store *inmemory.Store, cfg *config.Config, converter *currency.Converter, log zerolog.Logger) error {
	var data inmemory.Snapshot
	if cfg.SeedDemoData {
		data = inmemory.Demo(time.Now())
	}

	if cfg.BigQueryProject != "" {
		source, err := infraBQ.NewSource(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, converter)
		if err != nil {
			return fmt.Errorf("seedStore: %w", err)
		}
		defer source.Close()

		records, err := source.Load(ctx)
		if err != nil {
			return fmt.Errorf("seedStore: %w", err)
		}
		data.Transactions = records.Transactions
		data.Accounts = records.Accounts
		log.Info().
			Str("project", cfg.BigQueryProject).
			Str("dataset", cfg.BigQueryDataset).
			Int("transactions", len(records.Transactions)).
			Int("accounts", len(records.Accounts)).
			Msg("Loaded statement data from BigQuery")
	}

	if err := store.Seed(ctx, data); err != nil {
		return fmt.Errorf("seedStore: %w", err)
	}
	log.Info().
		Bool("demo", cfg.SeedDemoData).
		Int("transactions", len(data.Transactions)).
		Int("investments", len(data.Investments)).
		Msg("Store seeded")
	return nil
}

func newAdvisor(ctx context.Context, cfg *config.Config, log zerolog.Logger) advisor.Advisor {
	if !cfg.AdvisorEnabled() {
		log.Warn().Msg("No GEMINI_API_KEY configured - advisor endpoints will return 503")
		return advisor.Disabled{}
	}
	g, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client - advisor disabled")
		return advisor.Disabled{}
	}
	log.Info().Str("model", cfg.GeminiModel).Msg("Advisor enabled")
	return g
}
