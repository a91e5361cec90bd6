// Package api assembles the HTTP surface of the dashboard service.
package api

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/api/handlers"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/currency"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/store/inmemory"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// requestTimeout bounds every request, including synchronous advisor calls.
const requestTimeout = 60 * time.Second

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Store     *inmemory.Store
	Dashboard *dashboard.Service
	Converter *currency.Converter
	Advisor   advisor.Advisor
	Publisher jobs.Publisher
	JobStore  jobs.JobStore
	Log       zerolog.Logger

	// Now defaults to time.Now.
	Now handlers.Clock
	// NewRand defaults to a time-seeded source per call.
	NewRand func() *rand.Rand
	// AllowedOrigins defaults to any origin.
	AllowedOrigins []string
}

// NewRouter builds the chi router with middleware and every endpoint.
func NewRouter(d Deps) http.Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	newRand := d.NewRand
	if newRand == nil {
		newRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	adv := d.Advisor
	if adv == nil {
		adv = advisor.Disabled{}
	}

	transactions := handlers.NewTransactionsHandler(d.Store, adv, d.Log)
	budgets := handlers.NewBudgetsHandler(d.Store, now)
	accounts := handlers.NewAccountsHandler(d.Store, now, d.Log)
	investments := handlers.NewInvestmentsHandler(d.Store, d.Converter, now, newRand, d.Log)
	sips := handlers.NewSIPsHandler(d.Store, d.Log)
	dash := handlers.NewDashboardHandler(d.Dashboard, now)
	currencies := handlers.NewCurrenciesHandler(d.Converter)
	advisorHandler := handlers.NewAdvisorHandler(adv, d.Publisher, d.Log)
	jobsHandler := handlers.NewJobsHandler(d.JobStore)
	system := handlers.NewSystemHandler(d.Store, now, d.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(chimw.Timeout(requestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   now().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", dash.GetSummary)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactions.ListTransactions)
			r.Post("/", transactions.CreateTransaction)
			r.Put("/{id}", transactions.ReplaceTransaction)
			r.Delete("/{id}", transactions.DeleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", budgets.ListBudgets)
			r.Put("/", budgets.UpsertBudget)
			r.Get("/analysis", budgets.AnalyzeBudgets)
			r.Delete("/{id}", budgets.DeleteBudget)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", accounts.ListAccounts)
			r.Post("/", accounts.CreateAccount)
			r.Delete("/{id}", accounts.DeleteAccount)
		})

		r.Route("/investments", func(r chi.Router) {
			r.Get("/", investments.ListInvestments)
			r.Post("/", investments.CreateInvestment)
			r.Get("/summary", investments.PortfolioSummary)
			r.Put("/{id}", investments.ReplaceInvestment)
			r.Delete("/{id}", investments.DeleteInvestment)
			r.Get("/{id}/history", investments.PriceHistory)
		})

		r.Route("/sips", func(r chi.Router) {
			r.Get("/", sips.ListSIPs)
			r.Post("/", sips.CreateSIP)
			r.Post("/{id}/toggle", sips.ToggleSIP)
			r.Delete("/{id}", sips.DeleteSIP)
		})

		r.Route("/currencies", func(r chi.Router) {
			r.Get("/", currencies.ListCurrencies)
			r.Get("/convert", currencies.Convert)
		})

		r.Route("/advisor", func(r chi.Router) {
			r.Post("/chat", advisorHandler.Chat)
			r.Post("/category", advisorHandler.SuggestCategory)
			r.Post("/symbol", advisorHandler.ValidateSymbol)
			r.Get("/symbols", advisorHandler.SearchSymbols)
			r.Post("/jobs", advisorHandler.EnqueueJob)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobsHandler.ListJobs)
			r.Get("/{id}", jobsHandler.GetJob)
		})

		r.Get("/system/status", system.GetStatus)
	})

	return r
}
