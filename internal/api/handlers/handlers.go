package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/budget"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Clock returns the current time. Handlers never call time.Now directly.
type Clock func() time.Time

// decodeJSON reads a JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

// TransactionStore is the slice of the record store used by TransactionsHandler.
type TransactionStore interface {
	Transactions(ctx context.Context) []domain.Transaction
	AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	ReplaceTransaction(ctx context.Context, id string, tx domain.Transaction) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	store   TransactionStore
	advisor advisor.Advisor
	log     zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler. The advisor
// fills in a category when a new transaction arrives without one.
func NewTransactionsHandler(store TransactionStore, adv advisor.Advisor, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, advisor: adv, log: log}
}

// ListTransactions handles GET /api/transactions
// Optional filters: kind, category (case-insensitive), month (YYYY-MM).
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	kind := domain.TransactionKind(strings.ToUpper(query.Get("kind")))
	categoryKey := ""
	if c := query.Get("category"); c != "" {
		categoryKey = budget.CategoryKey(c)
	}
	var month *time.Time
	if m := query.Get("month"); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		month = &t
	}

	all := h.store.Transactions(r.Context())
	transactions := make([]domain.Transaction, 0, len(all))
	for _, tx := range all {
		if kind != "" && tx.Kind != kind {
			continue
		}
		if categoryKey != "" && budget.CategoryKey(tx.Category) != categoryKey {
			continue
		}
		if month != nil && (tx.Date.Year != month.Year() || tx.Date.Month != month.Month()) {
			continue
		}
		transactions = append(transactions, tx)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx domain.Transaction
	if !decodeJSON(w, r, &tx) {
		return
	}
	tx.ID = ""
	if strings.TrimSpace(tx.Category) == "" {
		tx.Category = h.suggestCategory(r.Context(), tx.Description)
	}

	created, err := h.store.AddTransaction(r.Context(), tx)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "create transaction")
		return
	}

	h.log.Info().Str("transaction_id", created.ID).Str("category", created.Category).Msg("Transaction created")
	middleware.WriteJSON(w, http.StatusCreated, created)
}

func (h *TransactionsHandler) suggestCategory(ctx context.Context, description string) string {
	if strings.TrimSpace(description) == "" {
		return advisor.Uncategorized
	}
	category, err := h.advisor.SuggestCategory(ctx, description)
	if err != nil {
		if !errors.Is(err, advisor.ErrDisabled) {
			h.log.Warn().Err(err).Msg("Category suggestion failed")
		}
		return advisor.Uncategorized
	}
	return category
}

// ReplaceTransaction handles PUT /api/transactions/{id}
func (h *TransactionsHandler) ReplaceTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var tx domain.Transaction
	if !decodeJSON(w, r, &tx) {
		return
	}

	updated, err := h.store.ReplaceTransaction(r.Context(), id, tx)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "replace transaction")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteTransaction(r.Context(), id); err != nil {
		middleware.WriteServiceError(w, r, err, "delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BudgetStore is the slice of the record store used by BudgetsHandler.
type BudgetStore interface {
	Budgets(ctx context.Context) []domain.Budget
	Transactions(ctx context.Context) []domain.Transaction
	UpsertBudget(ctx context.Context, category string, limit decimal.Decimal) (domain.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

// BudgetsHandler handles budget endpoints.
type BudgetsHandler struct {
	store BudgetStore
	now   Clock
}

// NewBudgetsHandler creates a new budgets handler.
func NewBudgetsHandler(store BudgetStore, now Clock) *BudgetsHandler {
	return &BudgetsHandler{store: store, now: now}
}

// ListBudgets handles GET /api/budgets
func (h *BudgetsHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets := h.store.Budgets(r.Context())
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"budgets": budgets,
		"count":   len(budgets),
	})
}

// UpsertBudget handles PUT /api/budgets
func (h *BudgetsHandler) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.store.UpsertBudget(r.Context(), req.Category, req.Limit)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "save budget")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, b)
}

// DeleteBudget handles DELETE /api/budgets/{id}
func (h *BudgetsHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteBudget(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.WriteServiceError(w, r, err, "delete budget")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AnalyzeBudgets handles GET /api/budgets/analysis
func (h *BudgetsHandler) AnalyzeBudgets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	analyses, err := budget.Analyze(h.store.Budgets(ctx), h.store.Transactions(ctx), h.now())
	if err != nil {
		middleware.WriteServiceError(w, r, err, "analyze budgets")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"budgets":   analyses,
		"overspend": budget.Overspend(analyses),
	})
}

// AccountStore is the slice of the record store used by AccountsHandler.
type AccountStore interface {
	Accounts(ctx context.Context) []domain.BankAccount
	AddAccount(ctx context.Context, a domain.BankAccount) (domain.BankAccount, error)
	DeleteAccount(ctx context.Context, id string) error
}

// AccountsHandler handles linked account endpoints.
type AccountsHandler struct {
	store AccountStore
	now   Clock
	log   zerolog.Logger
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(store AccountStore, now Clock, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{store: store, now: now, log: log}
}

// ListAccounts handles GET /api/accounts
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.store.Accounts(r.Context())
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// CreateAccount handles POST /api/accounts
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var a domain.BankAccount
	if !decodeJSON(w, r, &a) {
		return
	}
	a.ID = ""
	if a.LastSynced.IsZero() {
		a.LastSynced = h.now()
	}

	created, err := h.store.AddAccount(r.Context(), a)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "link account")
		return
	}
	h.log.Info().Str("account_id", created.ID).Str("institution", created.Institution).Msg("Account linked")
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// DeleteAccount handles DELETE /api/accounts/{id}
func (h *AccountsHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.WriteServiceError(w, r, err, "unlink account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
