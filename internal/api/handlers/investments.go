package handlers

import (
	"context"
	"math/rand"
	"net/http"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/charts"
	"github.com/dvloznov/finance-dashboard/internal/currency"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/valuation"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// InvestmentStore is the slice of the record store used by InvestmentsHandler.
type InvestmentStore interface {
	Investments(ctx context.Context) []domain.Investment
	GetInvestment(ctx context.Context, id string) (domain.Investment, error)
	AddInvestment(ctx context.Context, inv domain.Investment) (domain.Investment, error)
	ReplaceInvestment(ctx context.Context, id string, inv domain.Investment) (domain.Investment, error)
	DeleteInvestment(ctx context.Context, id string) error
}

// InvestmentsHandler handles portfolio holding endpoints.
type InvestmentsHandler struct {
	store     InvestmentStore
	converter *currency.Converter
	now       Clock
	newRand   func() *rand.Rand
	log       zerolog.Logger
}

// NewInvestmentsHandler creates a new investments handler. newRand supplies
// the source for synthetic price charts.
func NewInvestmentsHandler(store InvestmentStore, converter *currency.Converter, now Clock, newRand func() *rand.Rand, log zerolog.Logger) *InvestmentsHandler {
	return &InvestmentsHandler{store: store, converter: converter, now: now, newRand: newRand, log: log}
}

// ListInvestments handles GET /api/investments
func (h *InvestmentsHandler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	investments := h.store.Investments(r.Context())
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"investments": investments,
		"count":       len(investments),
	})
}

// CreateInvestment handles POST /api/investments
func (h *InvestmentsHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var inv domain.Investment
	if !decodeJSON(w, r, &inv) {
		return
	}
	inv.ID = ""

	created, err := h.store.AddInvestment(r.Context(), inv)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "add investment")
		return
	}
	h.log.Info().Str("investment_id", created.ID).Str("symbol", created.Symbol).Msg("Investment added")
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// ReplaceInvestment handles PUT /api/investments/{id}
func (h *InvestmentsHandler) ReplaceInvestment(w http.ResponseWriter, r *http.Request) {
	var inv domain.Investment
	if !decodeJSON(w, r, &inv) {
		return
	}

	updated, err := h.store.ReplaceInvestment(r.Context(), chi.URLParam(r, "id"), inv)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "replace investment")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
}

// DeleteInvestment handles DELETE /api/investments/{id}
func (h *InvestmentsHandler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteInvestment(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.WriteServiceError(w, r, err, "delete investment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PortfolioTotals are the portfolio totals in the display currency.
type PortfolioTotals struct {
	TotalValue decimal.Decimal `json:"total_value"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	TotalGain  decimal.Decimal `json:"total_gain"`
}

// PortfolioSummary handles GET /api/investments/summary?currency=
// Holdings stay in USD; the totals are also given in the display currency.
func (h *InvestmentsHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	meta, err := h.converter.Meta(currencyParam(r))
	if err != nil {
		middleware.WriteServiceError(w, r, err, "summarize portfolio")
		return
	}

	summary, err := valuation.Summarize(h.store.Investments(r.Context()))
	if err != nil {
		middleware.WriteServiceError(w, r, err, "summarize portfolio")
		return
	}

	var totals PortfolioTotals
	for _, f := range []struct {
		dst *decimal.Decimal
		usd decimal.Decimal
	}{
		{&totals.TotalValue, summary.TotalValue},
		{&totals.TotalCost, summary.TotalCost},
		{&totals.TotalGain, summary.TotalGain},
	} {
		if *f.dst, err = h.converter.Convert(f.usd, meta.Code); err != nil {
			middleware.WriteServiceError(w, r, err, "summarize portfolio")
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"summary":  summary,
		"currency": meta,
		"totals":   totals,
		"formatted": map[string]string{
			"total_value": currency.Format(totals.TotalValue, meta),
			"total_cost":  currency.Format(totals.TotalCost, meta),
			"total_gain":  currency.Format(totals.TotalGain, meta),
		},
	})
}

// PriceHistory handles GET /api/investments/{id}/history?range=
func (h *InvestmentsHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	rangeName := r.URL.Query().Get("range")
	if rangeName == "" {
		rangeName = string(charts.Range1M)
	}
	rng, err := charts.ParseRange(rangeName)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "build price history")
		return
	}

	inv, err := h.store.GetInvestment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteServiceError(w, r, err, "build price history")
		return
	}

	points, err := charts.PriceHistory(inv.CurrentPrice, rng, h.now(), h.newRand())
	if err != nil {
		middleware.WriteServiceError(w, r, err, "build price history")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"investment_id": inv.ID,
		"symbol":        inv.Symbol,
		"range":         rng,
		"points":        points,
		"stats":         charts.Stats(points),
	})
}

// SIPStore is the slice of the record store used by SIPsHandler.
type SIPStore interface {
	SIPs(ctx context.Context) []domain.SIP
	AddSIP(ctx context.Context, sip domain.SIP) (domain.SIP, error)
	ToggleSIP(ctx context.Context, id string) (domain.SIP, error)
	DeleteSIP(ctx context.Context, id string) error
}

// SIPsHandler handles systematic investment plan endpoints.
type SIPsHandler struct {
	store SIPStore
	log   zerolog.Logger
}

// NewSIPsHandler creates a new SIPs handler.
func NewSIPsHandler(store SIPStore, log zerolog.Logger) *SIPsHandler {
	return &SIPsHandler{store: store, log: log}
}

// ListSIPs handles GET /api/sips
func (h *SIPsHandler) ListSIPs(w http.ResponseWriter, r *http.Request) {
	sips := h.store.SIPs(r.Context())
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"sips":  sips,
		"count": len(sips),
	})
}

// CreateSIP handles POST /api/sips
func (h *SIPsHandler) CreateSIP(w http.ResponseWriter, r *http.Request) {
	var sip domain.SIP
	if !decodeJSON(w, r, &sip) {
		return
	}
	sip.ID = ""

	created, err := h.store.AddSIP(r.Context(), sip)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "create SIP")
		return
	}
	h.log.Info().Str("sip_id", created.ID).Str("frequency", string(created.Frequency)).Msg("SIP created")
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// ToggleSIP handles POST /api/sips/{id}/toggle
func (h *SIPsHandler) ToggleSIP(w http.ResponseWriter, r *http.Request) {
	sip, err := h.store.ToggleSIP(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteServiceError(w, r, err, "toggle SIP")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sip)
}

// DeleteSIP handles DELETE /api/sips/{id}
func (h *SIPsHandler) DeleteSIP(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSIP(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.WriteServiceError(w, r, err, "delete SIP")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
