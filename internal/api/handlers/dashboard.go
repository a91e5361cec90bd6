package handlers

import (
	"net/http"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/currency"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/shopspring/decimal"
)

// currencyParam returns the currency query parameter, defaulting to USD.
func currencyParam(r *http.Request) string {
	if code := r.URL.Query().Get("currency"); code != "" {
		return code
	}
	return currency.Base
}

// DashboardHandler serves the composed dashboard summary.
type DashboardHandler struct {
	service *dashboard.Service
	now     Clock
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service *dashboard.Service, now Clock) *DashboardHandler {
	return &DashboardHandler{service: service, now: now}
}

// GetSummary handles GET /api/dashboard?currency=
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), h.now(), currencyParam(r))
	if err != nil {
		middleware.WriteServiceError(w, r, err, "build dashboard")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, summary)
}

// CurrenciesHandler exposes the currency converter.
type CurrenciesHandler struct {
	converter *currency.Converter
}

// NewCurrenciesHandler creates a new currencies handler.
func NewCurrenciesHandler(converter *currency.Converter) *CurrenciesHandler {
	return &CurrenciesHandler{converter: converter}
}

type currencyInfo struct {
	currency.Meta
	Rate decimal.Decimal `json:"rate"`
}

// ListCurrencies handles GET /api/currencies
func (h *CurrenciesHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	codes := h.converter.Codes()
	list := make([]currencyInfo, 0, len(codes))
	for _, code := range codes {
		meta, err := h.converter.Meta(code)
		if err != nil {
			middleware.WriteServiceError(w, r, err, "list currencies")
			return
		}
		rate, err := h.converter.Rate(code)
		if err != nil {
			middleware.WriteServiceError(w, r, err, "list currencies")
			return
		}
		list = append(list, currencyInfo{Meta: meta, Rate: rate})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"base":       currency.Base,
		"currencies": list,
		"count":      len(list),
	})
}

// Convert handles GET /api/currencies/convert?amount=&to=
// amount is in USD.
func (h *CurrenciesHandler) Convert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	amount, err := decimal.NewFromString(query.Get("amount"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "amount must be a decimal number")
		return
	}
	to := query.Get("to")
	if to == "" {
		middleware.WriteError(w, http.StatusBadRequest, "to is required")
		return
	}

	meta, err := h.converter.Meta(to)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "convert")
		return
	}
	converted, err := h.converter.Convert(amount, meta.Code)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "convert")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"amount":    amount,
		"from":      currency.Base,
		"to":        meta.Code,
		"converted": converted,
		"formatted": currency.Format(converted, meta),
	})
}
