package handlers

import (
	"net/http"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdvisorHandler handles the synchronous advisor endpoints and enqueues the
// slow ones as jobs.
type AdvisorHandler struct {
	advisor   advisor.Advisor
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewAdvisorHandler creates a new advisor handler.
func NewAdvisorHandler(adv advisor.Advisor, publisher jobs.Publisher, log zerolog.Logger) *AdvisorHandler {
	return &AdvisorHandler{advisor: adv, publisher: publisher, log: log}
}

// Chat handles POST /api/advisor/chat
func (h *AdvisorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		History []domain.ChatMessage `json:"history"`
		Message string               `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.advisor.Chat(r.Context(), req.History, req.Message)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "chat")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, domain.ChatMessage{Role: domain.RoleModel, Text: reply})
}

// SuggestCategory handles POST /api/advisor/category
func (h *AdvisorHandler) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.advisor.SuggestCategory(r.Context(), req.Description)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "suggest category")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"category": category})
}

// ValidateSymbol handles POST /api/advisor/symbol
func (h *AdvisorHandler) ValidateSymbol(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Symbol) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	check, err := h.advisor.ValidateSymbol(r.Context(), req.Symbol)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "validate symbol")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, check)
}

// SearchSymbols handles GET /api/advisor/symbols?q=
func (h *AdvisorHandler) SearchSymbols(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		middleware.WriteJSON(w, http.StatusOK, map[string]any{"matches": []advisor.SymbolMatch{}, "count": 0})
		return
	}

	matches, err := h.advisor.SearchSymbols(r.Context(), q)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "search symbols")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// EnqueueJob handles POST /api/advisor/jobs
func (h *AdvisorHandler) EnqueueJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type jobs.JobType `json:"type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Type.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "type must be tax_scan or portfolio_analysis")
		return
	}

	// The queue owns job after Publish; only its ID is read back.
	job := &jobs.Job{Type: req.Type}
	if err := h.publisher.Publish(r.Context(), job); err != nil {
		middleware.WriteServiceError(w, r, err, "enqueue job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("job_type", string(req.Type)).Msg("Advisor job enqueued")
	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(jobs.JobStatusPending),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore) *JobsHandler {
	return &JobsHandler{store: store}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.store.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteServiceError(w, r, err, "get job")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Type:   jobs.JobType(query.Get("type")),
		Status: jobs.JobStatus(query.Get("status")),
	}

	var err error
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		middleware.WriteServiceError(w, r, err, "list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
