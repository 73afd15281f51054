// Package handler contains the HTTP surface of the linesheet portal.
//
// Routes:
//   - GET  /api/linesheet/state            -> HandleState
//   - POST /api/linesheet/selection/all    -> HandleSelectAll
//   - POST /api/linesheet/selection/none   -> HandleDeselectAll
//   - POST /api/linesheet/selection/toggle -> HandleToggle
//   - POST /api/linesheet/generate         -> HandleGenerate
//   - GET  /api/linesheet/history          -> HandleHistory
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/b2bdata"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/feedback"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/linesheet"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/metrics"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/repository"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/selection"
)

// HistoryLister loads past generations for a location.
type HistoryLister interface {
	ListGenerationsByLocation(ctx context.Context, locationID string, limit int) ([]repository.GenerationRecord, error)
}

// LinesheetHandler serves the linesheet portal API. It owns the loaded
// business data and keeps the selection store in sync with it.
type LinesheetHandler struct {
	client       *b2bdata.Client
	selection    *selection.Store
	feedback     *feedback.Machine
	orchestrator *linesheet.Orchestrator
	history      HistoryLister // may be nil
	identity     domain.Identity
	logger       *slog.Logger

	mu   sync.Mutex
	data *domain.BusinessData
}

// NewLinesheetHandler creates the portal handler. history may be nil when no
// database is configured; the history endpoint then returns 404.
func NewLinesheetHandler(
	client *b2bdata.Client,
	sel *selection.Store,
	fb *feedback.Machine,
	orch *linesheet.Orchestrator,
	history HistoryLister,
	identity domain.Identity,
	logger *slog.Logger,
) *LinesheetHandler {
	return &LinesheetHandler{
		client:       client,
		selection:    sel,
		feedback:     fb,
		orchestrator: orch,
		history:      history,
		identity:     identity,
		logger:       logger,
	}
}

// RegisterRoutes registers the portal routes on the provided mux. The
// generate route is registered separately so main can wrap it with rate
// limiting.
func (h *LinesheetHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/linesheet/state", h.HandleState)
	mux.HandleFunc("POST /api/linesheet/selection/all", h.HandleSelectAll)
	mux.HandleFunc("POST /api/linesheet/selection/none", h.HandleDeselectAll)
	mux.HandleFunc("POST /api/linesheet/selection/toggle", h.HandleToggle)
	mux.HandleFunc("GET /api/linesheet/history", h.HandleHistory)
}

// =============================================================================
// State
// =============================================================================

type catalogView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SeasonYear   string `json:"seasonYear,omitempty"`
	ProductCount int    `json:"productCount"`
	Selected     bool   `json:"selected"`
}

type stateResponse struct {
	Company         domain.Company    `json:"company"`
	Catalogs        []catalogView     `json:"catalogs"`
	SelectedCount   int               `json:"selectedCount"`
	Feedback        feedback.Snapshot `json:"feedback"`
	TriggersEnabled bool              `json:"triggersEnabled"`
}

// HandleState returns the full portal state: company, catalogs with their
// selection flags, feedback, and whether generation is currently possible.
// Business data is loaded on first access; ?reload=true forces a refetch.
func (h *LinesheetHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	reload := r.URL.Query().Get("reload") == "true"

	data, err := h.ensureData(r, reload)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.writeState(w, r, data)
}

func (h *LinesheetHandler) writeState(w http.ResponseWriter, r *http.Request, data *domain.BusinessData) {
	catalogs := make([]catalogView, 0, len(data.Catalogs))
	for _, c := range data.Catalogs {
		catalogs = append(catalogs, catalogView{
			ID:           c.ID,
			Name:         c.Name,
			SeasonYear:   c.SeasonYear,
			ProductCount: c.ProductCount(),
			Selected:     h.selection.IsSelected(c.ID),
		})
	}

	writeJSON(w, http.StatusOK, stateResponse{
		Company:         data.Company,
		Catalogs:        catalogs,
		SelectedCount:   h.selection.Count(),
		Feedback:        h.feedback.State(),
		TriggersEnabled: h.orchestrator.TriggersEnabled(),
	})
}

// =============================================================================
// Selection
// =============================================================================

// HandleSelectAll selects every catalog.
func (h *LinesheetHandler) HandleSelectAll(w http.ResponseWriter, r *http.Request) {
	data, err := h.ensureData(r, false)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.selection.SelectAll()
	metrics.SelectionMutations.WithLabelValues("all").Inc()
	h.writeState(w, r, data)
}

// HandleDeselectAll clears the selection.
func (h *LinesheetHandler) HandleDeselectAll(w http.ResponseWriter, r *http.Request) {
	data, err := h.ensureData(r, false)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.selection.DeselectAll()
	metrics.SelectionMutations.WithLabelValues("none").Inc()
	h.writeState(w, r, data)
}

type toggleRequest struct {
	CatalogID string `json:"catalogId"`
}

// HandleToggle flips the selection state of one catalog. Unknown catalog ids
// are ignored; the response reflects the unchanged state.
func (h *LinesheetHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.HandleToggle", "invalid request body"))
		return
	}
	if req.CatalogID == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.HandleToggle", "catalogId is required"))
		return
	}

	data, err := h.ensureData(r, false)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.selection.Toggle(req.CatalogID)
	metrics.SelectionMutations.WithLabelValues("toggle").Inc()
	h.writeState(w, r, data)
}

// =============================================================================
// Generate
// =============================================================================

// HandleGenerate runs a generation and streams the resulting file as an
// attachment. The output query parameter selects combined (default) or
// separate mode.
func (h *LinesheetHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	output := domain.OutputType(r.URL.Query().Get("output"))
	if output == "" {
		output = domain.OutputCombined
	}
	if !output.Valid() {
		ErrorResponse(w, r, h.logger,
			domain.Invalid("handler.HandleGenerate", fmt.Sprintf("unknown output type: %s", output)))
		return
	}

	data, err := h.ensureData(r, false)
	if err != nil {
		// The orchestrator reports load failures through the feedback
		// machine so the portal shows them.
		h.feedback.Fail(domain.ErrorMessage(err))
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var outcome *domain.DeliveryOutcome
	switch output {
	case domain.OutputSeparate:
		outcome, err = h.orchestrator.RunSeparate(r.Context(), data)
	default:
		outcome, err = h.orchestrator.RunCombined(r.Context(), data)
	}
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", outcome.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outcome.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(outcome.Bytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(outcome.Bytes)
}

// =============================================================================
// History
// =============================================================================

type historyResponse struct {
	Generations []repository.GenerationRecord `json:"generations"`
}

// HandleHistory lists past generations for this location, newest first.
func (h *LinesheetHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		ErrorResponse(w, r, h.logger,
			domain.Errorf(domain.ENOTFOUND, "handler.HandleHistory", "generation history is not available"))
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			ErrorResponse(w, r, h.logger, domain.Invalid("handler.HandleHistory", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	records, err := h.history.ListGenerationsByLocation(r.Context(), h.identity.LocationID, limit)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Generations: records})
}

// =============================================================================
// Internal Helpers
// =============================================================================

// ensureData returns the loaded business data, fetching it from the upstream
// service when absent or when force is set. A fresh load resets the
// selection to everything selected.
func (h *LinesheetHandler) ensureData(r *http.Request, force bool) (*domain.BusinessData, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.data != nil && !force {
		return h.data, nil
	}

	data, err := h.client.Load(r.Context(), h.identity)
	if err != nil {
		metrics.DataLoads.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.DataLoads.WithLabelValues("ok").Inc()

	h.data = data
	h.selection.SetCatalogs(data.CatalogIDs())

	h.logger.Info("business data loaded",
		"location_id", h.identity.LocationID,
		"company", data.Company.Name,
		"catalogs", len(data.Catalogs),
	)

	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
