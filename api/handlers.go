/*
handlers.go - HTTP API handlers for the ARL contribution calculator

PURPOSE:
  Exposes the calculator core via REST API. Plays the part of the website
  widget: takes raw form values, hands them to the core untouched, and
  turns every outcome into JSON plus a notification the page can show.

ENDPOINTS:
  Reference data:
    GET    /api/rates             Rate table, sectors, and form limits

  Groups:
    GET    /api/groups            Ordered groups and totals
    POST   /api/groups            Add a group from raw form input
    DELETE /api/groups/{id}       Remove one group
    DELETE /api/groups            Remove every group

  Summary:
    GET    /api/totals            Aggregate totals
    GET    /api/statistics        Extended statistics
    GET    /api/history           Audit log

  Export:
    GET    /api/export/csv        Tabular download
    GET    /api/export/json       Structured download

  Scenarios:
    GET    /api/scenarios         List demo presets
    POST   /api/scenarios/load    Replace the ledger with a preset

ARCHITECTURE:
  Handler holds one Calculator for the whole process (one session) and a
  mutex that serializes every call into it. The core never logs; this
  layer does, and it also feeds the Prometheus metrics.

ERROR HANDLING:
  Errors are returned as JSON with a notification:
  - 400: Malformed body, validation failure
  - 404: Unknown group
  - 409: Duplicate (salary, risk class) pair
  - 422: Nothing to clear or export
  - 500: Engine or storage failure

SEE ALSO:
  - dto.go: Request/response data structures
  - notifications.go: Outcome to status/notification mapping
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/warp/arl-calculator/arl"
	"github.com/warp/arl-calculator/calculator"
	"github.com/warp/arl-calculator/ledger"
	"go.uber.org/zap"
)

// Actions, as they read in "Error while <action>".
const (
	actionAdd        = "adding the employee group"
	actionRemove     = "removing the group"
	actionClear      = "removing the groups"
	actionExportCSV  = "exporting the data"
	actionExportJSON = "exporting the summary"
	actionLoad       = "loading the scenario"
	actionRead       = "reading the ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu   sync.Mutex
	calc *calculator.Calculator

	metrics *Metrics
	logger  *zap.Logger

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler around calc.
func NewHandler(calc *calculator.Calculator, metrics *Metrics, logger *zap.Logger) *Handler {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{calc: calc, metrics: metrics, logger: logger}
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// GetRates returns the rate table and form limits.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	classes := make([]ClassificationDTO, 0, len(arl.Classifications()))
	for _, c := range arl.Classifications() {
		rate, _ := c.Rate()
		classes = append(classes, ClassificationDTO{
			Value: int(c),
			Label: c.Label(),
			Short: c.Short(),
			Rate:  rate,
		})
	}

	sectors := make([]SectorDTO, 0, len(arl.Sectors()))
	for _, s := range arl.Sectors() {
		sectors = append(sectors, SectorDTO{Value: string(s), Label: s.Label()})
	}

	h.writeJSON(w, http.StatusOK, RatesResponse{
		Classifications:      classes,
		Sectors:              sectors,
		MinimumSalary:        arl.MinimumSalary,
		MinimumSalaryText:    arl.FormatCurrency(arl.MinimumSalary),
		MaxEmployeesPerGroup: arl.MaxEmployeesPerGroup,
	})
}

// =============================================================================
// GROUP HANDLERS
// =============================================================================

// ListGroups returns the ordered groups with their totals.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, err := h.ledgerState(r.Context())
	if err != nil {
		h.writeFailure(w, err, actionRead)
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

// AddGroup validates and adds a group from raw form input.
func (h *Handler) AddGroup(w http.ResponseWriter, r *http.Request) {
	var req AddGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:        "Invalid request body",
			Details:      err.Error(),
			Notification: Notification{Type: NotifyError, Message: "Error processing the form"},
		})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	g, err := h.calc.AddGroup(r.Context(), req.raw())
	if err != nil {
		h.metrics.RecordRejected(rejectedField(err))
		h.writeFailure(w, err, actionAdd)
		return
	}
	h.metrics.RecordAdded()
	h.logger.Debug("group added",
		zap.String("group_id", string(g.ID)),
		zap.Int("employees", g.EmployeeCount),
		zap.Int64("monthly_total", int64(g.Contributions.MonthlyTotal)),
	)

	h.writeMutation(r.Context(), w, http.StatusCreated, MutationResponse{
		Notification: groupAdded(g),
		Group:        &g,
	})
}

// RemoveGroup removes one group by identifier.
func (h *Handler) RemoveGroup(w http.ResponseWriter, r *http.Request) {
	id := arl.GroupID(chi.URLParam(r, "id"))

	h.mu.Lock()
	defer h.mu.Unlock()

	g, err := h.calc.RemoveGroup(r.Context(), id)
	if err != nil {
		h.writeFailure(w, err, actionRemove)
		return
	}
	h.metrics.RecordRemoved(1)

	h.writeMutation(r.Context(), w, http.StatusOK, MutationResponse{
		Notification: groupRemoved(g),
		Group:        &g,
		Removed:      1,
	})
}

// ClearGroups removes every group.
func (h *Handler) ClearGroups(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, err := h.calc.ClearAll(r.Context())
	if err != nil {
		h.writeFailure(w, err, actionClear)
		return
	}
	h.metrics.RecordRemoved(n)
	h.currentScenario = ""

	h.writeMutation(r.Context(), w, http.StatusOK, MutationResponse{
		Notification: ledgerCleared(n),
		Removed:      n,
	})
}

// =============================================================================
// SUMMARY HANDLERS
// =============================================================================

// GetTotals returns the aggregate totals.
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	totals, err := h.calc.Aggregate(r.Context())
	if err != nil {
		h.writeFailure(w, err, actionRead)
		return
	}
	h.writeJSON(w, http.StatusOK, totals)
}

// GetStatistics returns the extended statistics.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats, err := h.calc.Statistics(r.Context())
	if err != nil {
		h.writeFailure(w, err, actionRead)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// GetHistory returns the audit log.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.calc.History(r.Context())
	if err != nil {
		h.writeFailure(w, err, actionRead)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// ExportCSV serves the tabular export as a download.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, actionExportCSV, h.calc.ExportTabular)
}

// ExportJSON serves the structured export as a download.
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, actionExportJSON, h.calc.ExportStructured)
}

func (h *Handler) serveExport(w http.ResponseWriter, r *http.Request, action string, render func(context.Context) (calculator.Export, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, err := render(r.Context())
	if err != nil {
		h.writeFailure(w, err, action)
		return
	}
	h.metrics.RecordExport(string(doc.Kind))

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		h.logger.Debug("failed to write export", zap.String("file", doc.Filename), zap.Error(err))
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) ledgerState(ctx context.Context) (LedgerResponse, error) {
	groups, err := h.calc.Snapshot(ctx)
	if err != nil {
		return LedgerResponse{}, err
	}
	h.metrics.SetLedgerSize(len(groups))
	return LedgerResponse{
		Groups: groups,
		Totals: arl.ComputeAggregateTotals(groups),
	}, nil
}

// writeMutation completes resp with the post-mutation ledger state.
func (h *Handler) writeMutation(ctx context.Context, w http.ResponseWriter, status int, resp MutationResponse) {
	state, err := h.ledgerState(ctx)
	if err != nil {
		h.writeFailure(w, err, actionRead)
		return
	}
	resp.LedgerResponse = state
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error, action string) {
	status, n := failure(err, action)

	resp := ErrorResponse{Error: n.Message, Details: err.Error(), Notification: n}
	var vErr *arl.ValidationError
	if errors.As(err, &vErr) {
		resp.Field = vErr.Field
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("calculator operation failed", zap.String("action", action), zap.Error(err))
	} else {
		h.logger.Debug("calculator operation refused", zap.String("action", action), zap.Error(err))
	}
	h.writeJSON(w, status, resp)
}

func rejectedField(err error) string {
	var vErr *arl.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Field
	case errors.Is(err, ledger.ErrDuplicateGroup):
		return arl.FieldDuplicate
	default:
		return "internal"
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Debug("failed to write response", zap.Int("status", status), zap.Error(err))
	}
}
