/*
scenarios.go - Demo presets for the calculator

PURPOSE:
  Pre-built payrolls that fill the ledger with realistic groups for demos
  and manual testing. Each preset goes through the same path as a typed
  form: raw strings in, parsed, validated, priced.

AVAILABLE SCENARIOS:
  retail-shop:        Small commerce business, all Class I
  food-plant:         Food processing plant across three risk classes
  construction-site:  Construction crew with mostly Class V workers

HOW SCENARIOS WORK:
  1. Clear the ledger (an already empty ledger is fine)
  2. Submit every preset group through Calculator.AddGroup
  3. Remember the loaded preset for GET /api/scenarios/current

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "food-plant"}

NOTE:
  Loading a scenario replaces every group in the session.

SEE ALSO:
  - handlers.go: Group handlers
  - calculator/calculator.go: AddGroup
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/warp/arl-calculator/arl"
	"github.com/warp/arl-calculator/ledger"
	"go.uber.org/zap"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	groups []arl.RawGroupInput
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "retail-shop",
			Name:        "Retail Shop",
			Description: "Small commerce business with sales staff and a manager",
		},
		groups: []arl.RawGroupInput{
			{EmployeeCount: "3", Salary: "$ 1.500.000", RiskClass: "1", EconomicSector: "commerce"},
			{EmployeeCount: "1", Salary: "$ 2.800.000", RiskClass: "1", EconomicSector: "commerce"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "food-plant",
			Name:        "Food Plant",
			Description: "Line operators, maintenance, and administration of a food processor",
		},
		groups: []arl.RawGroupInput{
			{EmployeeCount: "40", Salary: "$ 1.450.000", RiskClass: "3", EconomicSector: "food"},
			{EmployeeCount: "6", Salary: "$ 2.100.000", RiskClass: "2", EconomicSector: "food"},
			{EmployeeCount: "1", Salary: "$ 6.000.000", RiskClass: "1", EconomicSector: "food"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "construction-site",
			Name:        "Construction Site",
			Description: "Construction crew at heights, machine operators, and site engineers",
		},
		groups: []arl.RawGroupInput{
			{EmployeeCount: "25", Salary: "$ 1.300.000", RiskClass: "5", EconomicSector: "oil"},
			{EmployeeCount: "4", Salary: "$ 2.400.000", RiskClass: "4", EconomicSector: "oil"},
			{EmployeeCount: "2", Salary: "$ 4.500.000", RiskClass: "1", EconomicSector: "oil"},
		},
	},
}

func init() {
	for i := range scenarios {
		scenarios[i].Groups = len(scenarios[i].groups)
	}
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	s, ok := findScenario(current)
	if !ok {
		h.writeJSON(w, http.StatusOK, nil)
		return
	}
	h.writeJSON(w, http.StatusOK, s.ScenarioDTO)
}

// LoadScenario replaces the ledger with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:        "Invalid request body",
			Details:      err.Error(),
			Notification: Notification{Type: NotifyError, Message: "Error processing the request"},
		})
		return
	}

	s, ok := findScenario(req.ScenarioID)
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:        "Unknown scenario",
			Notification: Notification{Type: NotifyWarning, Message: fmt.Sprintf("Unknown scenario %q", req.ScenarioID)},
		})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.loadScenario(ctx, s); err != nil {
		h.writeFailure(w, err, actionLoad)
		return
	}
	h.currentScenario = s.ID
	h.logger.Info("scenario loaded", zap.String("scenario", s.ID), zap.Int("groups", len(s.groups)))

	h.writeMutation(ctx, w, http.StatusOK, MutationResponse{
		Notification: scenarioLoaded(s.ScenarioDTO),
	})
}

// =============================================================================
// SCENARIO LOADER
// =============================================================================

// loadScenario must be called with h.mu held.
func (h *Handler) loadScenario(ctx context.Context, s scenario) error {
	n, err := h.calc.ClearAll(ctx)
	if err != nil && !errors.Is(err, ledger.ErrLedgerEmpty) {
		return err
	}
	h.metrics.RecordRemoved(n)
	h.currentScenario = ""

	for _, raw := range s.groups {
		if _, err := h.calc.AddGroup(ctx, raw); err != nil {
			return fmt.Errorf("scenario %s: %w", s.ID, err)
		}
		h.metrics.RecordAdded()
	}
	return nil
}
