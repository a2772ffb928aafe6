/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures the calculator widget exchanges with the
  server. Groups, totals, and statistics are served in their core shape;
  everything here wraps them with what the widget needs around a result.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Form:
    FormValue, AddGroupRequest

  Reference data:
    RatesResponse, ClassificationDTO, SectorDTO

  Ledger:
    LedgerResponse, MutationResponse, ErrorResponse

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Nothing is validated here. Form values travel as raw text and are parsed
  and checked by the core, exactly as typed by the user.

SEE ALSO:
  - handlers.go: Uses these types
  - arl/parse.go: Raw form parsing
*/
package api

import (
	"bytes"
	"strconv"

	"github.com/warp/arl-calculator/arl"
)

// =============================================================================
// FORM
// =============================================================================

// FormValue is a form field as typed. It accepts a JSON string ("$ 1.500.000")
// or a bare number (1500000) and keeps the text either way.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		*v = FormValue(b)
	}
	return nil
}

// AddGroupRequest is the calculator form submission.
type AddGroupRequest struct {
	EmployeeCount  FormValue `json:"employeeCount"`
	Salary         FormValue `json:"salary"`
	RiskClass      FormValue `json:"riskClass"`
	EconomicSector FormValue `json:"economicSector"`
}

func (r AddGroupRequest) raw() arl.RawGroupInput {
	return arl.RawGroupInput{
		EmployeeCount:  string(r.EmployeeCount),
		Salary:         string(r.Salary),
		RiskClass:      string(r.RiskClass),
		EconomicSector: string(r.EconomicSector),
	}
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// ClassificationDTO is one option of the risk class select.
type ClassificationDTO struct {
	Value int      `json:"value"`
	Label string   `json:"label"`
	Short string   `json:"short"`
	Rate  arl.Rate `json:"rate"`
}

// SectorDTO is one option of the economic sector select.
type SectorDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RatesResponse carries everything the form needs to render its selects
// and hints.
type RatesResponse struct {
	Classifications      []ClassificationDTO `json:"classifications"`
	Sectors              []SectorDTO         `json:"sectors"`
	MinimumSalary        arl.Money           `json:"minimumSalary"`
	MinimumSalaryText    string              `json:"minimumSalaryText"`
	MaxEmployeesPerGroup int                 `json:"maxEmployeesPerGroup"`
}

// =============================================================================
// LEDGER
// =============================================================================

// LedgerResponse is the full state the widget renders: the ordered groups
// and their totals.
type LedgerResponse struct {
	Groups []arl.EmployeeGroup `json:"groups"`
	Totals arl.AggregateTotals `json:"totals"`
}

// MutationResponse is returned by every state-changing endpoint.
type MutationResponse struct {
	Notification Notification       `json:"notification"`
	Group        *arl.EmployeeGroup `json:"group,omitempty"`
	Removed      int                `json:"removed,omitempty"`
	LedgerResponse
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Error        string       `json:"error"`
	Details      string       `json:"details,omitempty"`
	Field        string       `json:"field,omitempty"`
	Notification Notification `json:"notification"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo preset.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Groups      int    `json:"groups"`
}

// LoadScenarioRequest selects a preset.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}
