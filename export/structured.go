package export

import (
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/warp/arl-calculator/arl"
)

const (
	CalculatorName    = "Ubuntu Seguros ARL Calculator"
	CalculatorVersion = "2.0.0"
)

// Summary is the structured export document.
type Summary struct {
	ExportDate string              `json:"exportDate"`
	Calculator string              `json:"calculator"`
	Version    string              `json:"version"`
	Totals     arl.AggregateTotals `json:"totals"`
	Groups     []arl.EmployeeGroup `json:"groups"`
}

// NewSummary builds the document for groups exported at exportedAt.
func NewSummary(groups []arl.EmployeeGroup, exportedAt time.Time) Summary {
	if groups == nil {
		groups = []arl.EmployeeGroup{}
	}
	return Summary{
		ExportDate: exportedAt.UTC().Format(arl.TimestampLayout),
		Calculator: CalculatorName,
		Version:    CalculatorVersion,
		Totals:     arl.ComputeAggregateTotals(groups),
		Groups:     groups,
	}
}

// WriteStructured writes the summary as JSON indented by two spaces.
func WriteStructured(w io.Writer, groups []arl.EmployeeGroup, exportedAt time.Time) error {
	b, err := json.MarshalIndent(NewSummary(groups, exportedAt), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
