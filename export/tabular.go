package export

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/warp/arl-calculator/arl"
)

// TabularHeader lists the column titles, in order.
var TabularHeader = []string{
	"Employee Count",
	"Individual Salary",
	"Risk Class",
	"ARL Rate (%)",
	"Monthly Contribution per Employee",
	"Monthly Contribution Total",
	"Annual Contribution Total",
	"Economic Sector",
	"Created At",
}

const (
	unspecifiedSector = "Unspecified"
	missingDate       = "N/A"

	// Day/month/year without padding, as es-CO short dates are written.
	dateLayout = "2/1/2006"
)

// TabularOptions tunes the tabular rendering.
type TabularOptions struct {
	// Location is the zone creation dates are shown in. Defaults to UTC.
	Location *time.Location
}

// WriteTabular writes the header, one row per group, and a totals row.
// Every field is double-quoted and rows are separated by a bare "\n" with
// no trailing newline.
func WriteTabular(w io.Writer, groups []arl.EmployeeGroup, opts TabularOptions) error {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	rows := make([][]string, 0, len(groups)+2)
	rows = append(rows, TabularHeader)
	for _, g := range groups {
		rows = append(rows, groupRow(g, loc))
	}
	rows = append(rows, totalsRow(arl.ComputeAggregateTotals(groups)))

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = quoteRow(row)
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func groupRow(g arl.EmployeeGroup, loc *time.Location) []string {
	sector := unspecifiedSector
	if g.EconomicSector != arl.SectorNone {
		sector = g.EconomicSector.Label()
	}

	created := missingDate
	if !g.CreatedAt.IsZero() {
		created = g.CreatedAt.In(loc).Format(dateLayout)
	}

	return []string{
		strconv.Itoa(g.EmployeeCount),
		money(g.Salary),
		g.RiskClass.Short(),
		g.Contributions.EffectiveRate.String(),
		money(g.Contributions.MonthlyPerEmployee),
		money(g.Contributions.MonthlyTotal),
		money(g.Contributions.AnnualTotal),
		sector,
		created,
	}
}

func totalsRow(t arl.AggregateTotals) []string {
	return []string{
		"TOTAL: " + strconv.Itoa(t.TotalEmployees),
		"", "", "", "",
		money(t.TotalMonthly),
		money(t.TotalAnnual),
		"", "",
	}
}

func money(m arl.Money) string {
	return strconv.FormatInt(int64(m), 10)
}

// quoteRow quotes every field unconditionally. encoding/csv only quotes
// fields that need it, which changes the output for plain numbers.
func quoteRow(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	return b.String()
}
