/*
Package export renders a ledger snapshot as downloadable documents.

PURPOSE:
  Two renderings of the same ordered group sequence:
    - Tabular: a spreadsheet-friendly CSV with a trailing totals row
    - Structured: an indented JSON summary with metadata and totals

  Both are pure functions of their input. The writers render whatever they
  are given, including an empty sequence; refusing an empty export is the
  caller's decision (see calculator.ExportTabular).

FILE NAMING:
  calculo_arl_<YYYY-MM-DD>.<ext>, the date taken in UTC.

SEE ALSO:
  - tabular.go: CSV rendering
  - structured.go: JSON rendering
*/
package export

import (
	"fmt"
	"time"
)

// Kind selects one of the export renderings.
type Kind string

const (
	KindTabular    Kind = "csv"
	KindStructured Kind = "json"
)

// Extension returns the file extension for k, without the dot.
func (k Kind) Extension() string {
	return string(k)
}

// ContentType returns the MIME type served with k.
func (k Kind) ContentType() string {
	switch k {
	case KindTabular:
		return "text/csv; charset=utf-8"
	case KindStructured:
		return "application/json; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Filename suggests a download name for an export taken at at.
func Filename(kind Kind, at time.Time) string {
	return fmt.Sprintf("calculo_arl_%s.%s", at.UTC().Format("2006-01-02"), kind.Extension())
}
