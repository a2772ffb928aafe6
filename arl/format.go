package arl

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale drives thousands grouping in user-facing text.
var Locale = language.MustParse("es-CO")

// FormatNumber renders n with the locale's grouping, e.g. 9.999.
func FormatNumber(n int64) string {
	return message.NewPrinter(Locale).Sprintf("%d", n)
}

// FormatCurrency renders m as a peso amount without subunits.
func FormatCurrency(m Money) string {
	return "$ " + FormatNumber(int64(m))
}
