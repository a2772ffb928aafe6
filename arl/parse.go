package arl

import (
	"strconv"
	"strings"
	"unicode"
)

// RawGroupInput is the unvalidated form as the host collected it.
// Salary may carry currency symbols and thousands separators.
type RawGroupInput struct {
	EmployeeCount  string
	Salary         string
	RiskClass      string
	EconomicSector string
}

// ParseGroupInput converts raw form values. It never fails: unparsable
// numbers become 0 and are caught by ValidateSubmission.
func ParseGroupInput(raw RawGroupInput) GroupInput {
	return GroupInput{
		EmployeeCount:  int(parseLeadingInt(raw.EmployeeCount)),
		Salary:         ParseCurrency(raw.Salary),
		RiskClass:      Classification(parseLeadingInt(raw.RiskClass)),
		EconomicSector: Sector(strings.ToLower(strings.TrimSpace(raw.EconomicSector))),
	}
}

// ParseCurrency keeps only the digits of s, so "$ 1.500.000" is 1500000.
// Empty or overflowing input yields 0.
func ParseCurrency(s string) Money {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return Money(n)
}

// parseLeadingInt reads an optionally signed integer prefix after leading
// whitespace: "12 people" is 12, "3.7" is 3, "abc" is 0.
func parseLeadingInt(s string) int64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
