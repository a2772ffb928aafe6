package arl

import "fmt"

// =============================================================================
// ACCEPTANCE RULES - run before any ledger mutation, never mutate state
// =============================================================================

// IsSalaryAcceptable reports whether salary reaches the legal minimum.
func IsSalaryAcceptable(salary Money) bool {
	return salary >= MinimumSalary
}

// IsEmployeeCountAcceptable reports whether 0 < count <= MaxEmployeesPerGroup.
func IsEmployeeCountAcceptable(count int) bool {
	return count > 0 && count <= MaxEmployeesPerGroup
}

// IsClassificationAcceptable reports whether class is in 1..5.
func IsClassificationAcceptable(class Classification) bool {
	return class >= ClassI && class <= ClassV
}

// IsDuplicateGroup reports whether a group with the same (salary, class)
// pair already exists. Sector is ignored.
func IsDuplicateGroup(existing []EmployeeGroup, salary Money, class Classification) bool {
	for _, g := range existing {
		if g.Salary == salary && g.RiskClass == class {
			return true
		}
	}
	return false
}

// ValidateSubmission runs every rule in a fixed order (count, salary,
// classification, duplicate) and returns the first failure as a
// *ValidationError, or nil.
func ValidateSubmission(existing []EmployeeGroup, in GroupInput) error {
	if !IsEmployeeCountAcceptable(in.EmployeeCount) {
		return &ValidationError{
			Field:   FieldEmployeeCount,
			Message: fmt.Sprintf("please enter a valid number of employees (between 1 and %s)", FormatNumber(MaxEmployeesPerGroup)),
		}
	}
	if in.Salary == 0 || !IsSalaryAcceptable(in.Salary) {
		return &ValidationError{
			Field:   FieldSalary,
			Message: fmt.Sprintf("please enter a valid salary (minimum %s)", FormatCurrency(MinimumSalary)),
		}
	}
	if !IsClassificationAcceptable(in.RiskClass) {
		return &ValidationError{
			Field:   FieldRiskClass,
			Message: "please select a valid risk class",
		}
	}
	if IsDuplicateGroup(existing, in.Salary, in.RiskClass) {
		return &ValidationError{
			Field:   FieldDuplicate,
			Message: "a group with the same salary and risk class already exists",
		}
	}
	return nil
}
