// =============================================================================
// Catalog Normalizer - Presence Validation
// =============================================================================
//
// This module checks that the fields every catalog record is expected to
// carry are present before the records are transformed. It does not check
// types or formats; malformed currency values are the transformer's concern.
//
// VALIDATION STRATEGY:
//   - A missing required field is a warning by default. The run continues
//     and the warning is logged.
//   - In strict mode the same finding is an error and aborts the run.
//   - A field holding the null sentinel or a JSON null counts as present.
//     Only an absent key is reported.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/catalog-normalizer/internal/types"
)

// =============================================================================
// SEVERITY LEVELS
// =============================================================================

const (
	// SeverityError aborts processing.
	SeverityError = "error"

	// SeverityWarning is reported but does not abort processing.
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the name of the missing field.
	Field string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// RecordIndex is the 1-based position of the record in the collection.
	RecordIndex int

	// ProductName identifies the record for the operator, if it has one.
	ProductName string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("[%s] Record %d (%s), Field '%s': %s",
			strings.ToUpper(e.Severity), e.RecordIndex, e.ProductName, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] Record %d, Field '%s': %s",
		strings.ToUpper(e.Severity), e.RecordIndex, e.Field, e.Message)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors.
	IsValid bool

	// Errors contains every finding, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of findings with SeverityError.
	ErrorCount int

	// WarningCount is the number of findings with SeverityWarning.
	WarningCount int

	// RecordsValidated is the number of records checked.
	RecordsValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// RequiredFields must be present on every record.
	RequiredFields []string

	// Strict reports missing fields as errors instead of warnings.
	Strict bool

	// StopOnFirstError stops validation after the first error.
	StopOnFirstError bool
}

// Validator performs presence checks on records.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a new Validator.
func NewValidator(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// ValidateAll validates every record and returns a detailed result.
func (v *Validator) ValidateAll(records types.Collection) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(records),
	}

	for i, rec := range records {
		for _, finding := range v.ValidateRecord(i+1, rec) {
			result.Errors = append(result.Errors, finding)

			if finding.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false

				if v.options.StopOnFirstError {
					return result
				}
			} else {
				result.WarningCount++
			}
		}
	}

	return result
}

// ValidateRecord checks a single record.
//
// PARAMETERS:
//   - index: The 1-based position of the record, for reporting.
//   - rec: The record to check.
func (v *Validator) ValidateRecord(index int, rec types.Record) []*ValidationError {
	var findings []*ValidationError

	severity := SeverityWarning
	if v.options.Strict {
		severity = SeverityError
	}

	name, _ := rec[types.FieldProductName].(string)

	for _, field := range v.options.RequiredFields {
		if _, ok := rec[field]; ok {
			continue
		}
		findings = append(findings, &ValidationError{
			Severity:    severity,
			Field:       field,
			Rule:        "required",
			Message:     fmt.Sprintf("Required field '%s' is missing", field),
			RecordIndex: index,
			ProductName: name,
		})
	}

	return findings
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
