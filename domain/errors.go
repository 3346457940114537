package domain

import (
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeParseFailure      = "PARSE_FAILURE"
	ErrCodeAnalysisError     = "ANALYSIS_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeRuleAmbiguity     = "RULE_AMBIGUITY"
	ErrCodePlanConflict      = "PLAN_CONFLICT"
	ErrCodeValidationFailure = "VALIDATION_FAILURE"
	ErrCodeExecutionFailure  = "EXECUTION_FAILURE"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewParseFailureError creates a parse failure error for a single file
func NewParseFailureError(file string, cause error) error {
	return NewDomainError(ErrCodeParseFailure, fmt.Sprintf("failed to parse file: %s", file), cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewRuleAmbiguityError creates an error for ambiguous rule resolution.
// Resolution is deterministic by contract, so seeing one of these means a
// broken internal invariant, not bad user input.
func NewRuleAmbiguityError(path string) error {
	return NewDomainError(ErrCodeRuleAmbiguity, fmt.Sprintf("ambiguous rule resolution for: %s", path), nil)
}

// NewPlanConflictError creates an error for conflicting move targets
func NewPlanConflictError(target string) error {
	return NewDomainError(ErrCodePlanConflict, fmt.Sprintf("multiple sources resolve to target: %s", target), nil)
}

// NewValidationFailureError creates a plan validation error
func NewValidationFailureError(message string) error {
	return NewDomainError(ErrCodeValidationFailure, message, nil)
}

// NewExecutionFailureError creates an error for a failed move operation
func NewExecutionFailureError(source string, cause error) error {
	return NewDomainError(ErrCodeExecutionFailure, fmt.Sprintf("failed to move: %s", source), cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}
