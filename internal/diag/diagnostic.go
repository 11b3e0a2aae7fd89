// SPDX-License-Identifier: MPL-2.0

// Package diag defines structured, non-fatal diagnostics that pipeline
// services return to the command layer instead of writing to the terminal.
package diag

import (
	"errors"
	"fmt"
)

const (
	// SeverityWarning indicates a recoverable per-file problem.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a per-file failure that makes the run exit non-zero
	// once the batch completes.
	SeverityError Severity = "error"
)

const (
	// CodeMalformedTree is reported when a file cannot be parsed or does not
	// return a nested array.
	CodeMalformedTree Code = "malformed_tree"
	// CodeUnreadableFile is reported when a file cannot be read.
	CodeUnreadableFile Code = "unreadable_file"
	// CodeWriteFailed is reported when a synthesized file cannot be written.
	CodeWriteFailed Code = "write_failed"
	// CodeSynthesisFailed is reported when a reference tree cannot be synthesized.
	CodeSynthesisFailed Code = "synthesis_failed"
	// CodeConfigUnreadable is reported when the Laravel config file cannot be
	// used and defaults apply.
	CodeConfigUnreadable Code = "config_unreadable"
	// CodePriorRegistryInvalid is reported when existing locked_keys cannot be
	// interpreted and are ignored.
	CodePriorRegistryInvalid Code = "prior_registry_invalid"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidCode is the sentinel error wrapped by InvalidCodeError.
	ErrInvalidCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Code is a machine-readable diagnostic identifier.
	Code string

	// Diagnostic is one structured, non-fatal problem found during a run.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "malformed_tree").
		Code Code
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic.
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// InvalidSeverityError is returned when a Severity is not a known level.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidCodeError is returned when a Code is not a known identifier.
	InvalidCodeError struct {
		Value Code
	}
)

// Warning builds a warning diagnostic.
func Warning(code Code, path, message string, cause error) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Path: path, Cause: cause}
}

// Failure builds an error diagnostic.
func Failure(code Code, path, message string, cause error) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: message, Path: path, Cause: cause}
}

// IsValid returns whether the Severity is a known level.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// IsValid returns whether the Code is a known identifier.
func (c Code) IsValid() (bool, []error) {
	switch c {
	case CodeMalformedTree, CodeUnreadableFile, CodeWriteFailed, CodeSynthesisFailed,
		CodeConfigUnreadable, CodePriorRegistryInvalid:
		return true, nil
	default:
		return false, []error{&InvalidCodeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid diagnostic severity %q (valid: warning, error)", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// Error implements the error interface.
func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidCode for errors.Is() compatibility.
func (e *InvalidCodeError) Unwrap() error { return ErrInvalidCode }

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
