/*
errors.go - Centralized error types

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these with context; callers test with errors.Is.

ERROR TIERS:
  1. Collaborator - the document could not be decoded
  2. Parser       - employee row missing, or present with no shifts
  3. Engine       - malformed HH:MM input

  Everything surfaces to the display layer as message text only.

SEE ALSO:
  - roster/importer.go: raises tiers 1 and 2
  - allowance/engine.go: raises tier 3
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDocumentUnreadable is returned when the roster document cannot be
	// decoded. No partial text is ever returned alongside it.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrEmployeeNotFound is returned when no roster row matches the employee.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrEmptySchedule is returned when the employee row holds no shift codes.
	ErrEmptySchedule = errors.New("no shifts found for this employee")

	// ErrParse is returned for malformed dates or HH:MM times.
	ErrParse = errors.New("parse error")

	// ErrInvalidInput is returned when a request is missing required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrShiftNotFound is returned when a referenced shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrInvalidBackup is returned when a backup document is corrupt.
	ErrInvalidBackup = errors.New("invalid or corrupt backup file")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ParseError describes a value that could not be parsed.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Input)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// DocumentError records which page failed to decode.
type DocumentError struct {
	Page int // 1-based; 0 when the document itself could not be opened
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Page == 0 {
		return fmt.Sprintf("%v: %v", ErrDocumentUnreadable, e.Err)
	}
	return fmt.Sprintf("%v: page %d: %v", ErrDocumentUnreadable, e.Page, e.Err)
}

func (e *DocumentError) Unwrap() []error { return []error{ErrDocumentUnreadable, e.Err} }

// EmployeeNotFoundError names the employee that was searched for and, when a
// row looks close, the best candidate.
type EmployeeNotFoundError struct {
	FirstName  string
	LastName   string
	Suggestion string
}

func (e *EmployeeNotFoundError) Error() string {
	msg := fmt.Sprintf("employee %q not found", e.FirstName+" "+e.LastName)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (closest row: %q)", e.Suggestion)
	}
	return msg
}

func (e *EmployeeNotFoundError) Unwrap() error { return ErrEmployeeNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the user can fix the error by changing input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDocumentUnreadable) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrEmptySchedule) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidBackup)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound)
}
