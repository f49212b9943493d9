package tracking

import "errors"

var (
	// ErrCaseNotFound is returned when the case ID is unknown.
	ErrCaseNotFound = errors.New("case not found")

	// ErrNotAuthorized is returned when the case exists but the requesting
	// identity is not in its authorized set. Callers must not leak case
	// contents alongside this error.
	ErrNotAuthorized = errors.New("not authorized to view case")

	// ErrNotEscalatable is returned when a case is Resolved or has reached
	// the escalation cap.
	ErrNotEscalatable = errors.New("case cannot be escalated")

	// ErrInvalidInput is returned when the escalation target or reason
	// fails validation.
	ErrInvalidInput = errors.New("invalid escalation input")
)
