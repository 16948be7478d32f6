package analysis

import "fmt"

// ValidationError means the caller-supplied options are structurally invalid
// (missing target series, unknown analysis type, empty extracted series).
// It is surfaced immediately and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientDataError means the resolved series has too few points for the
// requested routine. Numerical degeneracies (zero variance, log of zero) are
// deliberately NOT errors; they are epsilon-guarded inside the routines.
type InsufficientDataError struct {
	Required int
	Actual   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data points: need %d, have %d", e.Required, e.Actual)
}
