package evaluation

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStage    = errors.New("unknown evaluation stage")
	ErrUnknownDecision = errors.New("unknown decision")
	ErrNoNumericGate   = errors.New("stage has no numeric gate")
	ErrStageMismatch   = errors.New("idea is not at the stage being evaluated")
	ErrStageClosed     = errors.New("idea is no longer open for evaluation at this stage")
)

// ValidationError reports a rejected input field. Callers surface it to the
// user and must not substitute a default.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
