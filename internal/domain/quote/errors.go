package quote

import (
	"errors"
	"fmt"

	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
)

// ValidationError reports a numeric input the estimator cannot work with.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	verr := &ValidationError{Field: field, Reason: reason}
	return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid quote input", verr)
}

// AsValidationError extracts the ValidationError wrapped in err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// FieldError returns the name of the input field that failed validation, or
// an empty string when err is not a validation failure.
func FieldError(err error) string {
	if verr, ok := AsValidationError(err); ok {
		return verr.Field
	}
	return ""
}
