package pulseerr

import (
	"fmt"
)

// Error is an error of a known Kind, caused by another error.
// Both of them are visible to errors.Is and errors.As.
type Error struct {
	Kind   error
	Detail string
	Cause  error
}

// Wrap makes an error that reads "kind: cause".
func Wrap(kind, cause error) error {
	return &Error{Kind: kind, Cause: cause}
}

// Wrapf is Wrap with a detail after the kind, so it reads "kind detail: cause".
func Wrapf(kind, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	msg := "<nil>"
	if e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Detail != "" {
		msg += " " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	for _, err := range []error{e.Kind, e.Cause} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
