// Package apierr carries HTTP status and a stable machine code with an error.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status  int
	Code    string
	Err     error
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// With returns a copy of e carrying an extra detail field
func (e *Error) With(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Status: e.Status, Code: e.Code, Err: e.Err, Details: details}
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation is a client error; never retried.
func Validation(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// Payment reports an unmet payment precondition; retryable once the caller
// approves more funds.
func Payment(code string, err error) *Error {
	return New(http.StatusPaymentRequired, code, err)
}

// Config reports a server misconfiguration.
func Config(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

// Upstream reports a failed call to an external dependency.
func Upstream(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

// As extracts an *Error from err. Unknown errors map to a 500 internal_error.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}

// StatusOf returns the HTTP status for err
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return As(err).Status
}
