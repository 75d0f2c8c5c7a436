// Package gwerr provides the gateway error taxonomy: status-carrying errors
// and the aggregate type used to surface concurrent handler failures.
package gwerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// GenericMessage is returned to webhook senders whenever no safe, specific
// message can be derived from the failure.
const GenericMessage = "An uncaught error occurred"

// Error is a gateway error with an optional HTTP status override. A zero
// Status means the top-level boundary falls back to 500.
type Error struct {
	Name    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// New creates a gateway error without a status override.
func New(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// WithStatus creates a gateway error carrying the given HTTP status.
func WithStatus(status int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Status: status}
}

// Aggregate holds every error raised while dispatching a single delivery.
// All members are preserved for logging; only the first is surfaced in the
// HTTP response.
type Aggregate struct {
	Errs []error
}

// Collect wraps the given errors in an Aggregate, dropping nils. It returns
// nil when nothing failed.
func Collect(errs ...error) error {
	kept := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &Aggregate{Errs: kept}
}

func (a *Aggregate) Error() string {
	msgs := make([]string, len(a.Errs))
	for i, err := range a.Errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap supports errors.Is and errors.As over the aggregated members.
func (a *Aggregate) Unwrap() []error {
	return a.Errs
}

// First returns the first aggregated error, or nil when empty.
func (a *Aggregate) First() error {
	if len(a.Errs) == 0 {
		return nil
	}
	return a.Errs[0]
}

// ResponseFor maps any error to the (status, message) pair returned to the
// webhook sender. Defaults are 500 and the generic message. For an Aggregate
// the first member dictates both: its name/message build the response message
// when it has one, otherwise the aggregate's own message is used; its carried
// status replaces the default when present. Bare errors never leak their
// message.
func ResponseFor(err error) (int, string) {
	status, message := 500, GenericMessage
	if err == nil {
		return status, message
	}

	var agg *Aggregate
	if errors.As(err, &agg) {
		first := agg.First()
		if first == nil {
			return status, message
		}
		name, msg, st := describe(first)
		if msg != "" {
			message = fmt.Sprintf("%s: %s", name, msg)
		} else if am := agg.Error(); am != "" {
			message = am
		}
		if st != 0 {
			status = st
		}
		return status, message
	}

	var ge *Error
	if errors.As(err, &ge) {
		if ge.Message != "" {
			message = ge.Error()
		}
		if ge.Status != 0 {
			status = ge.Status
		}
	}
	return status, message
}

func describe(err error) (name, message string, status int) {
	name = "Error"
	var ge *Error
	if errors.As(err, &ge) {
		if ge.Name != "" {
			name = ge.Name
		}
		return name, ge.Message, ge.Status
	}
	return name, err.Error(), 0
}
