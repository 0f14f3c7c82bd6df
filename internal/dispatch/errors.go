package dispatch

import (
	"fmt"
	"strings"
)

// ErrorKind is a stable, enumerated classification carried alongside the
// human-readable message, so callers and tests can match on something
// sturdier than free text.
type ErrorKind string

const (
	KindUnknownTool           ErrorKind = "unknown_tool"
	KindUnknownAction         ErrorKind = "unknown_action"
	KindValidation            ErrorKind = "validation"
	KindMissingFields         ErrorKind = "missing_fields"
	KindConnectionUnavailable ErrorKind = "connection_unavailable"
	KindDomain                ErrorKind = "domain"
	KindUnexpected            ErrorKind = "unexpected"
)

// Error is the dispatch pipeline's error type. Message is always a single
// line suitable for the response envelope.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// errUnknownTool reports a tool name missing from the registry.
func errUnknownTool(name string) *Error {
	return &Error{
		Kind:    KindUnknownTool,
		Message: fmt.Sprintf("unknown tool %q", name),
	}
}

// errUnknownAction reports an absent action or one outside the tool's set.
func errUnknownAction(tool, action string, allowed []string) *Error {
	if action == "" {
		return &Error{
			Kind:    KindUnknownAction,
			Message: fmt.Sprintf("missing action for %s; expected one of [%s]", tool, strings.Join(allowed, ", ")),
		}
	}
	return &Error{
		Kind:    KindUnknownAction,
		Message: fmt.Sprintf("unknown action %q for %s; expected one of [%s]", action, tool, strings.Join(allowed, ", ")),
	}
}

// errValidation wraps structural failures, keeping the aggregated message.
func errValidation(err error) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: err.Error(),
	}
}

// errMissingFields names the action and every missing field.
func errMissingFields(action string, fields []string) *Error {
	return &Error{
		Kind:    KindMissingFields,
		Message: fmt.Sprintf("action %q requires missing fields: %s", action, strings.Join(fields, ", ")),
	}
}

// errConnectionUnavailable is the fast-fail raised before validation when
// the store health check is down.
func errConnectionUnavailable() *Error {
	return &Error{
		Kind:    KindConnectionUnavailable,
		Message: "connection not available",
	}
}

// errDomain passes a domain service's message through unreinterpreted.
func errDomain(err error) *Error {
	return &Error{
		Kind:    KindDomain,
		Message: err.Error(),
	}
}

// errUnexpected flattens anything else into a generic single-line message.
// Never includes a stack trace.
func errUnexpected(detail string) *Error {
	return &Error{
		Kind:    KindUnexpected,
		Message: "tool execution failed: " + flatten(detail),
	}
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
