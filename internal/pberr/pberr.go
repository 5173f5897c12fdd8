// Package pberr defines the error taxonomy shared by every tool in
// pb-mcp.
//
// Arbitrary backend failures are normalized into an *Error carrying one
// of a fixed set of classification codes, a non-empty human-readable
// message, an optional per-field details payload, and a remediation
// suggestion. Pattern matching on the code is how callers branch on
// error kind; ad hoc property sniffing is never needed.
package pberr

import "strings"

// Code is the fixed error classification set.
type Code string

const (
	CodeAuthRequired    Code = "AUTH_REQUIRED"
	CodeAuthInvalid     Code = "AUTH_INVALID"
	CodeAuthExpired     Code = "AUTH_EXPIRED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeValidationError Code = "VALIDATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND"
	CodeNetworkError    Code = "NETWORK_ERROR"
	CodeServerError     Code = "SERVER_ERROR"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeUnknown         Code = "UNKNOWN_ERROR"
)

// FieldError is one per-field violation inside a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Details is the optional structured payload of an Error.
type Details struct {
	Fields []FieldError `json:"fields,omitempty"`
}

// Error is a classified failure. It always carries a non-empty Message
// and a code-specific Suggestion.
type Error struct {
	Code       Code
	Message    string
	Suggestion string
	Details    *Details
	cause      error
}

// Error implements error.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Unwrap exposes the original cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an Error for the given code, filling in the canned message
// and suggestion when message is empty.
func New(code Code, message string) *Error {
	return &Error{
		Code:       code,
		Message:    messageOrDefault(code, message),
		Suggestion: suggestion(code),
	}
}

// Wrap is New plus cause retention.
func Wrap(code Code, message string, cause error) *Error {
	e := New(code, message)
	e.cause = cause
	return e
}

// Validation builds a VALIDATION_ERROR carrying per-field entries.
func Validation(message string, fields []FieldError) *Error {
	e := New(CodeValidationError, message)
	if len(fields) > 0 {
		e.Details = &Details{Fields: fields}
	}
	return e
}

// Envelope is the uniform {success:false, ...} failure shape returned
// as tool output.
func (e *Error) Envelope() map[string]any {
	env := map[string]any{
		"success": false,
		"error":   e.Message,
		"code":    string(e.Code),
	}
	if e.Suggestion != "" {
		env["suggestion"] = e.Suggestion
	}
	if e.Details != nil {
		env["details"] = map[string]any{"fields": e.Details.Fields}
	}
	return env
}

func messageOrDefault(code Code, message string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	switch code {
	case CodeAuthRequired:
		return "Authentication required"
	case CodeAuthInvalid:
		return "Invalid credentials"
	case CodeAuthExpired:
		return "Authentication token has expired"
	case CodeForbidden:
		return "You do not have permission to perform this action"
	case CodeValidationError:
		return "Validation failed"
	case CodeNotFound:
		return "The requested resource was not found"
	case CodeNetworkError:
		return "Could not reach the PocketBase server"
	case CodeServerError:
		return "The PocketBase server returned an internal error"
	case CodeRateLimited:
		return "Too many requests"
	default:
		return "An unexpected error occurred"
	}
}

func suggestion(code Code) string {
	switch code {
	case CodeAuthRequired:
		return "Authenticate first with authenticate_admin or authenticate_user"
	case CodeAuthInvalid:
		return "Check the email and password and try again"
	case CodeAuthExpired:
		return "Authenticate again to obtain a fresh token"
	case CodeForbidden:
		return "Use an administrator credential for this operation"
	case CodeValidationError:
		return "Check the field values against the collection schema"
	case CodeNotFound:
		return "Check the collection name and record id"
	case CodeNetworkError:
		return "Check that the PocketBase server is running and the base URL is reachable"
	case CodeServerError:
		return "Check the PocketBase server logs"
	case CodeRateLimited:
		return "Wait before retrying the request"
	default:
		return "Inspect the error message for details"
	}
}
