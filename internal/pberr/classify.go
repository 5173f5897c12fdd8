package pberr

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// Classify normalizes an arbitrary backend-originated error into an
// *Error. Precedence, first match wins:
//
//	network/connectivity -> 429 -> 404 -> 400 with field payload ->
//	403 -> 401/auth heuristics -> 5xx -> UNKNOWN_ERROR
//
// The result is never nil and always carries a non-empty message.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	// An already-classified error passes through without double-wrapping.
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if isNetworkError(err) {
		return Wrap(CodeNetworkError, "", err)
	}

	var apiErr *pocketbase.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	if looksLikeAuthFailure(err.Error()) {
		return Wrap(CodeAuthRequired, err.Error(), err)
	}

	return Wrap(CodeUnknown, err.Error(), err)
}

func classifyAPIError(apiErr *pocketbase.APIError) *Error {
	msg := apiErr.Message

	switch {
	case apiErr.Status == http.StatusTooManyRequests:
		return Wrap(CodeRateLimited, msg, apiErr)

	case apiErr.Status == http.StatusNotFound:
		return Wrap(CodeNotFound, msg, apiErr)

	case apiErr.Status == http.StatusBadRequest && len(apiErr.Data) > 0:
		e := Validation(msg, fieldErrors(apiErr.Data))
		e.cause = apiErr
		return e

	case apiErr.Status == http.StatusForbidden:
		return Wrap(CodeForbidden, msg, apiErr)

	case apiErr.Status == http.StatusUnauthorized:
		return Wrap(authCode(msg), msg, apiErr)

	case apiErr.Status >= 500:
		return Wrap(CodeServerError, msg, apiErr)

	case apiErr.Status == http.StatusBadRequest && looksLikeAuthFailure(msg):
		return Wrap(CodeAuthInvalid, msg, apiErr)

	default:
		return Wrap(CodeUnknown, msg, apiErr)
	}
}

// authCode distinguishes the 401 flavors by message content.
func authCode(msg string) Code {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "expired"):
		return CodeAuthExpired
	case strings.Contains(lower, "invalid") || strings.Contains(lower, "failed to authenticate"):
		return CodeAuthInvalid
	default:
		return CodeAuthRequired
	}
}

func fieldErrors(data map[string]pocketbase.FieldIssue) []FieldError {
	fields := make([]FieldError, 0, len(data))
	for name, issue := range data {
		fields = append(fields, FieldError{
			Field:   name,
			Code:    issue.Code,
			Message: issue.Message,
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return fields
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	lower := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"timeout",
		"econnrefused",
		"dial tcp",
	} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func looksLikeAuthFailure(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "not authenticated") ||
		strings.Contains(lower, "token required")
}
