package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Category is the normalized upstream failure taxonomy.
type Category string

const (
	// CategoryTimeout indicates the upstream took too long to respond.
	CategoryTimeout Category = "timeout"

	// CategoryOutage indicates the upstream could not be reached or failed
	// on its side (connection refused, DNS, 5xx).
	CategoryOutage Category = "provider_outage"

	// CategoryAuthentication indicates a missing or rejected credential.
	CategoryAuthentication Category = "authentication"

	// CategoryNotFound indicates the requested record does not exist.
	CategoryNotFound Category = "not_found"

	// CategoryRateLimited indicates the upstream throttled the request.
	CategoryRateLimited Category = "rate_limited"

	// CategoryBadData indicates an undecodable payload.
	CategoryBadData Category = "bad_data"

	// CategoryBadRequest indicates the upstream rejected the request shape.
	CategoryBadRequest Category = "bad_request"

	// CategoryCanceled indicates the caller abandoned the request.
	CategoryCanceled Category = "canceled"

	// CategoryInternal indicates an unexpected local failure.
	CategoryInternal Category = "internal"
)

// Sentinel errors.
var (
	// ErrMissingCredential is wrapped when a source that requires a
	// credential is called without one.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidConfig is returned by New for unusable client configuration.
	ErrInvalidConfig = errors.New("invalid source config")

	// ErrNotList is returned by DecodeList for a value that is not an array.
	ErrNotList = errors.New("value is not a list")
)

// Error is a classified upstream failure.
type Error struct {
	Category   Category
	Source     string
	Op         string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s [%s]: %s", e.Source, e.Op, e.Category, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf extracts the category from err. Unclassified errors are
// CategoryInternal.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return classifyTransport(err)
}

// IsRetryable reports whether a failure is transient.
func IsRetryable(err error) bool {
	switch CategoryOf(err) {
	case CategoryTimeout, CategoryOutage, CategoryRateLimited:
		return true
	default:
		return false
	}
}

// classifyStatus maps a non-2xx HTTP status to a category.
func classifyStatus(status int) Category {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryAuthentication
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return CategoryTimeout
	case status >= 500:
		return CategoryOutage
	case status >= 400:
		return CategoryBadRequest
	default:
		return CategoryBadData
	}
}

// classifyTransport maps an error from http.Client.Do to a category.
func classifyTransport(err error) Category {
	if err == nil {
		return CategoryInternal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	if errors.Is(err, context.Canceled) {
		return CategoryCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryOutage
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return CategoryOutage
	}
	return CategoryInternal
}
