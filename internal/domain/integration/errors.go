package integration

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound indicates the referenced order does not exist on the storefront
	ErrOrderNotFound = errors.New("integration: order not found on storefront")

	// ErrLocationNotConfigured indicates no usable inventory location could be resolved
	ErrLocationNotConfigured = errors.New("integration: no inventory location configured or available")

	// ErrInvalidOrderRef indicates an empty or unusable order reference
	ErrInvalidOrderRef = errors.New("integration: invalid order reference")
)

// UpstreamError represents a non-2xx or network failure from one of the two
// upstream providers. The body carries the provider error payload when one
// was available.
type UpstreamError struct {
	Provider string // "shopify" or "smartbill"
	Status   int    // HTTP status, 0 for transport-level failures
	Body     string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: request failed: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.Status, e.Body)
}

// NewUpstreamError creates an UpstreamError for the given provider
func NewUpstreamError(provider string, status int, body string) *UpstreamError {
	return &UpstreamError{Provider: provider, Status: status, Body: body}
}

// AsUpstreamError returns the wrapped UpstreamError, if any
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
