package dto

import "net/http"

// Error code constants for the HTTP surface
const (
	// ErrCodeValidation is used when required caller input is missing
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeNotFound is used when the referenced order does not exist upstream
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeUnauthorized is used for webhook signature mismatches
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeUpstream is used when either provider failed the call
	ErrCodeUpstream = "ERR_UPSTREAM"
	// ErrCodeConfiguration is used when a required setting is missing or invalid
	ErrCodeConfiguration = "ERR_CONFIGURATION"
	// ErrCodeInternal is used for everything else
	ErrCodeInternal = "ERR_INTERNAL"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeUpstream:      http.StatusInternalServerError,
	ErrCodeConfiguration: http.StatusInternalServerError,
	ErrCodeInternal:      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the error body of every JSON endpoint. Detail carries the
// provider error payload when one was available.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, detail string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code, Detail: detail}
}
