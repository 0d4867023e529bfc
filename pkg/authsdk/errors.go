package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Reasons the service reports in ErrorResponse.Reason.
const (
	ReasonAuthentication = "AuthenticationError"
	ReasonValidation     = "ValidationError"
	ReasonBadRequest     = "BadRequestError"
	ReasonRateLimit      = "RateLimitError"
	ReasonInternal       = "InternalServerError"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
	Location   string
}

func (e *APIError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("authsdk: %d %s: %s (%s)", e.StatusCode, e.Reason, e.Message, e.Location)
	}
	return fmt.Sprintf("authsdk: %d %s: %s", e.StatusCode, e.Reason, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// parseErrorResponse turns a non-2xx body into an *APIError, falling back to
// the status text when the body is not an ErrorResponse.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Reason != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Reason:     errResp.Reason,
			Message:    errResp.Message,
			Location:   errResp.Location,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Reason:     http.StatusText(resp.StatusCode),
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
