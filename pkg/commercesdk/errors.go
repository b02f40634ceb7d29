package commercesdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError represents a response the backend produced on purpose: a rejected
// confirmation code, an expired order, bad credentials. Transport failures
// are never APIErrors, so callers can separate "the backend said no" from
// "the backend was unreachable" with errors.As.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Code is a short machine-readable error code when the backend sent one.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// parseErrorResponse turns a non-success HTTP response into a typed *APIError.
// The backend is not consistent about error body shapes, so a few are tried
// before falling back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	// {"error": "...", "error_description": "..."}
	var errResp struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error,
			Message:    errResp.ErrorDescription,
		}
	}

	// {"detail": "..."}
	var detailResp struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detailResp); err == nil && detailResp.Detail != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    detailResp.Detail,
		}
	}

	// {"message": "..."}
	var msgResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msgResp); err == nil && msgResp.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    msgResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
