package figma

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// APIError is returned when Figma answers with an error.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Temporary reports whether retrying the request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// newAPIError extracts Figma's error message from either the {"err": ...}
// or the {"message": ...} body shape.
func newAPIError(operation string, status int, body []byte) *APIError {
	msg := ""
	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		msg = res.Get("err").String()
		if msg == "" {
			msg = res.Get("message").String()
		}
	}
	return &APIError{Operation: operation, StatusCode: status, Message: msg}
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a rejected token.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusForbidden) || hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
