package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTimeout marks failures where no response arrived within the configured
// window. Callers distinguish it from server rejections with errors.Is.
var ErrTimeout = errors.New("request timed out")

// APIError represents a non-2xx response from the TimeCamp API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TimeCamp API error: %d - %s", e.Status, e.Body)
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests
}
