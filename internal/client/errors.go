package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for API operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested match does not exist upstream.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPayload indicates a response that could not be decoded or
	// failed schema validation.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrServer indicates any other non-200 response.
	ErrServer = errors.New("server error")
)

// statusError maps a non-200 response to a wrapped sentinel error.
func statusError(resp *http.Response, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Status)
	}
	if msg == "" {
		return fmt.Errorf("%w: %s", ErrServer, resp.Status)
	}
	return fmt.Errorf("%w: %s - %s", ErrServer, resp.Status, msg)
}
