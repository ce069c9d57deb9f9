package orselect

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories. Callers check them with errors.Is; every error returned
// by this package wraps exactly one of these.
var (
	// ErrValidation marks a malformed Model or Requirements value.
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication marks a missing credential or an upstream 401/403.
	ErrAuthentication = errors.New("authentication failed")

	// ErrTransport marks a network-level failure reaching the upstream.
	ErrTransport = errors.New("transport failed")

	// ErrUpstreamFormat marks a response body that is not the expected
	// models envelope at all. Per-record schema drift is not this error;
	// drifted records are skipped during fetch.
	ErrUpstreamFormat = errors.New("unexpected upstream format")
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// classifyStatus maps an upstream HTTP status to an error category.
// Auth rejections get their own category so callers can distinguish a bad
// key from a flaky network.
func classifyStatus(status int, body string) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: upstream returned status %d: %s", ErrAuthentication, status, body)
	}
	return fmt.Errorf("%w: upstream returned status %d: %s", ErrTransport, status, body)
}
