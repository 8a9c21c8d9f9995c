package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FromStatus maps a non-success HTTP status and the provider's error message
// to a sentinel. Statuses without a sentinel are returned as plain errors.
func FromStatus(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	switch {
	case status == http.StatusTooManyRequests:
		// Quota exhaustion needs user action; retrying cannot help.
		lower := strings.ToLower(message)
		if strings.Contains(lower, "quota") || strings.Contains(lower, "billing") || strings.Contains(lower, "credit") {
			return fmt.Errorf("%s: %w", message, ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", message, ErrRateLimit)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s: %w", message, ErrAuthFailed)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", message, ErrTimeout)
	case status >= 500:
		return fmt.Errorf("%s (HTTP %d): %w", message, status, ErrServer)
	case status >= 400:
		return fmt.Errorf("%s (HTTP %d): %w", message, status, ErrBadRequest)
	default:
		return fmt.Errorf("unexpected HTTP status %d: %s", status, message)
	}
}

// FromContext converts an expired deadline into ErrTimeout.
// Other errors, including cancellation, are returned unchanged.
func FromContext(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}
	return err
}

// IsRetryable reports whether a request failing with err may be sent again.
// Only temporary rate limiting qualifies: timeouts and every other failure
// are terminal for the invocation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit)
}
