package summarize

import (
	"errors"
	"fmt"
	"net"

	"github.com/alnah/go-pdfsummary/internal/apierr"
)

// classifyTransportError maps connection-level failures shared by the HTTP
// backends: deadlines become apierr.ErrTimeout and refused dials become
// ErrBackendUnavailable.
func classifyTransportError(err error) error {
	err = apierr.FromContext(err)
	if errors.Is(err, apierr.ErrTimeout) {
		return err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("%v: %w", err, ErrBackendUnavailable)
	}
	return err
}
