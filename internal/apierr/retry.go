package apierr

import (
	"context"
	"fmt"
	"time"
)

// Backoff is the wait schedule between attempts of one request.
// Attempt n (1-based) waits Base * 2^(n-1), capped at Max.
type Backoff struct {
	Retries int           // Extra attempts after the first. < 0 means none.
	Base    time.Duration // First wait. <= 0 means 1ms.
	Max     time.Duration // Wait cap. <= 0 means Base.
}

// Wait returns the pause before retry number attempt (1-based).
func (b Backoff) Wait(attempt int) time.Duration {
	base, ceiling := b.Base, b.Max
	if base <= 0 {
		base = time.Millisecond
	}
	if ceiling <= 0 {
		ceiling = base
	}
	d := base
	for i := 1; i < attempt && d < ceiling; i++ {
		d *= 2
	}
	return min(d, ceiling)
}

// Do calls fn until it succeeds, fails with an error IsRetryable rejects, or
// the retries run out. Waiting honors ctx: cancellation returns ctx.Err()
// and an expired deadline returns ErrTimeout.
// On exhaustion the last error is wrapped with the attempt count.
func Do[T any](ctx context.Context, b Backoff, fn func() (T, error)) (T, error) {
	var zero T
	retries := max(b.Retries, 0)

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		if attempt == retries {
			return zero, fmt.Errorf("gave up after %d attempts: %w", attempt+1, err)
		}

		timer := time.NewTimer(b.Wait(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, FromContext(ctx.Err())
		case <-timer.C:
		}
	}
}
