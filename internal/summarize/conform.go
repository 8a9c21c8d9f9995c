package summarize

import (
	"context"

	"github.com/alnah/go-pdfsummary/internal/lang"
)

// Checker assesses whether a response is written in the target language.
// lang.Checker implements this.
type Checker interface {
	Conforms(text string) bool
}

// Compile-time interface compliance check.
var _ Checker = lang.Checker{}

// defaultCorrective is used when no corrective builder is configured.
func defaultCorrective(prompt string) string {
	return prompt + "\n\nNote: the previous answer was not written in the requested language. Answer only in the requested language."
}

// Controller invokes a Summarizer and, when a Checker is set, re-invokes with
// a corrective notice until the response conforms or retries run out.
// Language deviation is never an error: the last response is accepted.
type Controller struct {
	summarizer Summarizer
	checker    Checker // nil disables the check.
	retries    int
	corrective func(prompt string) string
	onRetry    func(attempt, max int)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithChecker enables the language check.
func WithChecker(c Checker) ControllerOption {
	return func(ctl *Controller) { ctl.checker = c }
}

// WithRetries sets the maximum number of corrective re-invocations.
// Negative values are treated as 0.
func WithRetries(n int) ControllerOption {
	return func(ctl *Controller) { ctl.retries = max(n, 0) }
}

// WithCorrective sets how the corrective payload is built from the original one.
func WithCorrective(fn func(prompt string) string) ControllerOption {
	return func(ctl *Controller) {
		if fn != nil {
			ctl.corrective = fn
		}
	}
}

// WithRetryNotice sets a callback invoked before each corrective retry.
func WithRetryNotice(fn func(attempt, max int)) ControllerOption {
	return func(ctl *Controller) { ctl.onRetry = fn }
}

// NewController creates a Controller. Without WithChecker every prompt is
// invoked exactly once.
func NewController(s Summarizer, opts ...ControllerOption) *Controller {
	ctl := &Controller{
		summarizer: s,
		corrective: defaultCorrective,
	}
	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// Invoke runs one invocation site: invoke, check, and retry with the corrective
// notice appended to the original prompt. An invocation error on any attempt
// aborts immediately.
func (ctl *Controller) Invoke(ctx context.Context, prompt string) (string, error) {
	out, err := ctl.summarizer.Summarize(ctx, prompt)
	if err != nil || ctl.checker == nil {
		return out, err
	}

	for attempt := 1; attempt <= ctl.retries && !ctl.checker.Conforms(out); attempt++ {
		if ctl.onRetry != nil {
			ctl.onRetry(attempt, ctl.retries)
		}
		if out, err = ctl.summarizer.Summarize(ctx, ctl.corrective(prompt)); err != nil {
			return "", err
		}
	}
	return out, nil
}
