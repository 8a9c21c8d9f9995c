// Package summarize drives a summarization backend over a segmented document.
//
// A run resolves one Backend, builds one Summarizer from it and reuses it for
// every invocation. Invocations are strictly sequential: each chunk is
// summarized in order, then the partial summaries are merged. Every
// invocation goes through a Controller that checks the output language and
// re-invokes with a corrective notice a bounded number of times.
package summarize

import (
	"context"
	"time"

	"github.com/alnah/go-pdfsummary/internal/apierr"
)

// Summarizer sends one prompt to a backend and returns the trimmed response.
// Implementations return ErrEmptyResponse rather than an empty string.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Request defaults shared by the API backends.
const (
	DefaultTimeout      = 300 * time.Second
	DefaultTemperature  = 0.2
	DefaultSystemPrompt = "You are an assistant that writes concise, accurate Markdown summaries of documents."
)

// defaultBackoff retries rate-limit responses twice.
var defaultBackoff = apierr.Backoff{Retries: 2, Base: 2 * time.Second, Max: 30 * time.Second}

// Config holds the request settings applied to every invocation.
type Config struct {
	Timeout      time.Duration // Per-invocation bound. <= 0 uses DefaultTimeout.
	SystemPrompt string        // System message for API backends. Empty uses DefaultSystemPrompt.
	Temperature  float64
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	return c
}
