package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"github.com/alnah/go-pdfsummary/internal/apierr"
)

// Ollama defaults.
const (
	DefaultOllamaModel = "hf.co/SakanaAI/TinySwallow-1.5B-Instruct-GGUF:latest"
	DefaultOllamaHost  = "http://localhost:11434"
)

// generator is an internal interface for the Ollama generate endpoint.
// *ollama.Client implements this implicitly.
type generator interface {
	Generate(ctx context.Context, req *ollama.GenerateRequest, fn ollama.GenerateResponseFunc) error
}

// Compile-time interface compliance checks.
var (
	_ Summarizer = (*OllamaSummarizer)(nil)
	_ generator  = (*ollama.Client)(nil)
)

// OllamaSummarizer summarizes with a model served by a local Ollama runner.
type OllamaSummarizer struct {
	client generator
	model  string
	cfg    Config
}

// OllamaOption configures an OllamaSummarizer.
type OllamaOption func(*OllamaSummarizer)

// WithOllamaModel sets the model tag.
func WithOllamaModel(model string) OllamaOption {
	return func(s *OllamaSummarizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithOllamaConfig sets the request settings.
func WithOllamaConfig(cfg Config) OllamaOption {
	return func(s *OllamaSummarizer) { s.cfg = cfg.withDefaults() }
}

// withGenerator sets a custom generator (for testing).
func withGenerator(g generator) OllamaOption {
	return func(s *OllamaSummarizer) { s.client = g }
}

// NewOllamaSummarizer creates an OllamaSummarizer for the runner at host.
// An empty host uses DefaultOllamaHost; a host without scheme gets "http://".
func NewOllamaSummarizer(host string, opts ...OllamaOption) (*OllamaSummarizer, error) {
	s := &OllamaSummarizer{
		model: DefaultOllamaModel,
		cfg:   Config{Temperature: DefaultTemperature}.withDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		u, err := parseOllamaHost(host)
		if err != nil {
			return nil, err
		}
		s.client = ollama.NewClient(u, &http.Client{})
	}
	return s, nil
}

func parseOllamaHost(host string) (*url.URL, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, ErrNoBackend)
	}
	return u, nil
}

// Summarize runs one non-streaming generation.
func (s *OllamaSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	stream := false
	req := &ollama.GenerateRequest{
		Model:   s.model,
		Prompt:  prompt,
		System:  s.cfg.SystemPrompt,
		Stream:  &stream,
		Options: map[string]any{"temperature": s.cfg.Temperature},
	}

	var text strings.Builder
	err := s.client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		text.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama %s: %w", s.model, classifyOllamaError(err))
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("ollama %s: %w", s.model, ErrEmptyResponse)
	}
	return out, nil
}

// classifyOllamaError maps Ollama client errors to sentinels.
func classifyOllamaError(err error) error {
	var statusErr ollama.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.ErrorMessage
		if msg == "" {
			msg = statusErr.Status
		}
		return apierr.FromStatus(statusErr.StatusCode, msg)
	}
	return classifyTransportError(err)
}
