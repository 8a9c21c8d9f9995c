package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/alnah/go-pdfsummary/internal/apierr"
)

// Anthropic defaults.
const (
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	anthropicMaxTokens    = 4096
)

// messageCreator is an internal interface for the Anthropic Messages API.
// *anthropic.MessageService implements this implicitly.
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...anthropicopt.RequestOption) (*anthropic.Message, error)
}

// Compile-time interface compliance checks.
var (
	_ Summarizer     = (*AnthropicSummarizer)(nil)
	_ messageCreator = (*anthropic.MessageService)(nil)
)

// AnthropicSummarizer summarizes with the Anthropic Messages API.
type AnthropicSummarizer struct {
	messages messageCreator
	model    string
	cfg      Config
	backoff  apierr.Backoff
}

// AnthropicOption configures an AnthropicSummarizer.
type AnthropicOption func(*AnthropicSummarizer)

// WithAnthropicModel sets the model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(s *AnthropicSummarizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithAnthropicConfig sets the request settings.
func WithAnthropicConfig(cfg Config) AnthropicOption {
	return func(s *AnthropicSummarizer) { s.cfg = cfg.withDefaults() }
}

// WithAnthropicRetryDelays sets the rate-limit backoff delays.
func WithAnthropicRetryDelays(base, max time.Duration) AnthropicOption {
	return func(s *AnthropicSummarizer) {
		s.backoff.Base = base
		s.backoff.Max = max
	}
}

// withMessageCreator sets a custom Messages client (for testing).
func withMessageCreator(m messageCreator) AnthropicOption {
	return func(s *AnthropicSummarizer) { s.messages = m }
}

// NewAnthropicSummarizer creates an AnthropicSummarizer.
// baseURL may be empty for the public API.
func NewAnthropicSummarizer(apiKey, baseURL string, opts ...AnthropicOption) *AnthropicSummarizer {
	s := &AnthropicSummarizer{
		model:   DefaultAnthropicModel,
		cfg:     Config{Temperature: DefaultTemperature}.withDefaults(),
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.messages == nil {
		// Retries are handled here so that only rate limits are retried.
		clientOpts := []anthropicopt.RequestOption{
			anthropicopt.WithAPIKey(apiKey),
			anthropicopt.WithMaxRetries(0),
			anthropicopt.WithHTTPClient(&http.Client{}),
		}
		if baseURL != "" {
			clientOpts = append(clientOpts, anthropicopt.WithBaseURL(baseURL))
		}
		client := anthropic.NewClient(clientOpts...)
		s.messages = &client.Messages
	}
	return s
}

// Summarize sends prompt as a single user turn and concatenates the text blocks
// of the reply.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   anthropicMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: s.cfg.SystemPrompt}},
		Temperature: anthropic.Float(s.cfg.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	text, err := apierr.Do(ctx, s.backoff, func() (string, error) {
		msg, err := s.messages.New(ctx, params)
		if err != nil {
			return "", classifyAnthropicError(err)
		}
		var b strings.Builder
		for _, block := range msg.Content {
			if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
				b.WriteString(tb.Text)
			}
		}
		return b.String(), nil
	})
	if err != nil {
		return "", fmt.Errorf("anthropic %s: %w", s.model, err)
	}

	if text = strings.TrimSpace(text); text == "" {
		return "", fmt.Errorf("anthropic %s: %w", s.model, ErrEmptyResponse)
	}
	return text, nil
}

// classifyAnthropicError maps SDK errors to apierr sentinels.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apierr.FromStatus(apiErr.StatusCode, apiErr.Error())
	}
	return classifyTransportError(err)
}
