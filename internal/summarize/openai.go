package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-pdfsummary/internal/apierr"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Summarizer    = (*OpenAISummarizer)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// OpenAISummarizer summarizes with the OpenAI chat completion API.
type OpenAISummarizer struct {
	client  chatCompleter
	model   string
	cfg     Config
	backoff apierr.Backoff
}

// OpenAIOption configures an OpenAISummarizer.
type OpenAIOption func(*OpenAISummarizer)

// WithOpenAIModel sets the chat model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(s *OpenAISummarizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithOpenAIConfig sets the request settings.
func WithOpenAIConfig(cfg Config) OpenAIOption {
	return func(s *OpenAISummarizer) { s.cfg = cfg.withDefaults() }
}

// WithOpenAIRetryDelays sets the rate-limit backoff delays.
func WithOpenAIRetryDelays(base, max time.Duration) OpenAIOption {
	return func(s *OpenAISummarizer) {
		s.backoff.Base = base
		s.backoff.Max = max
	}
}

// withChatCompleter sets a custom chat completer (for testing).
func withChatCompleter(cc chatCompleter) OpenAIOption {
	return func(s *OpenAISummarizer) { s.client = cc }
}

// NewOpenAISummarizer creates an OpenAISummarizer.
// baseURL may be empty for the public API; otherwise it must include "/v1".
func NewOpenAISummarizer(apiKey, baseURL string, opts ...OpenAIOption) *OpenAISummarizer {
	s := &OpenAISummarizer{
		model:   DefaultOpenAIModel,
		cfg:     Config{Temperature: DefaultTemperature}.withDefaults(),
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		config := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			config.BaseURL = strings.TrimSuffix(baseURL, "/")
		}
		config.HTTPClient = &http.Client{}
		s.client = openai.NewClientWithConfig(config)
	}
	return s
}

// Summarize sends prompt as the user message under the system prompt and
// returns the first choice's content.
func (s *OpenAISummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.cfg.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(s.cfg.Temperature),
	}

	text, err := apierr.Do(ctx, s.backoff, func() (string, error) {
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", classifyOpenAIError(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("openai: no choices returned: %w", ErrEmptyResponse)
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", s.model, err)
	}

	if text = strings.TrimSpace(text); text == "" {
		return "", fmt.Errorf("openai %s: %w", s.model, ErrEmptyResponse)
	}
	return text, nil
}

// classifyOpenAIError maps go-openai errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apierr.FromStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return apierr.FromStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}
	return classifyTransportError(err)
}
