package cli

import (
	"context"
	"sync"

	"github.com/spf13/pflag"

	"github.com/alnah/go-pdfsummary/internal/config"
	"github.com/alnah/go-pdfsummary/internal/pages"
	"github.com/alnah/go-pdfsummary/internal/pdftext"
	"github.com/alnah/go-pdfsummary/internal/summarize"
)

// japaneseSummary is a response that passes the Japanese script check.
const japaneseSummary = "## 要点\n\n- 売上は前年同期比で十二パーセント増加しました。\n- 新製品の開発は順調に進んでいます。"

// ---------------------------------------------------------------------------
// Mock Extractor
// ---------------------------------------------------------------------------

type mockExtractor struct {
	ExtractFunc func(ctx context.Context, path string, sel pages.Range) (pdftext.Result, error)

	mu    sync.Mutex
	calls []extractCall
}

type extractCall struct {
	Path  string
	Pages pages.Range
}

func (m *mockExtractor) Extract(ctx context.Context, path string, sel pages.Range) (pdftext.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, extractCall{Path: path, Pages: sel})
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, path, sel)
	}
	return pdftext.Result{Text: "Quarterly results improved.", PageCount: 1, Extracted: 1}, nil
}

func (m *mockExtractor) ExtractCalls() []extractCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]extractCall(nil), m.calls...)
}

// extractText returns a mockExtractor that yields text from a document of n pages.
func extractText(text string, n int) *mockExtractor {
	return &mockExtractor{
		ExtractFunc: func(ctx context.Context, path string, sel pages.Range) (pdftext.Result, error) {
			return pdftext.Result{Text: text, PageCount: n, Extracted: n}, nil
		},
	}
}

// ---------------------------------------------------------------------------
// Mock SummarizerFactory + Summarizer
// ---------------------------------------------------------------------------

type mockSummarizerFactory struct {
	NewSummarizerFunc func(b summarize.Backend, cfg summarize.Config) (summarize.Summarizer, error)

	mu       sync.Mutex
	backends []summarize.Backend
	configs  []summarize.Config

	summarizer *mockSummarizer
}

func (m *mockSummarizerFactory) NewSummarizer(b summarize.Backend, cfg summarize.Config) (summarize.Summarizer, error) {
	m.mu.Lock()
	m.backends = append(m.backends, b)
	m.configs = append(m.configs, cfg)
	m.mu.Unlock()

	if m.NewSummarizerFunc != nil {
		return m.NewSummarizerFunc(b, cfg)
	}
	return m.Summarizer(), nil
}

// Summarizer returns the summarizer handed out by the factory.
func (m *mockSummarizerFactory) Summarizer() *mockSummarizer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.summarizer == nil {
		m.summarizer = &mockSummarizer{}
	}
	return m.summarizer
}

func (m *mockSummarizerFactory) Backends() []summarize.Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]summarize.Backend(nil), m.backends...)
}

func (m *mockSummarizerFactory) Configs() []summarize.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]summarize.Config(nil), m.configs...)
}

type mockSummarizer struct {
	// SummarizeFunc receives the 0-based call number.
	SummarizeFunc func(ctx context.Context, call int, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *mockSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	call := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, call, prompt)
	}
	return japaneseSummary, nil
}

func (m *mockSummarizer) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

// mockConfigLoader wraps the real loader without a config file, or returns
// LoadFunc's settings when set.
type mockConfigLoader struct {
	LoadFunc func(fs *pflag.FlagSet, getenv func(string) string) (config.Settings, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load(fs *pflag.FlagSet, getenv func(string) string) (config.Settings, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc(fs, getenv)
	}
	return NewFileConfigLoader(NoConfigFile).Load(fs, getenv)
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock ConfigStore
// ---------------------------------------------------------------------------

type mockConfigStore struct {
	SetFunc func(key, value string) error

	mu     sync.Mutex
	values map[string]string
}

func (m *mockConfigStore) Set(key, value string) error {
	if m.SetFunc != nil {
		if err := m.SetFunc(key, value); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *mockConfigStore) List() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *mockConfigStore) Path() string {
	return "/home/test/.config/pdfsummary/config.yaml"
}

// Compile-time interface checks.
var (
	_ pdftext.Extractor    = (*mockExtractor)(nil)
	_ SummarizerFactory    = (*mockSummarizerFactory)(nil)
	_ summarize.Summarizer = (*mockSummarizer)(nil)
	_ ConfigLoader         = (*mockConfigLoader)(nil)
	_ ConfigStore          = (*mockConfigStore)(nil)
)
