package summarize_test

import (
	"context"
	"strings"
	"sync"

	"github.com/alnah/go-pdfsummary/internal/summarize"
)

// ---------------------------------------------------------------------------
// Mock Summarizer
// ---------------------------------------------------------------------------

// mockSummarizer records prompts and answers from a scripted list of
// responses, repeating the last one when the list runs out.
type mockSummarizer struct {
	Responses []string
	ErrAt     map[int]error // 0-based call index -> error

	mu      sync.Mutex
	prompts []string
}

var _ summarize.Summarizer = (*mockSummarizer)(nil)

func (m *mockSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	if err, ok := m.ErrAt[i]; ok {
		return "", err
	}
	if len(m.Responses) == 0 {
		return "summary", nil
	}
	return m.Responses[min(i, len(m.Responses)-1)], nil
}

func (m *mockSummarizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockSummarizer) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// ---------------------------------------------------------------------------
// Fake checker and prompt builder
// ---------------------------------------------------------------------------

// checkerFunc adapts a function to summarize.Checker.
type checkerFunc func(string) bool

func (f checkerFunc) Conforms(text string) bool { return f(text) }

var (
	alwaysFails  = checkerFunc(func(string) bool { return false })
	alwaysPasses = checkerFunc(func(string) bool { return true })
)

// tagBuilder renders payloads as tagged strings so tests can tell stages apart.
type tagBuilder struct{}

func (tagBuilder) Chunk(chunk string) string      { return "CHUNK:" + chunk }
func (tagBuilder) Summary(text string) string     { return "SUMMARY:" + text }
func (tagBuilder) Merge(partials []string) string { return "MERGE:" + strings.Join(partials, "|") }
