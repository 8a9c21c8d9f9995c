package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	extractor    *mockExtractor
	summarizers  *mockSummarizerFactory
	configLoader *mockConfigLoader
	configStore  *mockConfigStore
	stdout       *syncBuffer
	stderr       *syncBuffer
}

func newTestMocks() *testMocks {
	return &testMocks{
		extractor:    &mockExtractor{},
		summarizers:  &mockSummarizerFactory{},
		configLoader: &mockConfigLoader{},
		configStore:  &mockConfigStore{},
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}
}

// summarizer returns the summarizer the factory hands out.
func (m *testMocks) summarizer() *mockSummarizer {
	return m.summarizers.Summarizer()
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	getenv func(string) string
	now    func() time.Time
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

func withTestExtractor(x *mockExtractor) testEnvOption {
	return func(o *testEnvOptions) { o.mocks.extractor = x }
}

// testEnv creates a test Env with all dependencies mocked.
// The default environment selects a command backend and nothing else.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		getenv: defaultTestEnv,
		now:    fixedTime(time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)),
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	m := options.mocks
	env := &Env{
		Stderr:            m.stderr,
		Stdout:            m.stdout,
		Getenv:            options.getenv,
		LookPath:          noExecutables,
		Now:               options.now,
		Extractor:         m.extractor,
		SummarizerFactory: m.summarizers,
		ConfigLoader:      m.configLoader,
		ConfigStore:       m.configStore,
	}

	return env, m
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv configures a summarization command.
func defaultTestEnv(key string) string {
	if key == "SUMMARIZE_CMD" {
		return "fake-llm"
	}
	return ""
}

// noExecutables is a LookPath that finds nothing.
func noExecutables(name string) (string, error) {
	return "", errors.New("executable file not found in $PATH")
}

// createTestPDF creates a placeholder input file. Extraction is mocked, so
// the content is never parsed. The file is cleaned up after the test.
func createTestPDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644); err != nil {
		t.Fatalf("failed to create test PDF: %v", err)
	}
	return path
}

// runSummarizeCmd executes the summarize command with args.
func runSummarizeCmd(ctx context.Context, env *Env, args ...string) error {
	cmd := SummarizeCmd(env)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(ctx)
}
