package summarize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alnah/go-pdfsummary/internal/apierr"
)

// maxStderrInError caps the stderr excerpt carried by ErrCommandFailed.
const maxStderrInError = 2000

// waitDelay bounds how long a killed command may keep its pipes open.
const waitDelay = 5 * time.Second

// runFn runs name with args, feeding stdin, and captures both output streams.
type runFn func(ctx context.Context, name string, args []string, stdin string) (stdout, stderr string, err error)

// Compile-time interface compliance check.
var _ Summarizer = (*CommandSummarizer)(nil)

// CommandSummarizer pipes the prompt to a shell command and reads the summary
// from its standard output.
type CommandSummarizer struct {
	command string
	timeout time.Duration
	goos    string
	run     runFn
}

// CommandOption configures a CommandSummarizer.
type CommandOption func(*CommandSummarizer)

// WithCommandTimeout sets the per-invocation timeout.
func WithCommandTimeout(d time.Duration) CommandOption {
	return func(s *CommandSummarizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// withRun sets a custom runner (for testing).
func withRun(fn runFn) CommandOption {
	return func(s *CommandSummarizer) { s.run = fn }
}

// withGOOS sets the target platform (for testing shell selection).
func withGOOS(goos string) CommandOption {
	return func(s *CommandSummarizer) { s.goos = goos }
}

// NewCommandSummarizer creates a CommandSummarizer for a shell command line.
func NewCommandSummarizer(command string, opts ...CommandOption) *CommandSummarizer {
	s := &CommandSummarizer{
		command: command,
		timeout: DefaultTimeout,
		goos:    runtime.GOOS,
		run:     defaultRun,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize runs the command once with prompt on stdin.
// A nonzero exit returns ErrCommandFailed carrying the trimmed stderr.
func (s *CommandSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name, args := s.shell()
	stdout, stderr, err := s.run(ctx, name, args, prompt)
	if err != nil {
		return "", s.classify(ctx, err, stderr)
	}

	out := strings.TrimSpace(strings.ToValidUTF8(stdout, ""))
	if out == "" {
		return "", fmt.Errorf("command %q produced no output: %w", s.command, ErrEmptyResponse)
	}
	return out, nil
}

// shell returns the interpreter invocation for the command line.
func (s *CommandSummarizer) shell() (string, []string) {
	if s.goos == "windows" {
		return "cmd", []string{"/C", s.command}
	}
	return "sh", []string{"-c", s.command}
}

func (s *CommandSummarizer) classify(ctx context.Context, err error, stderr string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("command timed out after %v: %w", s.timeout, apierr.ErrTimeout)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(strings.ToValidUTF8(stderr, ""))
		if len(msg) > maxStderrInError {
			msg = truncateUTF8(msg, maxStderrInError) + "..."
		}
		if msg == "" {
			return fmt.Errorf("exit status %d: %w", exitErr.ExitCode(), ErrCommandFailed)
		}
		return fmt.Errorf("exit status %d: %s: %w", exitErr.ExitCode(), msg, ErrCommandFailed)
	}
	return fmt.Errorf("start %q: %v: %w", s.command, err, ErrBackendUnavailable)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// defaultRun is the production runner.
func defaultRun(ctx context.Context, name string, args []string, stdin string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
