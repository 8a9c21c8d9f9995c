package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-pdfsummary/internal/cli"
	"github.com/alnah/go-pdfsummary/internal/config"
	"github.com/alnah/go-pdfsummary/internal/format"
	"github.com/alnah/go-pdfsummary/internal/interrupt"
	"github.com/alnah/go-pdfsummary/internal/lang"
	"github.com/alnah/go-pdfsummary/internal/pages"
	"github.com/alnah/go-pdfsummary/internal/pdftext"
	"github.com/alnah/go-pdfsummary/internal/segment"
	"github.com/alnah/go-pdfsummary/internal/summarize"
	"github.com/alnah/go-pdfsummary/internal/template"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK            = 0
	ExitGeneral       = 1
	ExitUsage         = 2
	ExitSetup         = 3
	ExitInput         = 4
	ExitSummarization = 5
	ExitInterrupt     = interrupt.ExitInterrupt
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// First Ctrl+C cancels the run, a second one exits at once.
	handler, ctx := interrupt.NewHandler(context.Background())

	env := cli.DefaultEnv()

	err := newRootCmd(env).ExecuteContext(ctx)
	interrupted := handler.WasInterrupted()
	handler.Stop()

	if err != nil {
		if interrupted && errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted.")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

// newRootCmd assembles the command tree.
func newRootCmd(env *cli.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pdfsummary",
		Short:   "Summarize PDF documents with a language model",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.SummarizeCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))
	rootCmd.AddCommand(cli.TemplateCmd(env))

	return rootCmd
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context cancellation (interrupt).
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors and
	// setting values no run can use.
	if isCobraUsageError(err) ||
		errors.Is(err, config.ErrInvalidValue) || errors.Is(err, config.ErrUnknownKey) ||
		errors.Is(err, lang.ErrInvalid) || errors.Is(err, segment.ErrUnknownPolicy) ||
		errors.Is(err, format.ErrUnknownFormat) || errors.Is(err, template.ErrUnknown) {
		return ExitUsage
	}

	// Setup errors (ExitSetup = 3): nothing to summarize with.
	if errors.Is(err, summarize.ErrNoBackend) || errors.Is(err, cli.ErrAPIKeyMissing) ||
		errors.Is(err, summarize.ErrInvalidMode) ||
		errors.Is(err, config.ErrNotDirectory) || errors.Is(err, config.ErrNotWritable) {
		return ExitSetup
	}

	// Input errors (ExitInput = 4).
	if errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrNotAFile) ||
		errors.Is(err, pages.ErrInvalid) || errors.Is(err, pdftext.ErrUnreadable) ||
		errors.Is(err, pdftext.ErrNoText) || errors.Is(err, cli.ErrOutputExists) {
		return ExitInput
	}

	// Summarization errors (ExitSummarization = 5): any failed request.
	var stageErr *summarize.StageError
	if errors.As(err, &stageErr) {
		return ExitSummarization
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"unknown command",           // Subcommand doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
