package cli

import (
	"errors"

	"github.com/alnah/go-pdfsummary/internal/summarize"
)

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates the selected API backend has no key.
	// It is the summarize sentinel so that errors.Is matches either name.
	ErrAPIKeyMissing = summarize.ErrAPIKeyMissing

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrNotAFile indicates the input path is a directory or special file.
	ErrNotAFile = errors.New("not a regular file")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")
)
