package summarize

import (
	"errors"
	"fmt"
)

// Setup errors, detected before any invocation.
var (
	// ErrNoBackend indicates no summarization backend could be resolved.
	ErrNoBackend = errors.New("no summarization backend available")

	// ErrAPIKeyMissing indicates the selected API backend has no credential.
	ErrAPIKeyMissing = errors.New("API key not set")

	// ErrInvalidMode indicates an unknown backend mode.
	ErrInvalidMode = errors.New("invalid backend mode")
)

// Invocation errors.
var (
	// ErrCommandFailed indicates the summarization command exited with a
	// nonzero status. The error message carries its trimmed stderr.
	ErrCommandFailed = errors.New("summarization command failed")

	// ErrBackendUnavailable indicates the backend could not be reached
	// (shell missing, connection refused).
	ErrBackendUnavailable = errors.New("summarization backend unavailable")

	// ErrEmptyResponse indicates the backend returned no text.
	ErrEmptyResponse = errors.New("empty response from backend")
)

// Stage identifies which step of a run an invocation belongs to.
type Stage string

// Stages of a run.
const (
	StageChunk    Stage = "chunk"
	StageMerge    Stage = "merge"
	StageDocument Stage = "document"
)

// StageError reports a failed invocation together with the step it served.
type StageError struct {
	Stage Stage
	Index int // 0-based chunk index, StageChunk only.
	Total int // Number of chunks, StageChunk only.
	Err   error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StageChunk:
		return fmt.Sprintf("summarizing part %d/%d: %v", e.Index+1, e.Total, e.Err)
	case StageMerge:
		return fmt.Sprintf("merging parts: %v", e.Err)
	default:
		return fmt.Sprintf("summarizing document: %v", e.Err)
	}
}

func (e *StageError) Unwrap() error {
	return e.Err
}
