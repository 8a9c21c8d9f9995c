package summarize_test

import (
	"errors"
	"testing"

	"github.com/alnah/go-pdfsummary/internal/summarize"
)

func TestStageError(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 1: model not found")

	tests := []struct {
		name string
		err  *summarize.StageError
		want string
	}{
		{"chunk", &summarize.StageError{Stage: summarize.StageChunk, Index: 2, Total: 7, Err: cause},
			"summarizing part 3/7: exit status 1: model not found"},
		{"merge", &summarize.StageError{Stage: summarize.StageMerge, Err: cause},
			"merging parts: exit status 1: model not found"},
		{"document", &summarize.StageError{Stage: summarize.StageDocument, Err: cause},
			"summarizing document: exit status 1: model not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, cause) {
				t.Error("StageError does not unwrap to its cause")
			}

			var se *summarize.StageError
			if !errors.As(error(tt.err), &se) || se.Stage != tt.err.Stage {
				t.Error("errors.As failed to recover the stage")
			}
		})
	}
}
