package summarize

import (
	"context"

	"github.com/alnah/go-pdfsummary/internal/segment"
)

// Progress phases reported by Aggregator.
const (
	PhaseMap    = "map"
	PhaseReduce = "reduce"
	PhaseSingle = "single"
)

// PromptBuilder renders request payloads.
// *template.Builder implements this.
type PromptBuilder interface {
	Chunk(chunk string) string
	Merge(partials []string) string
	Summary(text string) string
}

// Result is the outcome of an aggregation.
type Result struct {
	Body       string // Final Markdown body.
	Parts      int    // Number of chunk summaries merged; 0 for single pass.
	SinglePass bool
}

// Aggregator summarizes a document either in one pass or chunk by chunk
// followed by a merge.
type Aggregator struct {
	controller *Controller
	builder    PromptBuilder
	onProgress func(phase string, current, total int)
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithProgress sets a progress callback.
func WithProgress(fn func(phase string, current, total int)) AggregatorOption {
	return func(a *Aggregator) { a.onProgress = fn }
}

// NewAggregator creates an Aggregator.
func NewAggregator(ctl *Controller, builder PromptBuilder, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{controller: ctl, builder: builder}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run summarizes text. The single-pass path is taken when singlePass is set
// or when chunks holds at most one element; text is then summarized whole.
// Otherwise chunks are summarized strictly in order and merged.
// Any invocation failure aborts the run with a *StageError.
func (a *Aggregator) Run(ctx context.Context, text string, chunks []segment.Chunk, singlePass bool) (Result, error) {
	if singlePass || len(chunks) <= 1 {
		a.progress(PhaseSingle, 1, 1)
		body, err := a.controller.Invoke(ctx, a.builder.Summary(text))
		if err != nil {
			return Result{}, &StageError{Stage: StageDocument, Err: err}
		}
		return Result{Body: body, SinglePass: true}, nil
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		a.progress(PhaseMap, i+1, len(chunks))

		out, err := a.controller.Invoke(ctx, a.builder.Chunk(chunk.Content))
		if err != nil {
			return Result{}, &StageError{Stage: StageChunk, Index: i, Total: len(chunks), Err: err}
		}
		partials = append(partials, out)
	}

	a.progress(PhaseReduce, 1, 1)
	body, err := a.controller.Invoke(ctx, a.builder.Merge(partials))
	if err != nil {
		return Result{}, &StageError{Stage: StageMerge, Err: err}
	}
	return Result{Body: body, Parts: len(partials)}, nil
}

func (a *Aggregator) progress(phase string, current, total int) {
	if a.onProgress != nil {
		a.onProgress(phase, current, total)
	}
}
