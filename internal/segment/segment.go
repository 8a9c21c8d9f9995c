// Package segment normalizes extracted text and splits it into bounded-size
// chunks for summarization.
//
// Two policies exist. Window (the default) is lossless: concatenating the
// chunks with their overlaps removed reconstructs the normalized text exactly.
// Paragraph packs whole paragraphs and is boundary-aligned instead: the
// "\n\n" joiners are rebuilt, blank-line runs and paragraph-internal
// whitespace are canonicalized, and only oversized paragraphs are cut
// mid-text. Sizes are counted in characters (runes), never bytes.
package segment

import (
	"errors"
	"fmt"
)

// ErrUnknownPolicy indicates an invalid segmentation policy name.
var ErrUnknownPolicy = errors.New("unknown split policy")

// Policy names.
const (
	Window    = "window"
	Paragraph = "paragraph"
)

// Policy is a validated segmentation policy.
// The zero value behaves as Window.
type Policy struct {
	name string
}

// Pre-parsed policies.
var (
	WindowPolicy    = Policy{name: Window}
	ParagraphPolicy = Policy{name: Paragraph}
)

// ParsePolicy validates a policy name. Empty selects Window.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", Window:
		return WindowPolicy, nil
	case Paragraph:
		return ParagraphPolicy, nil
	default:
		return Policy{}, fmt.Errorf("unknown split policy %q (use %q or %q): %w", s, Window, Paragraph, ErrUnknownPolicy)
	}
}

// String returns the policy name.
func (p Policy) String() string {
	if p.name == "" {
		return Window
	}
	return p.name
}

// Chunk is one bounded piece of the source text.
type Chunk struct {
	Index   int    // 0-based position in the sequence.
	Total   int    // Number of chunks in the sequence.
	Content string // Chunk text.
}

// String returns a 1-indexed label for progress and error messages.
func (c Chunk) String() string {
	return fmt.Sprintf("part %d/%d", c.Index+1, c.Total)
}

// Options configures Split.
type Options struct {
	Policy  Policy
	MaxSize int // Maximum chunk length in characters. <= 0 disables splitting.
	Overlap int // Shared characters between window chunks. Ignored by Paragraph.
}

// Split normalizes raw extracted text and segments it with the configured policy.
// The window policy always returns at least one chunk (possibly empty);
// the paragraph policy returns no chunks for blank input.
func Split(raw string, opts Options) []Chunk {
	var pieces []string
	if opts.Policy.name == Paragraph {
		pieces = PackParagraphs(Paragraphs(raw), opts.MaxSize)
	} else {
		pieces = SplitWindow(Normalize(raw), opts.MaxSize, opts.Overlap)
	}
	return toChunks(pieces)
}

func toChunks(pieces []string) []Chunk {
	chunks := make([]Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = Chunk{Index: i, Total: len(pieces), Content: p}
	}
	return chunks
}
