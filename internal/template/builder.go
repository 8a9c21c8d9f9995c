package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-pdfsummary/internal/lang"
)

// Options configures a Builder.
type Options struct {
	Language          string // Target language code (e.g., "ja").
	SummaryMaxBullets int    // Key point cap for the single-pass summary.
	ChunkMaxBullets   int    // Bullet cap per chunk summary.
	MergeMaxBullets   int    // Key point cap for the merged summary.
	IncludeActions    bool
	IncludeRisks      bool
	ExtraInstruction  string // Free text inserted before the content block.

	// User template files. Empty, missing or unreadable means built-in.
	ChunkFile   string
	MergeFile   string
	SummaryFile string
}

// Builder renders request payloads. It is safe for concurrent use.
type Builder struct {
	opts      Options
	overrides map[string]string
}

// NewBuilder creates a Builder, reading every configured template file once.
func NewBuilder(opts Options) *Builder {
	b := &Builder{opts: opts, overrides: make(map[string]string)}
	for name, path := range map[string]string{
		Chunk:   opts.ChunkFile,
		Merge:   opts.MergeFile,
		Summary: opts.SummaryFile,
	} {
		if text, ok := LoadFile(path); ok {
			b.overrides[name] = text
		}
	}
	return b
}

// Overridden reports whether a user file replaces the named template.
func (b *Builder) Overridden(name Name) bool {
	_, ok := b.overrides[name.String()]
	return ok
}

// Chunk renders the payload for one chunk.
func (b *Builder) Chunk(chunk string) string {
	return b.render(ChunkName, b.opts.ChunkMaxBullets, map[string]string{
		"chunk": chunk,
		"text":  chunk,
	})
}

// Summary renders the single-pass payload for the whole document text.
func (b *Builder) Summary(text string) string {
	return b.render(SummaryName, b.opts.SummaryMaxBullets, map[string]string{
		"text":  text,
		"chunk": text,
	})
}

// Merge renders the payload that consolidates partial summaries.
func (b *Builder) Merge(partials []string) string {
	return b.render(MergeName, b.opts.MergeMaxBullets, map[string]string{
		"partials": JoinPartials(partials),
	})
}

// Corrective appends the language retry notice to an original payload.
func (b *Builder) Corrective(prompt string) string {
	name := lang.DisplayName(b.opts.Language)
	return prompt + fmt.Sprintf("\n\nNote: the previous answer was not written in %s. Answer only in %s and do not use any other language.", name, name)
}

func (b *Builder) render(name Name, maxBullets int, vars map[string]string) string {
	vars["max_bullets"] = strconv.Itoa(maxBullets)
	vars["language"] = lang.DisplayName(b.opts.Language)
	vars["include_actions"] = strconv.FormatBool(b.opts.IncludeActions)
	vars["include_risks"] = strconv.FormatBool(b.opts.IncludeRisks)
	vars["instruction"] = b.instruction()
	vars["sections"] = b.sections()

	tpl, ok := b.overrides[name.String()]
	if !ok {
		tpl = name.Prompt()
	}
	return Render(tpl, vars)
}

func (b *Builder) instruction() string {
	s := strings.TrimSpace(b.opts.ExtraInstruction)
	if s == "" {
		return ""
	}
	return s + "\n\n"
}

func (b *Builder) sections() string {
	var s strings.Builder
	if b.opts.IncludeActions {
		s.WriteString("- Then \"## Next Actions\" as bullet points\n")
	}
	if b.opts.IncludeRisks {
		s.WriteString("- Then \"## Risks\" as bullet points\n")
	}
	return s.String()
}

// JoinPartials joins partial summaries under numbered headings so the merged
// result can be traced back to its parts.
func JoinPartials(partials []string) string {
	var b strings.Builder
	for i, p := range partials {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "=== PART %d ===\n\n%s", i+1, p)
	}
	return b.String()
}
