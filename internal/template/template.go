// Package template holds the built-in summarization prompts and renders them,
// or user-supplied replacements, into request payloads.
package template

import (
	"fmt"
)

// Template name constants.
// Use these instead of string literals for compile-time safety.
const (
	Chunk   = "chunk"
	Merge   = "merge"
	Summary = "summary"
)

// ---------------------------------------------------------------------------
// Name type - represents a validated template name
// ---------------------------------------------------------------------------

// Name represents a validated template name.
// Zero value is invalid and must not be used with Prompt().
// Use ParseName to create from user input, or the pre-parsed constants.
type Name struct {
	name string
}

// Pre-parsed template name constants for use in code.
var (
	ChunkName   = Name{name: Chunk}
	MergeName   = Name{name: Merge}
	SummaryName = Name{name: Summary}
)

// ParseName validates and parses a template name string.
// Returns ErrUnknown if the name is not recognized.
func ParseName(s string) (Name, error) {
	if s == "" {
		return Name{}, fmt.Errorf("template name cannot be empty: %w", ErrUnknown)
	}
	if _, ok := templates[s]; !ok {
		return Name{}, fmt.Errorf("unknown template %q (available: %v): %w", s, templateOrder, ErrUnknown)
	}
	return Name{name: s}, nil
}

// MustParseName parses a template name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the template name string.
// Returns empty string for zero value.
func (n Name) String() string {
	return n.name
}

// IsZero returns true if this is the zero value.
func (n Name) IsZero() bool {
	return n.name == ""
}

// Prompt returns the built-in template text, placeholders unrendered.
// Panics if called on zero value.
func (n Name) Prompt() string {
	if n.name == "" {
		panic("template.Name.Prompt called on zero value")
	}
	return templates[n.name]
}

// templateOrder defines the canonical order for Names().
var templateOrder = []string{
	Chunk,
	Merge,
	Summary,
}

// templates maps template names to their built-in text.
// Prompts are versioned with the binary; update requires rebuild.
var templates = map[string]string{
	Chunk:   chunkPrompt,
	Merge:   mergePrompt,
	Summary: summaryPrompt,
}

// Get returns the built-in template for the given name.
// Returns ErrUnknown if the name is not recognized.
func Get(name string) (string, error) {
	n, err := ParseName(name)
	if err != nil {
		return "", err
	}
	return n.Prompt(), nil
}

// Names returns the list of built-in template names in canonical order.
func Names() []string {
	result := make([]string, len(templateOrder))
	copy(result, templateOrder)
	return result
}

// Built-in templates in English. {language} carries the English name of the
// target language; {instruction} is the optional extra instruction block.

const chunkPrompt = `The text below is one part of a document extracted from a PDF. Summarize it in {language} as Markdown without losing important information.

Rules:
- Output Markdown only, with no preamble or closing remarks
- Prefer bullet points, at most {max_bullets}
- Keep numbers, dates and proper nouns exactly as written
- Ignore extraction noise such as running headers and page numbers
- Write only in {language}; never answer in any other language

{instruction}=== CONTENT START ===
{chunk}
=== CONTENT END ===
`

const mergePrompt = `The text below contains partial summaries of consecutive parts of one PDF document. Merge them into a single final Markdown summary in {language}.

Rules:
- Start with the heading "# Summary" followed by a short overview
- Then "## Key Points" with at most {max_bullets} bullet points
{sections}- Consolidate duplicate or equivalent points and resolve contradictions where possible
- State numbers, dates and metrics explicitly; avoid redundant wording
- End with "## Takeaways" as 3 to 7 bullet points
- Write only in {language}; never answer in any other language

{instruction}=== PARTIAL SUMMARIES START ===
{partials}
=== PARTIAL SUMMARIES END ===
`

const summaryPrompt = `The text below is the full text extracted from a PDF document. Write a concise final Markdown summary in {language} without losing important information.

Rules:
- Start with the heading "# Summary" followed by a short overview
- Then "## Key Points" with at most {max_bullets} bullet points
{sections}- State numbers, dates and metrics explicitly; avoid redundant wording
- End with "## Takeaways" as 3 to 7 bullet points
- Write only in {language}; never answer in any other language

{instruction}=== CONTENT START ===
{text}
=== CONTENT END ===
`
