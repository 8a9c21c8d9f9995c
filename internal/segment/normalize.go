package segment

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}]+`)
	blankLine     = regexp.MustCompile(`\r?\n[ \t\f\v\r]*\r?\n`)
)

// Normalize returns the canonical single-spaced form of extracted text.
// NFKC folds compatibility characters that PDF text layers are full of
// (ligatures, full-width ASCII), then every whitespace run becomes one space.
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Paragraphs splits raw text on blank lines and normalizes each paragraph.
// Empty paragraphs are dropped. Blank input returns nil.
func Paragraphs(raw string) []string {
	s := norm.NFKC.String(raw)
	var out []string
	for _, p := range blankLine.Split(s, -1) {
		if p = Normalize(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
