package segment

import (
	"strings"
	"unicode/utf8"
)

const paragraphJoiner = "\n\n"

// PackParagraphs greedily packs paragraphs into chunks of at most maxSize
// characters, joining neighbours with a blank line. A paragraph longer than
// maxSize flushes the pending chunk and is sliced into maxSize pieces.
//
// maxSize <= 0 makes each paragraph its own chunk. No paragraphs yields nil.
func PackParagraphs(paragraphs []string, maxSize int) []string {
	if len(paragraphs) == 0 {
		return nil
	}
	if maxSize <= 0 {
		return append([]string(nil), paragraphs...)
	}

	var (
		out    []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	joinLen := utf8.RuneCountInString(paragraphJoiner)
	for _, p := range paragraphs {
		plen := utf8.RuneCountInString(p)
		if plen > maxSize {
			flush()
			out = append(out, SplitWindow(p, maxSize, 0)...)
			continue
		}

		add := plen
		if curLen > 0 {
			add += joinLen
		}
		if curLen+add > maxSize {
			flush()
			add = plen
		}
		if curLen > 0 {
			cur.WriteString(paragraphJoiner)
		}
		cur.WriteString(p)
		curLen += add
	}
	flush()
	return out
}
