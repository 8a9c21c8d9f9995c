package segment_test

// Notes:
// - Lengths are asserted in runes; multi-byte fixtures guard against byte slicing.
// - Reconstruction helpers strip overlaps using the returned piece lengths,
//   so they hold for any (maxSize, overlap) pair.

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alnah/go-pdfsummary/internal/segment"
)

// reconstruct concatenates window pieces after removing the shared prefix of
// each piece after the first.
func reconstruct(pieces []string, overlap int) string {
	var b strings.Builder
	for i, p := range pieces {
		r := []rune(p)
		if i > 0 {
			shared := min(overlap, len([]rune(pieces[i-1]))-1)
			r = r[shared:]
		}
		b.WriteString(string(r))
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// SplitWindow - Fixed-size sliding window
// ---------------------------------------------------------------------------

func TestSplitWindow_Reconstructs(t *testing.T) {
	t.Parallel()

	texts := []string{
		"a",
		"abcdefghij",
		strings.Repeat("lorem ipsum ", 97),
		strings.Repeat("日本語のテキスト。", 250),
		strings.Repeat("x", 1000),
	}
	params := []struct{ maxSize, overlap int }{
		{10, 1}, {10, 5}, {10, 9}, {100, 20}, {7, 3}, {1000, 999},
	}

	for _, text := range texts {
		for _, p := range params {
			pieces := segment.SplitWindow(text, p.maxSize, p.overlap)
			if got := reconstruct(pieces, p.overlap); got != text {
				t.Errorf("SplitWindow(len=%d, %d, %d) does not reconstruct: got %d runes",
					utf8.RuneCountInString(text), p.maxSize, p.overlap, utf8.RuneCountInString(got))
			}

			// Every start advances at most maxSize-overlap and at least 1.
			start := 0
			for i, piece := range pieces {
				n := utf8.RuneCountInString(piece)
				if n > p.maxSize {
					t.Errorf("piece %d has %d runes, max %d", i, n, p.maxSize)
				}
				if i+1 < len(pieces) {
					next := start + n - min(p.overlap, n-1)
					step := next - start
					if step > p.maxSize-p.overlap && step != 1 {
						t.Errorf("step %d exceeds %d", step, p.maxSize-p.overlap)
					}
					if step < 1 {
						t.Errorf("no forward progress at piece %d", i)
					}
					start = next
				}
			}
		}
	}
}

func TestSplitWindow_HelloWorldScenario(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("Hello world. ", 1500) // 19500 runes
	pieces := segment.SplitWindow(text, 8000, 400)

	if len(pieces) < 2 {
		t.Fatalf("got %d pieces, want more than 1", len(pieces))
	}
	for i := 0; i+1 < len(pieces); i++ {
		cur := []rune(pieces[i])
		next := []rune(pieces[i+1])
		if len(cur) != 8000 {
			t.Errorf("piece %d has %d runes, want 8000", i, len(cur))
		}
		tail := string(cur[len(cur)-400:])
		head := string(next[:min(400, len(next))])
		if tail != head {
			t.Errorf("pieces %d and %d do not share 400 characters", i, i+1)
		}
	}
	if got := reconstruct(pieces, 400); got != text {
		t.Error("pieces do not reconstruct the input")
	}
}

func TestSplitWindow_EdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		maxSize int
		overlap int
		want    []string
	}{
		{"empty input", "", 10, 2, []string{""}},
		{"zero max disables splitting", "abcdef", 0, 0, []string{"abcdef"}},
		{"negative max disables splitting", "abcdef", -5, 2, []string{"abcdef"}},
		{"fits in one window", "abc", 10, 2, []string{"abc"}},
		{"exact fit", "abcde", 5, 2, []string{"abcde"}},
		{"negative overlap as zero", "abcdef", 3, -1, []string{"abc", "def"}},
		{"overlap at max forces step 1", "abcd", 2, 2, []string{"ab", "bc", "cd"}},
		{"overlap beyond max forces step 1", "abc", 2, 9, []string{"ab", "bc"}},
		{"runes not bytes", "äöüß", 2, 0, []string{"äö", "üß"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := segment.SplitWindow(tt.text, tt.maxSize, tt.overlap)
			if !equal(got, tt.want) {
				t.Errorf("SplitWindow(%q, %d, %d) = %q, want %q", tt.text, tt.maxSize, tt.overlap, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// PackParagraphs - Greedy paragraph packing
// ---------------------------------------------------------------------------

func TestPackParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		paragraphs []string
		maxSize    int
		want       []string
	}{
		{"nil input", nil, 10, nil},
		{"single paragraph", []string{"abc"}, 10, []string{"abc"}},
		{"joiner counted after first", []string{"abcd", "efgh"}, 10, []string{"abcd\n\nefgh"}},
		{"joiner overflows", []string{"abcd", "efghi"}, 10, []string{"abcd", "efghi"}},
		{"first paragraph fills budget exactly", []string{"abcdefghij", "k"}, 10, []string{"abcdefghij", "k"}},
		{"oversized flushes then slices", []string{"ab", "0123456789xyz", "cd"}, 10, []string{"ab", "0123456789", "xyz", "cd"}},
		{"zero max keeps paragraphs", []string{"a", "b"}, 0, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := segment.PackParagraphs(tt.paragraphs, tt.maxSize)
			if !equal(got, tt.want) {
				t.Errorf("PackParagraphs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPackParagraphs_NeverExceedsMax(t *testing.T) {
	t.Parallel()

	var paragraphs []string
	for i := range 200 {
		paragraphs = append(paragraphs, strings.Repeat("w", 1+(i*37)%90))
	}

	for _, maxSize := range []int{5, 50, 100, 333} {
		for i, chunk := range segment.PackParagraphs(paragraphs, maxSize) {
			if n := utf8.RuneCountInString(chunk); n > maxSize {
				t.Errorf("max %d: chunk %d has %d runes", maxSize, i, n)
			}
		}
	}
}

func TestPackParagraphs_KeepsEveryParagraphInOrder(t *testing.T) {
	t.Parallel()

	paragraphs := []string{"one", "two two", "three three three", "four", "five five"}
	chunks := segment.PackParagraphs(paragraphs, 20)

	got := strings.Split(strings.Join(chunks, "\n\n"), "\n\n")
	if !equal(got, paragraphs) {
		t.Errorf("paragraph order changed: %q", got)
	}
}

// ---------------------------------------------------------------------------
// Normalize / Paragraphs - Canonical text
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
		{"collapses runs", "a  b\n\nc\td", "a b c d"},
		{"trims", "  hello  ", "hello"},
		{"ligature folded", "ﬁle", "file"},
		{"full-width ascii folded", "ＡＢＣ１", "ABC1"},
		{"ideographic space collapsed", "日本　語", "日本 語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := segment.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank lines only", "\n\n  \n", nil},
		{"single paragraph with line breaks", "line one\nline two", []string{"line one line two"}},
		{"blank line splits", "first\n\nsecond", []string{"first", "second"}},
		{"whitespace-only line splits", "first\n   \nsecond", []string{"first", "second"}},
		{"crlf", "first\r\n\r\nsecond", []string{"first", "second"}},
		{"runs of blank lines", "a\n\n\n\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := segment.Paragraphs(tt.in)
			if !equal(got, tt.want) {
				t.Errorf("Paragraphs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Split / ParsePolicy - Policy dispatch
// ---------------------------------------------------------------------------

func TestSplit_EmptyInput(t *testing.T) {
	t.Parallel()

	window := segment.Split("  \n ", segment.Options{Policy: segment.WindowPolicy, MaxSize: 10})
	if len(window) != 1 || window[0].Content != "" {
		t.Errorf("window: got %+v, want one empty chunk", window)
	}

	paragraph := segment.Split("  \n ", segment.Options{Policy: segment.ParagraphPolicy, MaxSize: 10})
	if len(paragraph) != 0 {
		t.Errorf("paragraph: got %+v, want no chunks", paragraph)
	}
}

func TestSplit_NumbersChunks(t *testing.T) {
	t.Parallel()

	chunks := segment.Split("aaaa bbbb cccc", segment.Options{MaxSize: 5})
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i || c.Total != 3 {
			t.Errorf("chunk %d: Index=%d Total=%d", i, c.Index, c.Total)
		}
	}
	if got := chunks[1].String(); got != "part 2/3" {
		t.Errorf("String() = %q, want %q", got, "part 2/3")
	}
}

func TestSplit_ParagraphPolicy(t *testing.T) {
	t.Parallel()

	chunks := segment.Split("alpha\n\nbeta\n\ngamma delta", segment.Options{Policy: segment.ParagraphPolicy, MaxSize: 12})
	want := []string{"alpha\n\nbeta", "gamma delta"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(want))
	}
	for i := range want {
		if chunks[i].Content != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i].Content, want[i])
		}
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", segment.Window, false},
		{"window", segment.Window, false},
		{"paragraph", segment.Paragraph, false},
		{"sentence", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := segment.ParsePolicy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, segment.ErrUnknownPolicy) {
					t.Errorf("ParsePolicy(%q) error = %v, want ErrUnknownPolicy", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePolicy(%q) unexpected error: %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
