package lang

import (
	"unicode"
	"unicode/utf8"
)

// Conformance thresholds: a text passes when it holds at least minScriptRunes
// runes of the target script, or when they make up at least 1/minScriptRatio
// of all runes.
const (
	minScriptRunes = 10
	minScriptRatio = 100
)

// The check is a heuristic, not a language classifier. A short ideograph-bearing
// quote inside otherwise foreign text can pass, and a very short response passes
// through the ratio clause alone. Scripts shared by several languages (Han for
// Japanese and Chinese, Cyrillic for Russian and Ukrainian) cannot be told apart.

var (
	cjkPunctuation = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x3000, Hi: 0x303f, Stride: 1}}}

	japaneseScript = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x303f, Stride: 1}, // CJK symbols and punctuation
		{Lo: 0x3040, Hi: 0x309f, Stride: 1}, // hiragana
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1}, // katakana
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1}, // CJK unified ideographs
	}}
)

var scripts = map[string]Checker{
	"japanese":   {name: "Japanese", tables: []*unicode.RangeTable{japaneseScript}},
	"chinese":    {name: "Han", tables: []*unicode.RangeTable{unicode.Han, cjkPunctuation}},
	"korean":     {name: "Hangul", tables: []*unicode.RangeTable{unicode.Hangul}},
	"cyrillic":   {name: "Cyrillic", tables: []*unicode.RangeTable{unicode.Cyrillic}},
	"greek":      {name: "Greek", tables: []*unicode.RangeTable{unicode.Greek}},
	"arabic":     {name: "Arabic", tables: []*unicode.RangeTable{unicode.Arabic}},
	"hebrew":     {name: "Hebrew", tables: []*unicode.RangeTable{unicode.Hebrew}},
	"thai":       {name: "Thai", tables: []*unicode.RangeTable{unicode.Thai}},
	"devanagari": {name: "Devanagari", tables: []*unicode.RangeTable{unicode.Devanagari}},
}

// scriptByBase maps base language codes to their script. Languages written in
// Latin script are absent: their output cannot be told apart by script.
var scriptByBase = map[string]string{
	"ja": "japanese",
	"zh": "chinese",
	"ko": "korean",
	"ru": "cyrillic", "uk": "cyrillic", "bg": "cyrillic", "sr": "cyrillic",
	"mk": "cyrillic", "be": "cyrillic", "kk": "cyrillic",
	"el": "greek",
	"ar": "arabic", "fa": "arabic", "ur": "arabic",
	"he": "hebrew", "yi": "hebrew",
	"th": "thai",
	"hi": "devanagari", "mr": "devanagari", "ne": "devanagari",
}

// Checker decides whether text is written in one script.
type Checker struct {
	name   string
	tables []*unicode.RangeTable
}

// CheckerFor returns the checker for a language code.
// ok is false when the language has no distinctive script.
func CheckerFor(lang string) (c Checker, ok bool) {
	script, ok := scriptByBase[BaseCode(lang)]
	if !ok {
		return Checker{}, false
	}
	return scripts[script], true
}

// Script returns the name of the checked script.
func (c Checker) Script() string {
	return c.name
}

// Count returns the number of runes of text within the script.
func (c Checker) Count(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsOneOf(c.tables, r) {
			n++
		}
	}
	return n
}

// Conforms reports whether text is assessed to be in the script.
// Empty text never conforms.
func (c Checker) Conforms(text string) bool {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return false
	}
	count := c.Count(text)
	return count >= minScriptRunes || count*minScriptRatio >= total
}
