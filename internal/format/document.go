package format

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.yaml.in/yaml/v3"
)

// ErrUnknownFormat indicates an unsupported output format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Output format names.
const (
	Markdown = "md"
	HTML     = "html"
)

// Kind is a validated output format. The zero value behaves as Markdown.
type Kind struct {
	name string
}

// Pre-parsed kinds.
var (
	MarkdownKind = Kind{name: Markdown}
	HTMLKind     = Kind{name: HTML}
)

// ParseKind validates a format name. Empty selects Markdown; "markdown" is
// accepted as an alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", Markdown, "markdown":
		return MarkdownKind, nil
	case HTML:
		return HTMLKind, nil
	default:
		return Kind{}, fmt.Errorf("%q (use %q or %q): %w", s, Markdown, HTML, ErrUnknownFormat)
	}
}

// String returns the format name.
func (k Kind) String() string {
	if k.name == "" {
		return Markdown
	}
	return k.name
}

// Extension returns the file extension for the format, with the dot.
func (k Kind) Extension() string {
	return "." + k.String()
}

// dateLayout is the ISO calendar date written into the metadata header.
const dateLayout = "2006-01-02"

// Document is a finished summary ready to be written out.
type Document struct {
	Source   string    // Absolute path of the summarized PDF.
	Date     time.Time // Generation date; only the calendar date is rendered.
	Title    string
	Language string // Target language code. Omitted from the header when empty.
	Body     string // Markdown summary body.
}

type frontMatter struct {
	Source   string `yaml:"source"`
	Date     string `yaml:"date"`
	Title    string `yaml:"title"`
	Language string `yaml:"language,omitempty"`
}

// Render renders the document in the given format.
func (d Document) Render(k Kind) (string, error) {
	if k.name == HTML {
		return d.HTML()
	}
	return d.Markdown()
}

// Markdown renders YAML front matter followed by "# Title" and the trimmed
// body, terminated by exactly one newline.
func (d Document) Markdown() (string, error) {
	meta, err := yaml.Marshal(frontMatter{
		Source:   d.Source,
		Date:     d.Date.Format(dateLayout),
		Title:    d.Title,
		Language: d.Language,
	})
	if err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(d.content())
	return b.String(), nil
}

// HTML renders a standalone HTML page. The metadata goes into <meta> tags and
// the Markdown content is converted with GitHub-flavored extensions.
func (d Document) HTML() (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(d.content()), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	lang := d.Language
	if lang == "" {
		lang = "und"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, "<html lang=\"%s\">\n<head>\n<meta charset=\"utf-8\">\n", html.EscapeString(lang))
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(d.Title))
	fmt.Fprintf(&b, "<meta name=\"source\" content=\"%s\">\n", html.EscapeString(d.Source))
	fmt.Fprintf(&b, "<meta name=\"date\" content=\"%s\">\n", d.Date.Format(dateLayout))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// content returns the heading and trimmed body shared by both formats.
func (d Document) content() string {
	return "# " + d.Title + "\n\n" + strings.TrimSpace(d.Body) + "\n"
}
