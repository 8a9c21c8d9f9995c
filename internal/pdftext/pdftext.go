// Package pdftext extracts the embedded text layer of PDF documents.
//
// Only the text layer is read; scanned (image-only) PDFs yield no text and
// are reported with ErrNoText.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/alnah/go-pdfsummary/internal/pages"
)

// ErrUnreadable indicates the file could not be opened or parsed as a PDF.
var ErrUnreadable = errors.New("unreadable PDF")

// ErrNoText indicates no text could be extracted from the selected pages.
var ErrNoText = errors.New("no text extracted")

// pageSeparator joins the text of consecutive pages. It is a blank line so
// that paragraph segmentation never packs across a page boundary silently.
const pageSeparator = "\n\n"

// Extractor extracts raw text from a document.
type Extractor interface {
	// Extract returns the text of the selected pages (zero Range = all pages).
	// Returns ErrUnreadable for broken files and ErrNoText for empty results.
	Extract(ctx context.Context, path string, sel pages.Range) (Result, error)
}

// Result is the outcome of an extraction.
type Result struct {
	Text      string // Raw text, pages joined by a blank line.
	PageCount int    // Total pages in the document.
	Extracted int    // Pages that contributed text.
}

// Compile-time interface implementation check.
var _ Extractor = (*PDFExtractor)(nil)

// PDFExtractor implements Extractor with a pure-Go PDF parser.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract reads the text layer of the selected pages.
// Selected pages beyond the end of the document are ignored.
func (e *PDFExtractor) Extract(ctx context.Context, path string, sel pages.Range) (res Result, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = fmt.Errorf("%s: %v: %w", path, r, ErrUnreadable)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %v: %w", path, err, ErrUnreadable)
	}
	defer func() { _ = f.Close() }()

	res.PageCount = r.NumPage()
	fonts := make(map[string]*pdf.Font)
	var parts []string

	for i := 1; i <= res.PageCount; i++ {
		if !sel.Contains(i) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return Result{}, fmt.Errorf("%s: page %d: %v: %w", path, i, err, ErrUnreadable)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
		res.Extracted++
	}

	res.Text = strings.Join(parts, pageSeparator)
	if strings.TrimSpace(res.Text) == "" {
		if !sel.IsZero() {
			return Result{}, fmt.Errorf("%s (pages %s of %d): %w", path, sel, res.PageCount, ErrNoText)
		}
		return Result{}, fmt.Errorf("%s: %w", path, ErrNoText)
	}
	return res, nil
}
