package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/juris/internal/models"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PDF engine names accepted in configuration.
const (
	EngineLedongthuc = "ledongthuc"
	EnginePDFCPU     = "pdfcpu"
)

// PDFEngine opens a whole PDF buffer for page-by-page text access.
type PDFEngine interface {
	Name() string
	Open(content []byte) (PDFDocument, error)
}

// PDFDocument exposes the text tokens of each page. Pages are numbered from 1.
type PDFDocument interface {
	NumPages() int
	PageTokens(page int) ([]string, error)
}

// NewPDFEngine returns the engine registered under name. An empty name selects ledongthuc.
func NewPDFEngine(name string) (PDFEngine, error) {
	switch strings.ToLower(name) {
	case "", EngineLedongthuc:
		return LedongthucEngine{}, nil
	case EnginePDFCPU:
		return NewPDFCPUEngine(), nil
	default:
		return nil, fmt.Errorf("unknown pdf engine %q", name)
	}
}

// PageResult is the outcome of reading one page: either Text or Err is meaningful.
type PageResult struct {
	Page int
	Text string
	Err  error
}

func (e *Extractor) extractPDF(ctx context.Context, name string, r io.Reader) (*models.ExtractedDocument, []PageError, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if len(content) == 0 {
		return nil, nil, fmt.Errorf("%w: %s is empty", ErrInvalidPDF, name)
	}
	doc, err := openPDF(e.engine, content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	numPages := doc.NumPages()

	results, err := foldPages(ctx, doc, numPages)
	if err != nil {
		return nil, nil, err
	}

	var buf strings.Builder
	var warnings []PageError
	for _, res := range results {
		if res.Err != nil {
			warnings = append(warnings, PageError{Page: res.Page, Err: res.Err})
			e.logger.Warn("pdf page extraction failed",
				zap.String("file", name),
				zap.Int("page", res.Page),
				zap.Error(res.Err),
			)
			continue
		}
		buf.WriteString(res.Text)
		buf.WriteByte('\n')
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil, warnings, fmt.Errorf("%w: %s (%d page(s), %d failed)", ErrEmptyDocument, name, numPages, len(warnings))
	}
	return &models.ExtractedDocument{
		FullText:   text,
		PageCount:  &numPages,
		SourceKind: models.SourcePDF,
	}, warnings, nil
}

// foldPages reads pages 1..n in order, one at a time. A failed page becomes a
// PageResult with Err set; only context cancellation stops the fold.
func foldPages(ctx context.Context, doc PDFDocument, n int) ([]PageResult, error) {
	results := make([]PageResult, 0, n)
	for page := 1; page <= n; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, readPage(doc, page))
	}
	return results, nil
}

func readPage(doc PDFDocument, page int) (res PageResult) {
	res.Page = page
	defer func() {
		if r := recover(); r != nil {
			res.Text = ""
			res.Err = fmt.Errorf("panic reading page: %v", r)
		}
	}()
	tokens, err := doc.PageTokens(page)
	if err != nil {
		res.Err = err
		return res
	}
	res.Text = joinTokens(tokens)
	return res
}

// joinTokens joins non-blank tokens with single spaces.
func joinTokens(tokens []string) string {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}

// openPDF shields callers from engines that panic on malformed input.
func openPDF(engine PDFEngine, content []byte) (doc PDFDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%s: panic opening PDF: %v", engine.Name(), r)
		}
	}()
	return engine.Open(content)
}

// LedongthucEngine reads PDFs with github.com/ledongthuc/pdf. A page's tokens
// are the lines of its plain-text rendering.
type LedongthucEngine struct{}

// Name returns "ledongthuc".
func (LedongthucEngine) Name() string { return EngineLedongthuc }

// Open parses the PDF cross-reference table and page tree.
func (LedongthucEngine) Open(content []byte) (PDFDocument, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return &ledongthucDocument{r: r}, nil
}

type ledongthucDocument struct {
	r *pdf.Reader
}

func (d *ledongthucDocument) NumPages() int {
	return d.r.NumPage()
}

func (d *ledongthucDocument) PageTokens(page int) ([]string, error) {
	p := d.r.Page(page)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", page)
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return nil, fmt.Errorf("extract page %d: %w", page, err)
	}
	return strings.Split(text, "\n"), nil
}
