// Package extract validates uploads and extracts plain text from text and PDF documents.
package extract

import (
	"context"
	"fmt"

	"github.com/hyperjump/juris/internal/models"
	"go.uber.org/zap"
)

// Extractor converts an accepted UploadCandidate into an ExtractedDocument.
type Extractor struct {
	engine PDFEngine
	logger *zap.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the logger used for per-page warnings.
func WithLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPDFEngine replaces the default PDF engine.
func WithPDFEngine(engine PDFEngine) ExtractorOption {
	return func(e *Extractor) {
		if engine != nil {
			e.engine = engine
		}
	}
}

// NewExtractor returns an Extractor using the ledongthuc PDF engine unless overridden.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		engine: LedongthucEngine{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the name of the configured PDF engine.
func (e *Extractor) Engine() string {
	return e.engine.Name()
}

// Extract reads c and returns its text. The variant is chosen by the declared
// MIME type: application/pdf goes through the PDF engine, everything else is
// decoded as text. For PDFs, pages that failed are returned as warnings
// alongside the document; they only cause an error when no page produced text.
func (e *Extractor) Extract(ctx context.Context, c UploadCandidate) (*models.ExtractedDocument, []PageError, error) {
	if c.Open == nil {
		return nil, nil, fmt.Errorf("%w: %s has no content", ErrRead, c.Name)
	}
	rc, err := c.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %w", ErrRead, c.Name, err)
	}
	defer rc.Close()

	if c.IsPDF() {
		return e.extractPDF(ctx, c.Name, rc)
	}
	doc, err := extractPlain(rc)
	if err != nil {
		return nil, nil, err
	}
	return doc, nil, nil
}
