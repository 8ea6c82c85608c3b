// Package ingest runs an upload through validation, extraction and metadata derivation.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/juris/internal/extract"
	"github.com/hyperjump/juris/internal/fileid"
	"github.com/hyperjump/juris/internal/metadata"
	"github.com/hyperjump/juris/internal/models"
	"go.uber.org/zap"
)

// IngestError reports why an upload produced no document. Err wraps one of the
// extract sentinels; Warnings holds any per-page failures seen before the abort.
type IngestError struct {
	Name     string
	Err      error
	Warnings []extract.PageError
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Name, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// Reason returns the human-readable title and detail for the failure.
func (e *IngestError) Reason() (title, detail string) {
	return extract.Reason(e.Err)
}

// Pipeline turns upload candidates into UploadedFile records.
type Pipeline struct {
	validator *extract.Validator
	extractor *extract.Extractor
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for ingestion events.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides the time source used for UploadedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a pipeline. A nil validator uses the default ceiling and
// a nil extractor uses the default PDF engine.
func NewPipeline(v *extract.Validator, ex *extract.Extractor, opts ...Option) *Pipeline {
	if v == nil {
		v = extract.NewValidator(0)
	}
	if ex == nil {
		ex = extract.NewExtractor()
	}
	p := &Pipeline{
		validator: v,
		extractor: ex,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxBytes returns the configured upload ceiling.
func (p *Pipeline) MaxBytes() int64 {
	return p.validator.MaxBytes
}

// Ingest validates and extracts c, then builds its descriptor. Any failure is
// returned as *IngestError and no UploadedFile is produced.
func (p *Pipeline) Ingest(ctx context.Context, c extract.UploadCandidate) (*models.UploadedFile, error) {
	if err := p.validator.Validate(c.Name, c.MIMEType, c.Size); err != nil {
		p.logger.Debug("upload rejected", zap.String("file", c.Name), zap.Error(err))
		return nil, &IngestError{Name: c.Name, Err: err}
	}

	doc, warnings, err := p.extractor.Extract(ctx, c)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		p.logger.Info("extraction failed",
			zap.String("file", c.Name),
			zap.Int("page_warnings", len(warnings)),
			zap.Error(err))
		return nil, &IngestError{Name: c.Name, Err: err, Warnings: warnings}
	}

	md := metadata.Build(doc, c.Name)
	f := &models.UploadedFile{
		ID:         fileid.DocID(c.Name, doc.FullText),
		Name:       c.Name,
		Size:       c.Size,
		Content:    doc.FullText,
		Metadata:   md,
		UploadedAt: p.now(),
	}

	fields := []zap.Field{
		zap.String("file", f.Name),
		zap.String("type", string(md.DocumentType)),
		zap.Int("words", md.WordCount),
	}
	if md.PageCount != nil {
		fields = append(fields, zap.Int("pages", *md.PageCount))
	}
	if len(warnings) > 0 {
		fields = append(fields, zap.Int("page_warnings", len(warnings)))
	}
	p.logger.Info("document ingested", fields...)
	return f, nil
}
