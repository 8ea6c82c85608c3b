package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperjump/juris/internal/extract"
	"github.com/hyperjump/juris/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stubEngine serves pages from memory; a nil entry in pages fails that page.
type stubEngine struct {
	pages [][]string
}

func (s stubEngine) Name() string { return "stub" }

func (s stubEngine) Open([]byte) (extract.PDFDocument, error) { return s, nil }

func (s stubEngine) NumPages() int { return len(s.pages) }

func (s stubEngine) PageTokens(page int) ([]string, error) {
	if s.pages[page-1] == nil {
		return nil, errors.New("bad content stream")
	}
	return s.pages[page-1], nil
}

var fixed = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestPipeline(t *testing.T, engine extract.PDFEngine) (*Pipeline, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	ex := extract.NewExtractor(extract.WithPDFEngine(engine))
	p := NewPipeline(extract.NewValidator(1024), ex, WithLogger(zap.New(core)), WithClock(func() time.Time { return fixed }))
	return p, logs
}

func TestIngest_text(t *testing.T) {
	p, logs := newTestPipeline(t, nil)
	c := extract.CandidateFromBytes("notes.md", "", []byte("  This privacy policy explains things.  "))
	f, err := p.Ingest(context.Background(), c)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if f.Content != "This privacy policy explains things." {
		t.Errorf("Content = %q", f.Content)
	}
	if f.Name != "notes.md" || f.Size != c.Size {
		t.Errorf("Name/Size = %q/%d", f.Name, f.Size)
	}
	if f.Metadata.DocumentType != models.DocumentPolicy {
		t.Errorf("DocumentType = %q, want policy", f.Metadata.DocumentType)
	}
	if f.Metadata.WordCount != 5 || f.Metadata.FileType != models.SourceText {
		t.Errorf("Metadata = %+v", f.Metadata)
	}
	if f.ID == "" || !f.UploadedAt.Equal(fixed) {
		t.Errorf("ID=%q UploadedAt=%v", f.ID, f.UploadedAt)
	}
	entries := logs.FilterMessage("document ingested").All()
	if len(entries) != 1 {
		t.Fatalf("expected one success log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["type"]; got != "policy" {
		t.Errorf("logged type = %v", got)
	}
}

func TestIngest_sameContentSameID(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	data := []byte("identical")
	a, err := p.Ingest(context.Background(), extract.CandidateFromBytes("a.txt", "text/plain", data))
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Ingest(context.Background(), extract.CandidateFromBytes("a.txt", "text/plain", data))
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != b.ID {
		t.Errorf("IDs differ: %q vs %q", a.ID, b.ID)
	}
}

func TestIngest_pdfWithPageWarning(t *testing.T) {
	p, logs := newTestPipeline(t, stubEngine{pages: [][]string{{"Lease", "agreement"}, nil, {"end"}}})
	f, err := p.Ingest(context.Background(), extract.CandidateFromBytes("flat.pdf", extract.MIMEPDF, []byte("%PDF")))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if f.Metadata.PageCount == nil || *f.Metadata.PageCount != 3 {
		t.Fatalf("PageCount = %v, want 3", f.Metadata.PageCount)
	}
	if f.Metadata.DocumentType != models.DocumentContract {
		t.Errorf("DocumentType = %q, want contract", f.Metadata.DocumentType)
	}
	ctx := logs.FilterMessage("document ingested").All()[0].ContextMap()
	if ctx["pages"] != int64(3) || ctx["page_warnings"] != int64(1) {
		t.Errorf("log fields = %v", ctx)
	}
}

func TestIngest_failures(t *testing.T) {
	allFail := stubEngine{pages: [][]string{nil, nil}}
	tests := []struct {
		name     string
		cand     extract.UploadCandidate
		want     error
		warnings int
	}{
		{"too large", extract.CandidateFromBytes("a.txt", "text/plain", make([]byte, 2048)), extract.ErrTooLarge, 0},
		{"unsupported", extract.CandidateFromBytes("a.docx", "application/msword", []byte("x")), extract.ErrUnsupportedType, 0},
		{"empty text", extract.CandidateFromBytes("a.txt", "text/plain", []byte(" \n ")), extract.ErrEmptyDocument, 0},
		{"every page fails", extract.CandidateFromBytes("a.pdf", extract.MIMEPDF, []byte("%PDF")), extract.ErrEmptyDocument, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPipeline(t, allFail)
			f, err := p.Ingest(context.Background(), tt.cand)
			if f != nil {
				t.Errorf("expected no document, got %+v", f)
			}
			var ie *IngestError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *IngestError, got %T %v", err, err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if len(ie.Warnings) != tt.warnings {
				t.Errorf("warnings = %d, want %d", len(ie.Warnings), tt.warnings)
			}
			if title, detail := ie.Reason(); title == "" || title == "Error" || detail == "" {
				t.Errorf("Reason() = %q, %q", title, detail)
			}
		})
	}
}

func TestIngest_cancelled(t *testing.T) {
	p, _ := newTestPipeline(t, stubEngine{pages: [][]string{{"a"}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Ingest(ctx, extract.CandidateFromBytes("a.pdf", extract.MIMEPDF, []byte("%PDF")))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	var ie *IngestError
	if errors.As(err, &ie) {
		t.Error("cancellation should not be reported as an ingest failure")
	}
}

func TestNewPipeline_defaults(t *testing.T) {
	p := NewPipeline(nil, nil)
	if p.MaxBytes() != extract.DefaultMaxBytes {
		t.Errorf("MaxBytes = %d, want %d", p.MaxBytes(), extract.DefaultMaxBytes)
	}
}
