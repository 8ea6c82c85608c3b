// Package cli provides output helpers for the juris command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/juris/internal/extract"
	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/pkg/utils"
)

// OutputFormat is the format for descriptor output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const previewWords = 40

// Descriptor is the JSON shape written by WriteDescriptor.
type Descriptor struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Size     int64                   `json:"size"`
	Metadata models.DocumentMetadata `json:"metadata"`
	Preview  string                  `json:"preview"`
}

// WriteDescriptor writes the descriptor of f to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteDescriptor(w io.Writer, f *models.UploadedFile, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Descriptor{
			ID:       f.ID,
			Name:     f.Name,
			Size:     f.Size,
			Metadata: f.Metadata,
			Preview:  TruncateWords(f.Content, previewWords),
		})
	default:
		writeDescriptorText(w, f)
		return nil
	}
}

func writeDescriptorText(w io.Writer, f *models.UploadedFile) {
	md := f.Metadata
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Name:      %s\n", f.Name)
	fmt.Fprintf(w, "Size:      %s\n", utils.FormatFileSize(f.Size))
	fmt.Fprintf(w, "Type:      %s\n", md.DocumentType)
	fmt.Fprintf(w, "File type: %s\n", strings.ToUpper(string(md.FileType)))
	fmt.Fprintf(w, "Words:     %d\n", md.WordCount)
	if md.PageCount != nil {
		fmt.Fprintf(w, "Pages:     %d\n", *md.PageCount)
	}
	fmt.Fprintf(w, "ID:        %s\n", f.ID)
	fmt.Fprintf(w, "\n%s\n", TruncateWords(f.Content, previewWords))
	fmt.Fprintln(w)
}

// WriteFailure writes the human-readable reason for an ingestion error.
func WriteFailure(w io.Writer, err error) {
	title, detail := extract.Reason(err)
	fmt.Fprintf(w, "%s: %s\n", title, detail)
}

// WriteWarnings lists per-page extraction warnings, if any.
func WriteWarnings(w io.Writer, warnings []extract.PageError) {
	for _, pe := range warnings {
		fmt.Fprintf(w, "warning: page %d skipped: %v\n", pe.Page, pe.Err)
	}
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
