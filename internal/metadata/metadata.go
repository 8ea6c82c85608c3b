// Package metadata derives the document descriptor from extracted text.
package metadata

import (
	"strings"

	"github.com/hyperjump/juris/internal/classify"
	"github.com/hyperjump/juris/internal/models"
)

// Build returns the descriptor for doc. It is deterministic and has no side effects.
func Build(doc *models.ExtractedDocument, filename string) models.DocumentMetadata {
	if doc == nil {
		return models.DocumentMetadata{DocumentType: classify.Classify("", filename)}
	}
	var pages *int
	if doc.PageCount != nil {
		n := *doc.PageCount
		pages = &n
	}
	return models.DocumentMetadata{
		FileType:     doc.SourceKind,
		WordCount:    WordCount(doc.FullText),
		DocumentType: classify.Classify(doc.FullText, filename),
		PageCount:    pages,
	}
}

// WordCount counts whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
