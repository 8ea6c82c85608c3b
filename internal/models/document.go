// Package models defines core data structures for uploaded documents, their metadata, and chat messages.
package models

import "time"

// SourceKind identifies which extraction variant produced a document.
type SourceKind string

const (
	SourceText SourceKind = "text"
	SourcePDF  SourceKind = "pdf"
)

// DocumentType is the coarse legal category assigned by the classifier.
type DocumentType string

const (
	DocumentContract DocumentType = "contract"
	DocumentPolicy   DocumentType = "policy"
	DocumentLease    DocumentType = "lease"
	DocumentNDA      DocumentType = "nda"
	DocumentTerms    DocumentType = "terms"
	DocumentLegal    DocumentType = "legal-document"
	DocumentGeneral  DocumentType = "general"
)

// DocumentTypes lists every DocumentType in classifier priority order.
var DocumentTypes = []DocumentType{
	DocumentContract,
	DocumentPolicy,
	DocumentLease,
	DocumentNDA,
	DocumentTerms,
	DocumentLegal,
	DocumentGeneral,
}

// ExtractedDocument is the text produced from one accepted upload.
// FullText is trimmed and never empty. PageCount is set for PDFs only.
type ExtractedDocument struct {
	FullText   string     `json:"full_text"`
	PageCount  *int       `json:"page_count,omitempty"`
	SourceKind SourceKind `json:"source_kind"`
}

// DocumentMetadata is the descriptor derived from an ExtractedDocument.
type DocumentMetadata struct {
	FileType     SourceKind   `json:"file_type"`
	WordCount    int          `json:"word_count"`
	DocumentType DocumentType `json:"document_type"`
	PageCount    *int         `json:"page_count,omitempty"`
}

// UploadedFile is the session-scoped document attached to the next message.
type UploadedFile struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Size       int64            `json:"size"`
	Content    string           `json:"-"`
	Metadata   DocumentMetadata `json:"metadata"`
	UploadedAt time.Time        `json:"uploaded_at"`
}
