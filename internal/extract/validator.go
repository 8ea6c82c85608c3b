package extract

import (
	"fmt"
	"strings"
)

// DefaultMaxBytes is the upload ceiling used when none is configured.
const DefaultMaxBytes int64 = 10 << 20

// MIMEPDF is the declared type that selects the PDF variant.
const MIMEPDF = "application/pdf"

// Validator accepts or rejects an upload from its declared metadata alone.
type Validator struct {
	MaxBytes int64
}

// NewValidator returns a Validator with the given ceiling. Non-positive values use DefaultMaxBytes.
func NewValidator(maxBytes int64) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Validator{MaxBytes: maxBytes}
}

// Validate checks size first, then type. It never inspects file content.
// Accepted: application/pdf, any MIME type containing "text", or a .txt/.md name.
func (v *Validator) Validate(name, mimeType string, size int64) error {
	limit := v.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if size > limit {
		return &TooLargeError{Size: size, Limit: limit}
	}
	if isPDF(mimeType) || strings.Contains(strings.ToLower(mimeType), "text") {
		return nil
	}
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".md") {
		return nil
	}
	return fmt.Errorf("%w: %q (%s)", ErrUnsupportedType, name, displayMIME(mimeType))
}

// isPDF compares the media type of mimeType, ignoring parameters and case.
func isPDF(mimeType string) bool {
	mediaType, _, _ := strings.Cut(mimeType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), MIMEPDF)
}

func displayMIME(mimeType string) string {
	if mimeType == "" {
		return "no type"
	}
	return mimeType
}
