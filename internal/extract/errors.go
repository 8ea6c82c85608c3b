package extract

import (
	"errors"
	"fmt"

	"github.com/hyperjump/juris/pkg/utils"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured size ceiling.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned for files that are neither PDF nor text.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrRead is returned when the underlying reader fails.
	ErrRead = errors.New("read file")
	// ErrInvalidPDF is returned when the PDF engine cannot open the buffer.
	ErrInvalidPDF = errors.New("invalid PDF")
	// ErrEmptyDocument is returned when extraction yields only whitespace.
	ErrEmptyDocument = errors.New("no extractable text")
)

// TooLargeError carries the rejected size and the ceiling. It matches ErrTooLarge.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%v: %d bytes exceeds limit of %d bytes", ErrTooLarge, e.Size, e.Limit)
}

// Is reports whether target is ErrTooLarge.
func (e *TooLargeError) Is(target error) bool {
	return target == ErrTooLarge
}

// PageError records a non-fatal failure while reading one PDF page.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Reason returns a short title and a human-readable explanation for an
// ingestion error, suitable for showing to the person who uploaded the file.
func Reason(err error) (title, detail string) {
	var tooLarge *TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return "File too large", fmt.Sprintf("Please select a file smaller than %s.", utils.FormatFileSize(tooLarge.Limit))
	case errors.Is(err, ErrTooLarge):
		return "File too large", "Please select a smaller file."
	case errors.Is(err, ErrUnsupportedType):
		return "Unsupported file type", "Please upload a PDF or a text document (.pdf, .txt, .md, or other text files)."
	case errors.Is(err, ErrInvalidPDF):
		return "Invalid PDF", "The PDF could not be opened. It may be damaged or password protected."
	case errors.Is(err, ErrEmptyDocument):
		return "No text found", "No readable text was found in the document. Scanned or image-only PDFs are not supported."
	case errors.Is(err, ErrRead):
		return "Read failed", "Failed to read the file. Please try again."
	default:
		return "Error", "Failed to process the document. Please try again."
	}
}
