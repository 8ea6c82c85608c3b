package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// UploadCandidate is a file selected for upload, before any parsing.
// Open is called exactly once per extraction and the handle is always closed.
type UploadCandidate struct {
	Name     string
	MIMEType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// IsPDF reports whether the declared type selects the PDF variant.
func (c UploadCandidate) IsPDF() bool {
	return isPDF(c.MIMEType)
}

// CandidateFromBytes wraps an in-memory buffer.
func CandidateFromBytes(name, mimeType string, data []byte) UploadCandidate {
	return UploadCandidate{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// CandidateFromFile stats the file at path and defers reading until Open.
// When mimeType is empty it is detected with DetectFileMIME.
func CandidateFromFile(path, mimeType string) (UploadCandidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return UploadCandidate{}, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return UploadCandidate{}, fmt.Errorf("%s is a directory", path)
	}
	if mimeType == "" {
		mimeType = DetectFileMIME(path)
	}
	return UploadCandidate{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
