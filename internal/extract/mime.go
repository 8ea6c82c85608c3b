package extract

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// DetectFileMIME returns the type a browser would declare for path: the
// extension mapping when one exists, otherwise a sniff of the content.
func DetectFileMIME(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	return m.String()
}

// SniffMIME keeps a declared type unless it is missing or generic, in which
// case the type is detected from head (the first bytes of the upload).
func SniffMIME(declared string, head []byte) string {
	d := strings.TrimSpace(declared)
	if d != "" && !strings.EqualFold(d, octetStream) {
		return d
	}
	if len(head) == 0 {
		return d
	}
	return mimetype.Detect(head).String()
}
