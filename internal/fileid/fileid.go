// Package fileid provides a deterministic document ID derived from an upload's name and content.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "doc:"

// DocID returns a stable ID for an uploaded document. The same base name and
// extracted text always yield the same ID, regardless of the directory the
// name carries.
func DocID(name, content string) string {
	h := sha256.New()
	h.Write([]byte(filepath.Base(filepath.Clean(name))))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return prefix + hex.EncodeToString(h.Sum(nil))[:32]
}
