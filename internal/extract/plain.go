package extract

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/juris/internal/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// extractPlain decodes r as UTF-8, honouring a UTF-8 or UTF-16 byte order mark.
// Invalid UTF-8 sequences are replaced with the replacement character.
func extractPlain(r io.Reader) (*models.ExtractedDocument, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	content, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), "\ufffd"))
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, fmt.Errorf("%w: text file is blank", ErrEmptyDocument)
	}
	return &models.ExtractedDocument{
		FullText:   text,
		SourceKind: models.SourceText,
	}, nil
}
