// Package extract pulls plain text out of PDF documents and cleans it
// for translation.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoContent is returned when a PDF contains no extractable text.
var ErrNoContent = errors.New("no text content found in PDF")

// PDFText extracts the plain text of every page, joined with paragraph
// breaks. Pages that fail to decode are skipped; the document only errors
// when nothing at all could be extracted.
func PDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open PDF: %w", err)
	}
	defer f.Close()

	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "", ErrNoContent
	}
	return normalizeWhitespace(strings.Join(parts, "\n\n")), nil
}
