// Package extract pulls best-effort plain text out of uploaded attachments.
// Extraction never fails a request: any error or panic inside a format
// reader degrades to an empty string.
package extract

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Text extracts plain text from raw file bytes based on the filename
// extension. Unknown formats are treated as raw text.
func (e *Extractor) Text(filename string, content []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return pdfText(content)
	case ".doc", ".docx":
		return docxText(content)
	default:
		return plainText(content)
	}
}

func plainText(content []byte) string {
	if !utf8.Valid(content) {
		content = []byte(strings.ToValidUTF8(string(content), ""))
	}
	return strings.TrimSpace(string(content))
}
