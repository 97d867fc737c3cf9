package extract

import (
	"bytes"
	"strings"

	"github.com/unidoc/unioffice/document"
)

func docxText(content []byte) string {
	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ""
	}
	defer doc.Close()

	var paragraphs []string
	for _, p := range doc.Paragraphs() {
		var sb strings.Builder
		for _, run := range p.Runs() {
			sb.WriteString(run.Text())
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}

	return strings.Join(paragraphs, "\n")
}
