package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TextExporter renders the same logical document structure as the PDF
// exporter, serialized as plain text with underline-style headers and
// "---" section separators.
type TextExporter struct{}

// NewTextExporter creates a new plain-text exporter
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export writes the flat-text rendering of the document
func (t *TextExporter) Export(doc *Document, writer io.Writer) error {
	var b strings.Builder

	if doc.Title != "" {
		b.WriteString(doc.Title + "\n")
		b.WriteString(underline(doc.Title, '=') + "\n\n")
	}

	if doc.Author != "" {
		b.WriteString("Author: " + doc.Author + "\n")
	}
	if doc.Subject != "" {
		b.WriteString("Subject: " + doc.Subject + "\n")
	}
	b.WriteString("Generated: " + doc.GeneratedAt.Format("2006-01-02 15:04:05") + "\n\n")

	for i, section := range doc.Sections {
		b.WriteString(section.Title + "\n")
		b.WriteString(underline(section.Title, '-') + "\n\n")
		b.WriteString(strings.TrimRight(section.Body, "\n") + "\n")
		if i < len(doc.Sections)-1 {
			b.WriteString("\n---\n\n")
		}
	}

	if _, err := io.WriteString(writer, b.String()); err != nil {
		return fmt.Errorf("failed to write text document: %w", err)
	}
	return nil
}

// GetContentType returns the MIME type for plain text
func (t *TextExporter) GetContentType() string {
	return "text/plain; charset=utf-8"
}

// GetFileExtension returns the file extension for text files
func (t *TextExporter) GetFileExtension() string {
	return ".txt"
}

func underline(s string, r rune) string {
	return strings.Repeat(string(r), utf8.RuneCountInString(s))
}
