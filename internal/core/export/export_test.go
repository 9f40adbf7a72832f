package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return &Document{
		Title:       "Scanned Notes",
		Author:      "Ana",
		Subject:     "Meeting notes",
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Sections: []Section{
			{Title: "1. page1.png", Body: "First page text."},
			{Title: "2. page2.png", Body: "Second page text."},
		},
	}
}

func TestDeriveBaseName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Report!", "my_report_"},
		{"Scanned Notes", "scanned_notes"},
		{"already_safe123", "already_safe123"},
		{"", "document"},
		{"   ", "document"},
		{"Über-Plan", "_ber_plan"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveBaseName(tt.title))
		})
	}
}

func TestPDFExport(t *testing.T) {
	var buf bytes.Buffer
	err := NewPDFExporter().Export(sampleDocument(), &buf)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestPDFExportManySectionsPaginates(t *testing.T) {
	doc := sampleDocument()
	doc.Sections = nil
	long := strings.Repeat("A line of recognized text that wraps around. ", 40)
	for i := 0; i < 12; i++ {
		doc.Sections = append(doc.Sections, Section{Title: "Section", Body: long})
	}

	var buf bytes.Buffer
	require.NoError(t, NewPDFExporter().Export(doc, &buf))
	// Multiple pages show up as multiple page objects.
	pages := bytes.Count(buf.Bytes(), []byte("/Type /Page")) - bytes.Count(buf.Bytes(), []byte("/Type /Pages"))
	assert.Greater(t, pages, 1)
}

func TestTextExportLayout(t *testing.T) {
	var buf bytes.Buffer
	err := NewTextExporter().Export(sampleDocument(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Scanned Notes\n=============")
	assert.Contains(t, out, "Author: Ana")
	assert.Contains(t, out, "1. page1.png\n------------")
	assert.Contains(t, out, "First page text.")

	// Separator between the two sections but not after the last one.
	assert.Equal(t, 1, strings.Count(out, "\n---\n"))
	assert.False(t, strings.HasSuffix(strings.TrimRight(out, "\n"), "---"))
}

func TestTextExportWithoutTitle(t *testing.T) {
	doc := sampleDocument()
	doc.Title = ""
	doc.Author = ""
	doc.Subject = ""

	var buf bytes.Buffer
	require.NoError(t, NewTextExporter().Export(doc, &buf))

	out := buf.String()
	assert.False(t, strings.HasPrefix(out, "\n"))
	assert.Contains(t, out, "Generated: 2026-03-14 09:30:00")
}

func TestReportExport(t *testing.T) {
	rows := []ReportRow{
		{FileName: "a.png", Status: "completed", Confidence: 0.9, Characters: 120},
		{FileName: "b.png", Status: "error", Error: "recognition failed"},
	}

	var buf bytes.Buffer
	err := NewReportExporter().Export("March batch", rows, &buf)
	require.NoError(t, err)

	// xlsx files are zip archives.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestServiceFormatSelection(t *testing.T) {
	svc := NewService()
	doc := sampleDocument()

	data, contentType, ext, err := svc.ExportDocument(doc, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, ".pdf", ext)
	assert.NotEmpty(t, data)

	data, contentType, ext, err = svc.ExportDocument(doc, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)
	assert.Equal(t, ".txt", ext)
	assert.NotEmpty(t, data)

	_, _, _, err = svc.ExportDocument(doc, Format("docx"))
	assert.Error(t, err)
}
