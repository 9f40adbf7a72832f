package export

import (
	"io"
	"time"
)

// Format represents the export file format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// Section is one unit of document content, corresponding to one source
// image's extracted (and possibly edited) text
type Section struct {
	Title string
	Body  string
}

// Document is the value object both renderers consume. It has no
// identity and is built fresh for every export.
type Document struct {
	Title       string
	Author      string
	Subject     string
	GeneratedAt time.Time
	Sections    []Section
}

// Exporter is the interface for all document export formats
type Exporter interface {
	Export(doc *Document, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// ReportRow is one line of the processing report spreadsheet
type ReportRow struct {
	FileName   string
	Status     string
	Confidence float64
	Characters int
	Error      string
}
