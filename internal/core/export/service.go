package export

import (
	"bytes"
	"fmt"
)

// Service provides high-level export functionality
type Service struct {
	pdfExporter    Exporter
	textExporter   Exporter
	reportExporter *ReportExporter
}

// NewService creates a new export service
func NewService() *Service {
	return &Service{
		pdfExporter:    NewPDFExporter(),
		textExporter:   NewTextExporter(),
		reportExporter: NewReportExporter(),
	}
}

// ExportDocument renders the document in the requested format and
// returns the bytes, content type and file extension.
func (s *Service) ExportDocument(doc *Document, format Format) ([]byte, string, string, error) {
	var exporter Exporter
	switch format {
	case FormatPDF:
		exporter = s.pdfExporter
	case FormatText:
		exporter = s.textExporter
	default:
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}

	var buf bytes.Buffer
	if err := exporter.Export(doc, &buf); err != nil {
		return nil, "", "", fmt.Errorf("export failed: %w", err)
	}

	return buf.Bytes(), exporter.GetContentType(), exporter.GetFileExtension(), nil
}

// ExportReport renders the processing report spreadsheet
func (s *Service) ExportReport(title string, rows []ReportRow) ([]byte, string, string, error) {
	var buf bytes.Buffer
	if err := s.reportExporter.Export(title, rows, &buf); err != nil {
		return nil, "", "", fmt.Errorf("report export failed: %w", err)
	}
	return buf.Bytes(), s.reportExporter.GetContentType(), s.reportExporter.GetFileExtension(), nil
}
