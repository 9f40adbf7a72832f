package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter implements paginated PDF export using gofpdf
type PDFExporter struct {
	orientation string
	pageSize    string
}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{
		orientation: "P", // Portrait
		pageSize:    "A4",
	}
}

// Layout constants in millimeters
const (
	marginLeft   = 15.0
	marginTop    = 20.0
	marginRight  = 15.0
	marginBottom = 20.0

	// minimum space required to start a section on the current page:
	// heading plus at least a couple of body lines
	sectionMinHeight = 26.0
)

// Export renders the document: title block, metadata line, then each
// section's heading and word-wrapped body, with a separator rule
// between consecutive sections and page breaks where the next block
// does not fit.
func (p *PDFExporter) Export(doc *Document, writer io.Writer) error {
	pdf := gofpdf.New(p.orientation, "mm", p.pageSize, "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)

	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}
	if doc.Author != "" {
		pdf.SetAuthor(doc.Author, true)
	}
	if doc.Subject != "" {
		pdf.SetSubject(doc.Subject, true)
	}

	pdf.AddPage()

	// Title block
	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 18)
		pdf.MultiCell(0, 9, doc.Title, "", "C", false)
		pdf.Ln(2)
	}

	// Metadata: author and generation timestamp
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(110, 110, 110)
	meta := fmt.Sprintf("Generated: %s", doc.GeneratedAt.Format("2006-01-02 15:04:05"))
	if doc.Author != "" {
		meta = fmt.Sprintf("Author: %s  |  %s", doc.Author, meta)
	}
	pdf.CellFormat(0, 5, meta, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	_, pageHeight := pdf.GetPageSize()
	usableBottom := pageHeight - marginBottom

	for i, section := range doc.Sections {
		if pdf.GetY()+sectionMinHeight > usableBottom {
			pdf.AddPage()
		}

		pdf.SetFont("Arial", "B", 13)
		pdf.MultiCell(0, 7, section.Title, "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 5.5, section.Body, "", "L", false)

		if i < len(doc.Sections)-1 {
			pdf.Ln(4)
			if pdf.GetY()+8 > usableBottom {
				pdf.AddPage()
			} else {
				pageWidth, _ := pdf.GetPageSize()
				y := pdf.GetY()
				pdf.SetDrawColor(180, 180, 180)
				pdf.Line(marginLeft, y, pageWidth-marginRight, y)
				pdf.Ln(4)
			}
		}
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// GetContentType returns the MIME type for PDF files
func (p *PDFExporter) GetContentType() string {
	return "application/pdf"
}

// GetFileExtension returns the file extension for PDF files
func (p *PDFExporter) GetFileExtension() string {
	return ".pdf"
}
