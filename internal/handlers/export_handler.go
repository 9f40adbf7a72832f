package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/docuscan/docuscan-be/internal/core/document"
	"github.com/docuscan/docuscan-be/internal/core/export"
	"github.com/docuscan/docuscan-be/internal/core/session"
)

// ExportHandler renders the assembled document for download
type ExportHandler struct {
	registry *session.Registry
	exporter *export.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(registry *session.Registry, exporter *export.Service) *ExportHandler {
	return &ExportHandler{
		registry: registry,
		exporter: exporter,
	}
}

// ExportDocument godoc
// @Summary Export the document
// @Description Assemble the completed files (with any user edits applied) into a document and render it as PDF or plain text
// @Tags Export
// @Accept json
// @Produce octet-stream
// @Param id path string true "Session ID"
// @Param format path string true "Export format" Enums(pdf, text)
// @Param body body document.Meta false "Document metadata"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/export/{format} [post]
func (h *ExportHandler) ExportDocument(c *fiber.Ctx) error {
	sess := resolveSession(c, h.registry)
	if sess == nil {
		return nil
	}

	format := export.Format(c.Params("format"))
	if format != export.FormatPDF && format != export.FormatText {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported export format",
		})
	}

	var meta document.Meta
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&meta); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	doc := document.Assemble(sess.Files.List(), sess.Overlay(), meta)
	data, contentType, extension, err := h.exporter.ExportDocument(&doc, format)
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID.String()).Msg("document export failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render document",
		})
	}

	fileName := export.DeriveBaseName(meta.Title) + extension
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(data)
}

// ExportReport godoc
// @Summary Export the processing report
// @Description Render a spreadsheet with one row per queued file: status, confidence and extracted text length
// @Tags Export
// @Accept json
// @Produce octet-stream
// @Param id path string true "Session ID"
// @Param body body document.Meta false "Report metadata"
// @Success 200 {file} binary
// @Router /sessions/{id}/export/report [post]
func (h *ExportHandler) ExportReport(c *fiber.Ctx) error {
	sess := resolveSession(c, h.registry)
	if sess == nil {
		return nil
	}

	var meta document.Meta
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&meta); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	files := sess.Files.List()
	rows := make([]export.ReportRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, export.ReportRow{
			FileName:   f.Name,
			Status:     string(f.Status),
			Confidence: f.Confidence,
			Characters: len(f.Text),
			Error:      f.Error,
		})
	}

	data, contentType, extension, err := h.exporter.ExportReport(meta.Title, rows)
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID.String()).Msg("report export failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render report",
		})
	}

	fileName := export.DeriveBaseName(meta.Title) + extension
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(data)
}
