package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/docuscan/docuscan-be/internal/core/pipeline"
	"github.com/docuscan/docuscan-be/internal/core/session"
)

// ProcessHandler runs the OCR pipeline over a session queue
type ProcessHandler struct {
	registry  *session.Registry
	processor *pipeline.Processor
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(registry *session.Registry, processor *pipeline.Processor) *ProcessHandler {
	return &ProcessHandler{
		registry:  registry,
		processor: processor,
	}
}

// ProcessFiles godoc
// @Summary Process pending files
// @Description Run OCR over every pending file in the queue, one at a time, and report the run summary. The request blocks until the run finishes.
// @Tags Processing
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /sessions/{id}/process [post]
func (h *ProcessHandler) ProcessFiles(c *fiber.Ctx) error {
	sess := resolveSession(c, h.registry)
	if sess == nil {
		return nil
	}

	summary, err := h.processor.Run(c.Context(), sess.Files, nil)
	if err != nil {
		if errors.Is(err, pipeline.ErrRunInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "a processing run is already in progress",
			})
		}
		// Engine initialization failed: nothing was processed, all
		// targeted files are still pending.
		log.Error().Err(err).Str("session", sess.ID.String()).Msg("processing run failed to start")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "recognition engine unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"summary": summary,
		"counts":  sess.Files.Count(),
	})
}
