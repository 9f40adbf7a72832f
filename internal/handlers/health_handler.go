package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	engineName string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(engineName string) *HealthHandler {
	return &HealthHandler{engineName: engineName}
}

// GetHealth godoc
// @Summary Health check
// @Description Report service status and the configured OCR engine
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"engine": h.engineName,
	})
}
