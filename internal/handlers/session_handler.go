package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/docuscan/docuscan-be/internal/core/session"
)

// SessionHandler manages browser session lifecycle
type SessionHandler struct {
	registry *session.Registry
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *session.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// CreateSession godoc
// @Summary Start a new session
// @Description Create a new upload session; all files and edits live only inside it
// @Tags Sessions
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	s := h.registry.Create()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": s.ID.String(),
		"created_at": s.CreatedAt(),
	})
}

// DeleteSession godoc
// @Summary End a session
// @Description Delete a session and discard its queue and edits
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session id",
		})
	}

	h.registry.Delete(id)
	return c.SendStatus(fiber.StatusNoContent)
}

// resolveSession looks up the session from the :id path parameter. On
// failure it writes the error response and returns nil.
func resolveSession(c *fiber.Ctx, registry *session.Registry) *session.Session {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session id",
		})
		return nil
	}

	s, err := registry.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "session not found or expired",
			})
		} else {
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load session",
			})
		}
		return nil
	}
	return s
}
