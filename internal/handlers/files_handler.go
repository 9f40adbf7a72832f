package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/docuscan/docuscan-be/internal/core/intake"
	"github.com/docuscan/docuscan-be/internal/core/queue"
	"github.com/docuscan/docuscan-be/internal/core/session"
)

// FilesHandler manages the upload queue of a session
type FilesHandler struct {
	registry *session.Registry
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(registry *session.Registry) *FilesHandler {
	return &FilesHandler{registry: registry}
}

// fileView is the queue record as presented to the UI
type fileView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	MediaType  string  `json:"media_type"`
	Size       int64   `json:"size"`
	Preview    string  `json:"preview"`
	Status     string  `json:"status"`
	Text       string  `json:"text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func toFileView(f queue.File) fileView {
	return fileView{
		ID:         f.ID.String(),
		Name:       f.Name,
		MediaType:  f.MediaType,
		Size:       f.Size,
		Preview:    f.Preview,
		Status:     string(f.Status),
		Text:       f.Text,
		Confidence: f.Confidence,
		Error:      f.Error,
	}
}

// UploadFiles godoc
// @Summary Upload images
// @Description Add one or more images to the session queue; invalid files are reported individually and do not block the rest
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param images formData file true "Image files"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/files [post]
func (h *FilesHandler) UploadFiles(c *fiber.Ctx) error {
	sess := resolveSession(c, h.registry)
	if sess == nil {
		return nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "multipart form is required",
		})
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one image file is required",
		})
	}

	candidates := make([]intake.Candidate, 0, len(headers))
	var rejected []intake.Rejection
	for _, header := range headers {
		candidate := intake.Candidate{
			Name:      header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Size:      header.Size,
		}

		// Validate before reading so oversized payloads are never
		// pulled into memory.
		if err := intake.Validate(candidate); err != nil {
			rejected = append(rejected, intake.Rejection{Name: candidate.Name, Reason: err.Error()})
			continue
		}

		file, err := header.Open()
		if err != nil {
			rejected = append(rejected, intake.Rejection{Name: candidate.Name, Reason: "failed to open uploaded file"})
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			rejected = append(rejected, intake.Rejection{Name: candidate.Name, Reason: "failed to read uploaded file"})
			continue
		}

		candidate.Data = data
		candidates = append(candidates, candidate)
	}

	accepted, alsoRejected := intake.Accept(sess.Files, candidates)
	rejected = append(rejected, alsoRejected...)

	log.Info().
		Str("session", sess.ID.String()).
		Int("accepted", len(accepted)).
		Int("rejected", len(rejected)).
		Msg("upload processed")

	views := make([]fileView, 0, len(accepted))
	for _, f := range accepted {
		views = append(views, toFileView(f))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"accepted": views,
		"rejected": rejected,
	})
}

// ListFiles godoc
// @Summary List queued files
// @Description Return every file in the session queue with its status and preview
// @Tags Files
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Router /sessions/{id}/files [get]
func (h *FilesHandler) ListFiles(c *fiber.Ctx) error {
	sess := resolveSession(c, h.registry)
	if sess == nil {
		return nil
	}

	files := sess.Files.List()
	views := make([]fileView, 0, len(files))
	for _, f := range files {
		views = append(views, toFileView(f))
	}

	return c.JSON(fiber.Map{
		"count":  len(views),
		"counts": sess.Files.Count(),
		"files":  views,
	})
}

// RemoveFile godoc
// @Summary Remove a file
// @Description Remove a file from the session queue along with any edit for it
// @Tags Files
// @Param id path string true "Session ID"
// @Param fileId path string true "File ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/files/{fileId} [delete]
func (h *FilesHandler) RemoveFile(c *fiber.Ctx) error {
	sess := resolveSession(c, h.registry)
	if sess == nil {
		return nil
	}

	fileID, err := uuid.Parse(c.Params("fileId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid file id",
		})
	}

	if err := sess.Files.Remove(fileID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "file not found",
		})
	}
	sess.ClearOverlay(fileID)

	return c.SendStatus(fiber.StatusNoContent)
}

// ResetFile godoc
// @Summary Reset a file to pending
// @Description Put a completed or failed file back into the pending state so the next run targets it again
// @Tags Files
// @Produce json
// @Param id path string true "Session ID"
// @Param fileId path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/files/{fileId}/reset [post]
func (h *FilesHandler) ResetFile(c *fiber.Ctx) error {
	sess := resolveSession(c, h.registry)
	if sess == nil {
		return nil
	}

	fileID, err := uuid.Parse(c.Params("fileId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid file id",
		})
	}

	if err := sess.Files.Reset(fileID); err != nil {
		status := fiber.StatusConflict
		if err == queue.ErrFileNotFound {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	sess.ClearOverlay(fileID)

	file, _ := sess.Files.Get(fileID)
	return c.JSON(fiber.Map{
		"file": toFileView(file),
	})
}

// SetTextRequest is the body for editing extracted text
type SetTextRequest struct {
	Text string `json:"text"`
}

// SetText godoc
// @Summary Edit extracted text
// @Description Store a user edit for a file; the edit overrides the extracted text in exports without touching the stored result
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param fileId path string true "File ID"
// @Param body body SetTextRequest true "Replacement text"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/files/{fileId}/text [put]
func (h *FilesHandler) SetText(c *fiber.Ctx) error {
	sess := resolveSession(c, h.registry)
	if sess == nil {
		return nil
	}

	fileID, err := uuid.Parse(c.Params("fileId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid file id",
		})
	}
	if _, ok := sess.Files.Get(fileID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "file not found",
		})
	}

	var req SetTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	sess.SetOverlay(fileID, req.Text)
	return c.JSON(fiber.Map{
		"status": "success",
	})
}
