package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docuscan/docuscan-be/internal/core/export"
	"github.com/docuscan/docuscan-be/internal/core/queue"
)

// Meta carries the user-chosen document metadata for an export
type Meta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
}

// Assemble builds a document from the completed files in queue order.
// Each completed file becomes one section titled with its position and
// source file name; the body is the overlay value for that file id if
// the user edited it, otherwise the stored extracted text. Files that
// are not completed are excluded entirely, so a partial result never
// reaches an export.
func Assemble(files []queue.File, overlay map[uuid.UUID]string, meta Meta) export.Document {
	doc := export.Document{
		Title:       meta.Title,
		Author:      meta.Author,
		Subject:     meta.Subject,
		GeneratedAt: time.Now(),
	}

	position := 0
	for _, f := range files {
		if f.Status != queue.StatusCompleted {
			continue
		}
		position++

		body := f.Text
		if edited, ok := overlay[f.ID]; ok {
			body = edited
		}

		doc.Sections = append(doc.Sections, export.Section{
			Title: fmt.Sprintf("%d. %s", position, f.Name),
			Body:  body,
		})
	}

	return doc
}
