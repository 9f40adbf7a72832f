package intake

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/docuscan/docuscan-be/internal/core/queue"
)

// MaxFileSize is the upload size ceiling per file (10 MiB)
const MaxFileSize = 10 * 1024 * 1024

var (
	ErrNotAnImage = errors.New("file is not an image")
	ErrTooLarge   = errors.New("file exceeds maximum size")
)

// Candidate is a file offered for upload, before validation
type Candidate struct {
	Name      string
	MediaType string
	Size      int64
	Data      []byte
}

// Rejection describes why a candidate was not accepted
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Validate checks a candidate against the intake rules: the declared
// media type must be an image type and the payload must not exceed the
// size ceiling.
func Validate(c Candidate) error {
	if !strings.HasPrefix(c.MediaType, "image/") {
		return fmt.Errorf("%w: %s has type %q", ErrNotAnImage, c.Name, c.MediaType)
	}
	if c.Size > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, c.Name, c.Size, MaxFileSize)
	}
	return nil
}

// Accept validates each candidate and adds the valid ones to the queue
// as pending files. A rejected candidate produces one diagnostic and
// never blocks acceptance of the remaining files.
func Accept(store *queue.Store, candidates []Candidate) ([]queue.File, []Rejection) {
	var accepted []queue.File
	var rejected []Rejection

	for _, c := range candidates {
		if err := Validate(c); err != nil {
			rejected = append(rejected, Rejection{Name: c.Name, Reason: err.Error()})
			continue
		}
		preview := DataURL(c.MediaType, c.Data)
		accepted = append(accepted, store.Add(c.Name, c.MediaType, c.Size, c.Data, preview))
	}

	return accepted, rejected
}

// DataURL encodes image bytes as a browser-displayable data URL
func DataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
