package ocr

import (
	"context"
	"errors"
)

// Result contains the extracted text and metadata
type Result struct {
	Text       string  `json:"text"`       // Raw extracted text
	Confidence float64 `json:"confidence"` // OCR confidence score (0-1)
}

// NominalConfidence is the fixed confidence reported by engines that do
// not expose a usable per-image score. Tesseract's confidence output is
// unreliable as invoked here, so callers must not treat this value as a
// calibrated probability.
const NominalConfidence = 0.90

// ErrEngineDisabled is returned by engines compiled out of this build
var ErrEngineDisabled = errors.New("ocr engine not enabled in this build")

// Engine is the contract for OCR engines. Init loads the underlying
// model or verifies the external binary; it is called at most once per
// process by the Service wrapper, never directly by handlers.
type Engine interface {
	// Name returns the engine name
	Name() string

	// Init prepares the engine for recognition
	Init(ctx context.Context) error

	// Recognize extracts text from an encoded JPEG image
	Recognize(ctx context.Context, imageData []byte) (Result, error)

	// Close releases engine resources
	Close() error
}
