//go:build !gosseract

package ocr

import "context"

// NewGosseract returns a disabled engine when the build does not
// include the "gosseract" tag. Use the Tesseract CLI engine instead, or
// rebuild with -tags gosseract.
func NewGosseract(language string) Engine {
	return disabledEngine{}
}

type disabledEngine struct{}

func (disabledEngine) Name() string { return "Tesseract OCR (gosseract, disabled)" }

func (disabledEngine) Init(ctx context.Context) error { return ErrEngineDisabled }

func (disabledEngine) Recognize(ctx context.Context, imageData []byte) (Result, error) {
	return Result{}, ErrEngineDisabled
}

func (disabledEngine) Close() error { return nil }
