//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract implements OCR through the in-process Tesseract binding.
// Requires libtesseract and the "gosseract" build tag:
//
//	go build -tags gosseract
//
// Without the tag, NewGosseract returns an engine whose Init fails with
// ErrEngineDisabled.
type Gosseract struct {
	language string

	mu     sync.Mutex
	client *gosseract.Client
}

// NewGosseract creates a new gosseract-backed engine
func NewGosseract(language string) Engine {
	if language == "" {
		language = "eng"
	}
	return &Gosseract{language: language}
}

// Name returns the engine name
func (g *Gosseract) Name() string {
	return "Tesseract OCR (gosseract)"
}

// Init creates the shared client and loads the trained data
func (g *Gosseract) Init(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return nil
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(strings.Split(g.language, "+")...); err != nil {
		client.Close()
		return fmt.Errorf("failed to set language %q: %w", g.language, err)
	}
	g.client = client
	return nil
}

// Recognize extracts text from an image using the shared client
func (g *Gosseract) Recognize(ctx context.Context, imageData []byte) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return Result{}, fmt.Errorf("gosseract client not initialized")
	}
	if err := g.client.SetImageFromBytes(imageData); err != nil {
		return Result{}, fmt.Errorf("failed to set image: %w", err)
	}
	text, err := g.client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognition failed: %w", err)
	}

	return Result{
		Text:       strings.TrimSpace(text),
		Confidence: NominalConfidence,
	}, nil
}

// Close releases the shared client
func (g *Gosseract) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}
