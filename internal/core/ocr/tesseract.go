package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TesseractCLI implements OCR by shelling out to the Tesseract binary
type TesseractCLI struct {
	tesseractPath string
	language      string
}

// NewTesseractCLI creates a new Tesseract CLI engine.
// language can be "eng", "ind" (Indonesian), or "eng+ind" for both.
func NewTesseractCLI(path, language string) *TesseractCLI {
	if path == "" {
		path = "tesseract" // Assumes tesseract is in PATH
	}
	if language == "" {
		language = "eng" // Default to English
	}

	return &TesseractCLI{
		tesseractPath: path,
		language:      language,
	}
}

// Name returns the engine name
func (t *TesseractCLI) Name() string {
	return "Tesseract OCR"
}

// Init verifies the tesseract binary is available
func (t *TesseractCLI) Init(ctx context.Context) error {
	if _, err := exec.LookPath(t.tesseractPath); err != nil {
		return fmt.Errorf("tesseract binary not found at %q: %w", t.tesseractPath, err)
	}
	return nil
}

// Recognize extracts text from an image using Tesseract
func (t *TesseractCLI) Recognize(ctx context.Context, imageData []byte) (Result, error) {
	// Write image data to a temporary file for the CLI
	tempImage, err := os.CreateTemp("", "ocr_image_*.jpg")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create temp image: %w", err)
	}
	tempImagePath := tempImage.Name()
	defer os.Remove(tempImagePath)

	if _, err := tempImage.Write(imageData); err != nil {
		tempImage.Close()
		return Result{}, fmt.Errorf("failed to write temp image: %w", err)
	}
	tempImage.Close()

	tempOutputPath := strings.TrimSuffix(tempImagePath, ".jpg") + "_out"

	// tesseract input.jpg output -l eng
	cmd := exec.CommandContext(ctx, t.tesseractPath, tempImagePath, tempOutputPath, "-l", t.language)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("tesseract command failed: %w, output: %s", err, string(output))
	}

	// Tesseract adds a .txt extension automatically
	outputFilePath := tempOutputPath + ".txt"
	defer os.Remove(outputFilePath)

	textBytes, err := os.ReadFile(outputFilePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read tesseract output: %w", err)
	}

	// Tesseract doesn't report a usable confidence via this invocation,
	// so a fixed nominal value is returned instead.
	return Result{
		Text:       strings.TrimSpace(string(textBytes)),
		Confidence: NominalConfidence,
	}, nil
}

// Close releases engine resources. The CLI engine holds none.
func (t *TesseractCLI) Close() error {
	return nil
}
