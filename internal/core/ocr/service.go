package ocr

import (
	"context"
	"fmt"
	"sync"
)

// Service wraps an OCR engine with lazy one-time initialization and
// image preprocessing. The engine instance is process-wide shared
// state, so the service guarantees that concurrent or repeated calls
// before initialization completes collapse into a single attempt:
// every caller waits on the same in-flight Init and receives its
// outcome. A successful Init is cached for the process lifetime; a
// failed attempt is cleared so a later run can retry.
type Service struct {
	engine Engine

	mu      sync.Mutex
	ready   bool
	attempt *initAttempt
}

type initAttempt struct {
	done chan struct{}
	err  error
}

// NewService creates a new OCR service with the given engine
func NewService(engine Engine) *Service {
	return &Service{engine: engine}
}

// EngineName returns the name of the underlying engine
func (s *Service) EngineName() string {
	return s.engine.Name()
}

// EnsureReady initializes the engine at most once. Safe for concurrent
// use.
func (s *Service) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return nil
	}
	if s.attempt != nil {
		// Another caller is initializing; await its outcome.
		attempt := s.attempt
		s.mu.Unlock()
		select {
		case <-attempt.done:
			return attempt.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	attempt := &initAttempt{done: make(chan struct{})}
	s.attempt = attempt
	s.mu.Unlock()

	attempt.err = s.engine.Init(ctx)
	close(attempt.done)

	s.mu.Lock()
	if attempt.err == nil {
		s.ready = true
	}
	s.attempt = nil
	s.mu.Unlock()

	if attempt.err != nil {
		return fmt.Errorf("engine initialization failed: %w", attempt.err)
	}
	return nil
}

// Recognize extracts text from image bytes. The image is decoded,
// downscaled and re-encoded before it reaches the engine. Any failure
// along the way surfaces as one recognition error for this image and
// leaves the shared engine usable for the next one.
func (s *Service) Recognize(ctx context.Context, imageData []byte) (Result, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return Result{}, err
	}

	normalized, err := normalize(imageData)
	if err != nil {
		return Result{}, fmt.Errorf("recognition failed: %w", err)
	}

	result, err := s.engine.Recognize(ctx, normalized)
	if err != nil {
		return Result{}, fmt.Errorf("recognition failed: %w", err)
	}
	return result, nil
}

// Close releases the underlying engine
func (s *Service) Close() error {
	return s.engine.Close()
}
