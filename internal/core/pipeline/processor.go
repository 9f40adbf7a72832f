package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/docuscan/docuscan-be/internal/core/ocr"
	"github.com/docuscan/docuscan-be/internal/core/queue"
)

// ErrRunInProgress is returned when a run is requested while another
// one is still processing. The recognition engine is a single shared
// resource, so runs never overlap.
var ErrRunInProgress = errors.New("a processing run is already in progress")

// Recognizer is the slice of the OCR service the processor depends on
type Recognizer interface {
	EnsureReady(ctx context.Context) error
	Recognize(ctx context.Context, imageData []byte) (ocr.Result, error)
}

// Progress reports how far a run has advanced. Fraction reaches 1.0
// when the last targeted file lands in a terminal state, regardless of
// per-file outcomes.
type Progress struct {
	Finished int     `json:"finished"`
	Targeted int     `json:"targeted"`
	Fraction float64 `json:"fraction"`
}

// Summary is the outcome of one processing run
type Summary struct {
	Targeted  int `json:"targeted"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Processor drives pending files through the OCR service, strictly one
// at a time, in queue order.
type Processor struct {
	recognizer Recognizer
	mu         sync.Mutex
	running    bool
}

// NewProcessor creates a new processor over the given recognizer
func NewProcessor(recognizer Recognizer) *Processor {
	return &Processor{recognizer: recognizer}
}

// Run processes the files that are pending at invocation time.
//
// The engine is initialized first if needed; an initialization failure
// aborts the whole run and leaves every targeted file pending. After
// that, each file is marked processing, recognized, and marked
// completed or error; a single file's failure never aborts the run.
// onProgress, if non-nil, is called after each file reaches a terminal
// state. A second concurrent Run returns ErrRunInProgress.
func (p *Processor) Run(ctx context.Context, store *queue.Store, onProgress func(Progress)) (Summary, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return Summary{}, ErrRunInProgress
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	targeted := store.Pending()
	summary := Summary{Targeted: len(targeted)}
	if len(targeted) == 0 {
		return summary, nil
	}

	if err := p.recognizer.EnsureReady(ctx); err != nil {
		log.Error().Err(err).Msg("processing run aborted: engine initialization failed")
		return summary, fmt.Errorf("cannot start processing run: %w", err)
	}

	log.Info().Int("targeted", summary.Targeted).Msg("processing run started")

	for i, id := range targeted {
		file, ok := store.Get(id)
		if !ok || file.Status != queue.StatusPending {
			// Removed or reset concurrently; it no longer belongs to
			// this run's snapshot.
			p.report(onProgress, i+1, summary.Targeted)
			continue
		}

		if err := store.MarkProcessing(id); err != nil {
			p.report(onProgress, i+1, summary.Targeted)
			continue
		}

		// The file may be removed while inference runs; a failed
		// transition means the outcome has nowhere to land and is not
		// counted.
		result, err := p.recognizer.Recognize(ctx, file.Data)
		if err != nil {
			log.Warn().Err(err).Str("file", file.Name).Msg("recognition failed")
			if store.MarkError(id, err.Error()) == nil {
				summary.Failed++
			}
		} else {
			if store.MarkCompleted(id, result.Text, result.Confidence) == nil {
				summary.Completed++
			}
		}

		p.report(onProgress, i+1, summary.Targeted)
	}

	log.Info().
		Int("completed", summary.Completed).
		Int("failed", summary.Failed).
		Msg("processing run finished")

	return summary, nil
}

func (p *Processor) report(onProgress func(Progress), finished, targeted int) {
	if onProgress == nil {
		return
	}
	onProgress(Progress{
		Finished: finished,
		Targeted: targeted,
		Fraction: float64(finished) / float64(targeted),
	})
}
