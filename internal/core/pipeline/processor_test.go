package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuscan/docuscan-be/internal/core/ocr"
	"github.com/docuscan/docuscan-be/internal/core/queue"
)

// fakeRecognizer recognizes file payloads by content; payloads listed
// in failOn produce an error.
type fakeRecognizer struct {
	initErr        error
	ensureCalls    int32
	recognizeCalls int32
	failOn         map[string]bool

	mu   sync.Mutex
	seen []string

	block chan struct{} // when set, Recognize waits until closed
}

func (f *fakeRecognizer) EnsureReady(ctx context.Context) error {
	atomic.AddInt32(&f.ensureCalls, 1)
	return f.initErr
}

func (f *fakeRecognizer) Recognize(ctx context.Context, imageData []byte) (ocr.Result, error) {
	atomic.AddInt32(&f.recognizeCalls, 1)
	if f.block != nil {
		<-f.block
	}
	payload := string(imageData)
	f.mu.Lock()
	f.seen = append(f.seen, payload)
	f.mu.Unlock()
	if f.failOn[payload] {
		return ocr.Result{}, errors.New("recognition failed: bad scan")
	}
	return ocr.Result{Text: "text of " + payload, Confidence: 0.9}, nil
}

func addFile(s *queue.Store, name string) queue.File {
	return s.Add(name, "image/png", 10, []byte(name), "")
}

func TestRunProcessesAllPendingInOrder(t *testing.T) {
	store := queue.NewStore()
	addFile(store, "a")
	addFile(store, "b")
	addFile(store, "c")

	rec := &fakeRecognizer{}
	summary, err := NewProcessor(rec).Run(context.Background(), store, nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Targeted: 3, Completed: 3, Failed: 0}, summary)
	assert.Equal(t, []string{"a", "b", "c"}, rec.seen)

	for _, f := range store.List() {
		assert.Equal(t, queue.StatusCompleted, f.Status)
		assert.Equal(t, "text of "+f.Name, f.Text)
	}
}

func TestRunContinuesPastFileFailures(t *testing.T) {
	store := queue.NewStore()
	addFile(store, "a")
	addFile(store, "b")
	addFile(store, "c")

	rec := &fakeRecognizer{failOn: map[string]bool{"b": true}}
	summary, err := NewProcessor(rec).Run(context.Background(), store, nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Targeted: 3, Completed: 2, Failed: 1}, summary)

	files := store.List()
	assert.Equal(t, queue.StatusCompleted, files[0].Status)
	assert.Equal(t, queue.StatusError, files[1].Status)
	assert.Empty(t, files[1].Text)
	assert.NotEmpty(t, files[1].Error)
	assert.Equal(t, queue.StatusCompleted, files[2].Status)
}

func TestRunAbortsWhenInitFails(t *testing.T) {
	store := queue.NewStore()
	addFile(store, "a")
	addFile(store, "b")

	rec := &fakeRecognizer{initErr: errors.New("engine unavailable")}
	_, err := NewProcessor(rec).Run(context.Background(), store, nil)
	require.Error(t, err)

	// No file was touched: the whole snapshot is still pending.
	for _, f := range store.List() {
		assert.Equal(t, queue.StatusPending, f.Status)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&rec.recognizeCalls))
}

func TestRunIsIdempotentWithoutNewPendingFiles(t *testing.T) {
	store := queue.NewStore()
	addFile(store, "a")
	addFile(store, "b")

	rec := &fakeRecognizer{failOn: map[string]bool{"b": true}}
	p := NewProcessor(rec)

	_, err := p.Run(context.Background(), store, nil)
	require.NoError(t, err)
	calls := atomic.LoadInt32(&rec.recognizeCalls)

	// Second run: nothing pending, no recognition, statuses unchanged.
	summary, err := p.Run(context.Background(), store, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
	assert.Equal(t, calls, atomic.LoadInt32(&rec.recognizeCalls))

	files := store.List()
	assert.Equal(t, queue.StatusCompleted, files[0].Status)
	assert.Equal(t, queue.StatusError, files[1].Status)
}

func TestRunTargetsOnlyFilesPendingAtStart(t *testing.T) {
	store := queue.NewStore()
	a := addFile(store, "a")
	addFile(store, "b")

	require.NoError(t, store.MarkProcessing(a.ID))
	require.NoError(t, store.MarkCompleted(a.ID, "already done", 0.9))

	rec := &fakeRecognizer{}
	summary, err := NewProcessor(rec).Run(context.Background(), store, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Targeted)
	assert.Equal(t, []string{"b"}, rec.seen)

	// The completed file was left untouched.
	got, _ := store.Get(a.ID)
	assert.Equal(t, "already done", got.Text)
}

func TestProgressReaches100Percent(t *testing.T) {
	store := queue.NewStore()
	addFile(store, "a")
	addFile(store, "b")
	addFile(store, "c")

	// One failure must not keep progress from completing.
	rec := &fakeRecognizer{failOn: map[string]bool{"c": true}}

	var fractions []float64
	_, err := NewProcessor(rec).Run(context.Background(), store, func(p Progress) {
		fractions = append(fractions, p.Fraction)
	})
	require.NoError(t, err)

	require.Len(t, fractions, 3)
	assert.InDelta(t, 1.0/3.0, fractions[0], 0.001)
	assert.InDelta(t, 2.0/3.0, fractions[1], 0.001)
	assert.InDelta(t, 1.0, fractions[2], 0.001)
}

func TestConcurrentRunIsRejected(t *testing.T) {
	store := queue.NewStore()
	addFile(store, "a")

	rec := &fakeRecognizer{block: make(chan struct{})}
	p := NewProcessor(rec)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := p.Run(context.Background(), store, nil)
		assert.NoError(t, err)
	}()

	// Wait until the first run is inside Recognize.
	for atomic.LoadInt32(&rec.recognizeCalls) == 0 {
		runtime.Gosched()
	}

	_, err := p.Run(context.Background(), store, nil)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(rec.block)
	<-done
}

func TestRunDoesNotCountFileRemovedMidFlight(t *testing.T) {
	store := queue.NewStore()
	f := addFile(store, "a")

	rec := &fakeRecognizer{block: make(chan struct{})}
	p := NewProcessor(rec)

	done := make(chan Summary)
	go func() {
		summary, err := p.Run(context.Background(), store, nil)
		assert.NoError(t, err)
		done <- summary
	}()

	// Wait until the file is inside Recognize, then pull it out of the
	// queue before the result can land.
	for atomic.LoadInt32(&rec.recognizeCalls) == 0 {
		runtime.Gosched()
	}
	require.NoError(t, store.Remove(f.ID))
	close(rec.block)

	summary := <-done
	assert.Equal(t, Summary{Targeted: 1}, summary)
	assert.Equal(t, 0, store.Len())
}

func TestEmptyRunSkipsEngineInit(t *testing.T) {
	store := queue.NewStore()

	rec := &fakeRecognizer{initErr: errors.New("would fail")}
	summary, err := NewProcessor(rec).Run(context.Background(), store, nil)

	// An empty snapshot never touches the engine at all.
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
	assert.Equal(t, int32(0), atomic.LoadInt32(&rec.ensureCalls))
}
