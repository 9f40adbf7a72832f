package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	initCalls    int32
	initErr      error
	recognizeErr error
	lastImage    []byte
	result       Result
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Init(ctx context.Context) error {
	atomic.AddInt32(&f.initCalls, 1)
	return f.initErr
}

func (f *fakeEngine) Recognize(ctx context.Context, imageData []byte) (Result, error) {
	f.lastImage = imageData
	if f.recognizeErr != nil {
		return Result{}, f.recognizeErr
	}
	return f.result, nil
}

func (f *fakeEngine) Close() error { return nil }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.Black)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEnsureReadyInitializesOnce(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewService(engine)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.EnsureReady(context.Background()))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&engine.initCalls))
}

func TestEnsureReadyCollapsesConcurrentCalls(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewService(engine)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.EnsureReady(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&engine.initCalls))
}

func TestEnsureReadyRetriesAfterFailure(t *testing.T) {
	engine := &fakeEngine{initErr: errors.New("model missing")}
	svc := NewService(engine)

	err := svc.EnsureReady(context.Background())
	require.Error(t, err)

	// A later call gets a fresh attempt once the cause is fixed.
	engine.initErr = nil
	require.NoError(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&engine.initCalls))
}

func TestRecognizeNormalizesImage(t *testing.T) {
	engine := &fakeEngine{result: Result{Text: "hello", Confidence: NominalConfidence}}
	svc := NewService(engine)

	result, err := svc.Recognize(context.Background(), pngBytes(t, 2048, 1000))
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Text)
	assert.InDelta(t, NominalConfidence, result.Confidence, 0.001)

	// The engine received a JPEG within the dimension bound, with the
	// aspect ratio preserved.
	img, err := jpeg.Decode(bytes.NewReader(engine.lastImage))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 1024, bounds.Dx())
	assert.Equal(t, 500, bounds.Dy())
}

func TestRecognizeKeepsSmallImages(t *testing.T) {
	engine := &fakeEngine{result: Result{Text: "ok"}}
	svc := NewService(engine)

	_, err := svc.Recognize(context.Background(), pngBytes(t, 300, 200))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(engine.lastImage))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestRecognizeRejectsUndecodableInput(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewService(engine)

	_, err := svc.Recognize(context.Background(), []byte("not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recognition failed")
}

func TestRecognizeFailureDoesNotPoisonEngine(t *testing.T) {
	engine := &fakeEngine{recognizeErr: errors.New("inference blew up")}
	svc := NewService(engine)

	_, err := svc.Recognize(context.Background(), pngBytes(t, 100, 100))
	require.Error(t, err)

	engine.recognizeErr = nil
	engine.result = Result{Text: "recovered"}
	result, err := svc.Recognize(context.Background(), pngBytes(t, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Text)

	// The failure never re-triggered initialization.
	assert.Equal(t, int32(1), atomic.LoadInt32(&engine.initCalls))
}

func TestDownscalePortrait(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 500, 4096))
	scaled := downscale(img, 1024)

	assert.Equal(t, 1024, scaled.Bounds().Dy())
	assert.Equal(t, 125, scaled.Bounds().Dx())
}
