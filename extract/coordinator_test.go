package extract

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"
	"time"

	"github.com/nehalmr/evalkit/imaging"
	"github.com/nehalmr/evalkit/recognize"
)

type fakeEngine struct {
	name       string
	text       string
	confidence float64
	err        error
	delay      time.Duration

	mu    sync.Mutex
	calls int
	last  recognize.Input
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Recognize(ctx context.Context, in recognize.Input) (recognize.Result, error) {
	f.mu.Lock()
	f.calls++
	f.last = in
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return recognize.Result{}, ctx.Err()
		}
	}
	if f.err != nil {
		return recognize.Result{}, f.err
	}
	return recognize.Result{
		InputID:    in.ID,
		Engine:     f.name,
		Variant:    in.Variant,
		Text:       f.text,
		Confidence: f.confidence,
	}, nil
}

func testScan(t *testing.T) *imaging.Source {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	src, err := imaging.FromImage(img)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func registryWith(t *testing.T, engines ...recognize.Engine) *recognize.Registry {
	t.Helper()
	reg := recognize.NewRegistry(nil)
	for _, engine := range engines {
		engine := engine
		reg.Register(engine.Name(), func() (recognize.Engine, error) { return engine, nil })
	}
	return reg
}

func TestExtractImageFusesEngines(t *testing.T) {
	reg := registryWith(t,
		&fakeEngine{name: "a", text: "cat sat mat", confidence: 0.9},
		&fakeEngine{name: "b", text: "cat sit mat", confidence: 0.6},
		&fakeEngine{name: "c", text: "car sat mat", confidence: 0.4},
	)
	e := New(WithRegistry(reg))
	got, err := e.ExtractImage(context.Background(), testScan(t))
	if err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}
	if got != "cat sat mat" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestExtractImageAbsorbsEngineFailure(t *testing.T) {
	reg := registryWith(t,
		&fakeEngine{name: "a", text: "the answer", confidence: 0.8},
		&fakeEngine{name: "b", err: errors.New("native crash")},
	)
	e := New(WithRegistry(reg))
	got, err := e.ExtractImage(context.Background(), testScan(t))
	if err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}
	if got != "the answer" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestExtractImageFallsBackWhenNoEngines(t *testing.T) {
	fallback := &fakeEngine{name: "fallback", text: "degraded transcript", confidence: 0.5}
	e := New(WithRegistry(recognize.NewRegistry(nil)), WithFallback(fallback))
	got, err := e.ExtractImage(context.Background(), testScan(t))
	if err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}
	if got != "degraded transcript" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	fallback.mu.Lock()
	calls := fallback.calls
	fallback.mu.Unlock()
	if calls == 0 {
		t.Fatalf("fallback engine was never invoked")
	}
}

func TestExtractImageEmptyOnTotalFailure(t *testing.T) {
	reg := registryWith(t, &fakeEngine{name: "a", err: errors.New("down")})
	e := New(
		WithRegistry(reg),
		WithFallback(&fakeEngine{name: "fb", err: errors.New("also down")}),
	)
	got, err := e.ExtractImage(context.Background(), testScan(t))
	if err != nil {
		t.Fatalf("total failure must not surface an error, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}

func TestExtractImageTimeoutExcludesSlowEngine(t *testing.T) {
	reg := registryWith(t,
		&fakeEngine{name: "fast", text: "quick result", confidence: 0.6},
		&fakeEngine{name: "slow", text: "never seen", confidence: 0.9, delay: 2 * time.Second},
	)
	e := New(WithRegistry(reg), WithTimeout(50*time.Millisecond))
	start := time.Now()
	got, err := e.ExtractImage(context.Background(), testScan(t))
	if err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}
	if got != "quick result" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("coordination did not respect task timeout, took %v", elapsed)
	}
}

func TestExtractImageHintsTesseractSegmentation(t *testing.T) {
	tess := &fakeEngine{name: "tesseract", text: "handwritten answer", confidence: 0.7}
	other := &fakeEngine{name: "cloudvision", text: "handwritten answer", confidence: 0.7}
	reg := registryWith(t, tess, other)
	e := New(WithRegistry(reg))
	if _, err := e.ExtractImage(context.Background(), testScan(t)); err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}

	tess.mu.Lock()
	psm := tess.last.Metadata["tessedit_pageseg_mode"]
	tess.mu.Unlock()
	if psm != "6" {
		t.Fatalf("tesseract input missing single-block hint, metadata = %v", tess.last.Metadata)
	}

	other.mu.Lock()
	_, hinted := other.last.Metadata["tessedit_pageseg_mode"]
	other.mu.Unlock()
	if hinted {
		t.Fatalf("non-tesseract engine received a tesseract hint")
	}
}

func TestExtractImageAppliesCorrections(t *testing.T) {
	reg := registryWith(t, &fakeEngine{name: "a", text: "teh photosynthesls reaction", confidence: 0.7})
	e := New(WithRegistry(reg))
	got, err := e.ExtractImage(context.Background(), testScan(t))
	if err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}
	if got != "the photosynthesis reaction" {
		t.Fatalf("corrections not applied: %q", got)
	}
}
