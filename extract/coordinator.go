package extract

import (
	"context"
	"sync"
	"time"

	"github.com/nehalmr/evalkit/imaging"
	"github.com/nehalmr/evalkit/observability"
	"github.com/nehalmr/evalkit/recognize"
)

const defaultTaskTimeout = 60 * time.Second

// Extractor coordinates recognition engines, fusion and correction for one
// evaluation at a time. It is safe for concurrent use.
type Extractor struct {
	registry  *recognize.Registry
	fallback  recognize.Engine
	corrector *Corrector
	timeout   time.Duration
	languages []string
	logger    observability.Logger
	tracer    observability.Tracer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRegistry supplies the engine registry to coordinate over.
func WithRegistry(r *recognize.Registry) Option {
	return func(e *Extractor) { e.registry = r }
}

// WithFallback sets the engine used when no registered engine is available
// or every parallel task came back empty.
func WithFallback(engine recognize.Engine) Option {
	return func(e *Extractor) { e.fallback = engine }
}

// WithCorrector replaces the post-fusion correction table.
func WithCorrector(c *Corrector) Option {
	return func(e *Extractor) { e.corrector = c }
}

// WithTimeout bounds each engine task's execution.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.timeout = d }
}

// WithLanguages sets recognition language hints.
func WithLanguages(langs ...string) Option {
	return func(e *Extractor) { e.languages = append([]string(nil), langs...) }
}

// WithLogger sets the logger for degraded-mode warnings and timings.
func WithLogger(l observability.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithTracer sets the tracer for extraction spans.
func WithTracer(t observability.Tracer) Option {
	return func(e *Extractor) { e.tracer = t }
}

// New constructs an extractor. Without options it coordinates over an empty
// registry and falls back to the process default engine.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		timeout: defaultTaskTimeout,
		logger:  observability.NopLogger{},
		tracer:  observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = recognize.NewRegistry(e.logger)
	}
	if e.fallback == nil {
		e.fallback = recognize.DefaultEngine()
	}
	if e.corrector == nil {
		e.corrector = DefaultCorrector()
	}
	return e
}

// ExtractImage runs the full pipeline over one decoded scan and returns the
// corrected transcript. Engine-level faults are absorbed: when every engine
// and the fallback produce nothing, the transcript is empty and err is nil.
func (e *Extractor) ExtractImage(ctx context.Context, src *imaging.Source) (string, error) {
	ctx, span := e.tracer.StartSpan(ctx, "extract.image")
	defer span.Finish()
	start := time.Now()

	results := e.coordinate(ctx, src)
	fused := Fuse(results)
	if len(results) == 0 {
		fused = e.fallbackExtract(ctx, src)
	}
	corrected := e.corrector.Apply(fused)

	e.logger.Debug("extraction complete",
		observability.Int(observability.MetricFusionLines, len(splitLines(corrected))),
		observability.Int64(observability.MetricExtractTime, time.Since(start).Milliseconds()),
	)
	return corrected, nil
}

// ExtractImageFile loads the image at path and extracts it. Decode failures
// are the one fatal error class on this path.
func (e *Extractor) ExtractImageFile(ctx context.Context, path string) (string, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()
	return e.ExtractImage(ctx, src)
}

// coordinate fans src out to the available engines, one goroutine each, and
// collects the best result per engine. Wall clock is bounded by the slowest
// single engine, not the sum.
func (e *Extractor) coordinate(ctx context.Context, src *imaging.Source) []recognize.Result {
	engines := e.registry.Available()
	if len(engines) == 0 {
		return nil
	}

	resultCh := make(chan recognize.Result, len(engines))
	var wg sync.WaitGroup
	for _, engine := range engines {
		wg.Add(1)
		go func(engine recognize.Engine) {
			defer wg.Done()
			if best, ok := e.runEngine(ctx, engine, src); ok {
				resultCh <- best
			}
		}(engine)
	}
	wg.Wait()
	close(resultCh)

	results := make([]recognize.Result, 0, len(engines))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// runEngine generates the engine's tailored variants and keeps the variant
// result with the most recognized text. Timeouts and engine faults yield no
// result rather than failing the coordination.
func (e *Extractor) runEngine(ctx context.Context, engine recognize.Engine, src *imaging.Source) (recognize.Result, bool) {
	taskCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	start := time.Now()

	variants := imaging.VariantsFor(src, engine.Name(), e.logger)
	var best recognize.Result
	found := false
	for _, v := range variants {
		select {
		case <-taskCtx.Done():
			e.logger.Warn("engine task timed out",
				observability.String("engine", engine.Name()),
				observability.Error("error", taskCtx.Err()),
			)
			return best, found
		default:
		}
		in := recognize.InputFromPNG(src.Path, v.PNG, e.inputOptions(engine.Name(), v.Name)...)
		res, err := engine.Recognize(taskCtx, in)
		if err != nil {
			e.logger.Warn("engine variant failed",
				observability.String("engine", engine.Name()),
				observability.String("variant", v.Name),
				observability.Error("error", err),
			)
			continue
		}
		if res.Text == "" {
			continue
		}
		if !found || res.Better(best) {
			best, found = res, true
		}
	}
	e.logger.Debug("engine task finished",
		observability.String("engine", engine.Name()),
		observability.Int(observability.MetricVariantCount, len(variants)),
		observability.Int64(observability.MetricEngineTime, time.Since(start).Milliseconds()),
	)
	return best, found
}

// inputOptions builds the per-engine recognition hints for one variant.
// Tesseract gets a single-block segmentation hint; answer sheets are one
// uniform text region and the preprocessed variants strip layout cues.
func (e *Extractor) inputOptions(engineName, variantName string) []recognize.InputOption {
	opts := []recognize.InputOption{
		recognize.WithVariant(variantName),
		recognize.WithLanguages(e.languages...),
	}
	if engineName == "tesseract" {
		opts = append(opts, recognize.WithTesseractPSM(recognize.PSMSingleBlock))
	}
	return opts
}

// fallbackExtract is the degraded path: run the single fallback engine over
// the full variant catalog and keep the longest output. Failures here
// produce an empty transcript, never an error.
func (e *Extractor) fallbackExtract(ctx context.Context, src *imaging.Source) string {
	if e.fallback == nil {
		return ""
	}
	taskCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var best recognize.Result
	found := false
	for _, v := range imaging.AllVariants(src, e.logger) {
		select {
		case <-taskCtx.Done():
			return best.Text
		default:
		}
		in := recognize.InputFromPNG(src.Path, v.PNG, e.inputOptions(e.fallback.Name(), v.Name)...)
		res, err := e.fallback.Recognize(taskCtx, in)
		if err != nil || res.Text == "" {
			continue
		}
		if !found || res.Better(best) {
			best, found = res, true
		}
	}
	if !found {
		e.logger.Warn("all extraction paths empty", observability.String("source", src.Path))
	}
	return best.Text
}
