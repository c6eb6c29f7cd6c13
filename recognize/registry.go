package recognize

import (
	"context"
	"sync"

	"github.com/nehalmr/evalkit/observability"
)

// Factory constructs an engine, probing whatever native library or remote
// endpoint backs it. A non-nil error marks the engine unavailable.
type Factory func() (Engine, error)

// Registry holds the set of recognition engines discovered at startup.
// Factories are probed exactly once, on first use; construction failures
// exclude the engine from the available set rather than propagating.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	order     []string
	engines   []Engine
	probed    bool
	logger    observability.Logger
}

// NewRegistry returns an empty registry. A nil logger disables degraded-mode
// warnings.
func NewRegistry(logger observability.Logger) *Registry {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger,
	}
}

// Register adds an engine factory under name. Registering after the first
// Available call has no effect on the probed set.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; !ok {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
}

// Available probes all registered factories once and returns the engines
// that constructed successfully, in registration order.
func (r *Registry) Available() []Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.probed {
		r.probe()
		r.probed = true
	}
	out := make([]Engine, len(r.engines))
	copy(out, r.engines)
	return out
}

func (r *Registry) probe() {
	for _, name := range r.order {
		engine, err := r.factories[name]()
		if err != nil {
			r.logger.Warn("recognition engine excluded",
				observability.String("engine", name),
				observability.Error("error", err),
			)
			continue
		}
		r.engines = append(r.engines, engine)
	}
}

var (
	defaultMu     sync.RWMutex
	defaultEngine Engine = noopEngine{}
)

// DefaultEngine returns the process-wide default recognition engine, used as
// the degraded-mode fallback when no registered engine is available.
func DefaultEngine() Engine {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultEngine
}

// SetDefaultEngine sets the process-wide default recognition engine.
func SetDefaultEngine(engine Engine) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = engine
}

type noopEngine struct{}

func (noopEngine) Name() string { return "noop" }

func (noopEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	return Result{InputID: input.ID, Engine: "noop", Variant: input.Variant}, nil
}
