// Package scoring combines independent similarity signals into one graded
// result. Weights depend on the question type, a length penalty discourages
// answers far shorter than the model answer, and the final score is clamped
// to the unit range before marks and grade are derived.
package scoring

import (
	"math"
	"time"

	"github.com/nehalmr/evalkit/observability"
)

// Config carries the resolved tunables. The configuration collaborator hands
// these in as values; the engine never reads configuration storage.
type Config struct {
	Weights map[QuestionType]WeightSet
	// Thresholds must be ordered by descending Min.
	Thresholds []GradeThreshold
	// LengthPenaltyThreshold is the student/model length ratio below which
	// the penalty applies. Zero disables the penalty.
	LengthPenaltyThreshold float64
	// LengthPenaltyFactor scales the penalty and caps it.
	LengthPenaltyFactor float64
}

// DefaultConfig returns the standard weight table, grade thresholds and
// penalty tuning.
func DefaultConfig() Config {
	weights := make(map[QuestionType]WeightSet, len(defaultWeightTable))
	for k, v := range defaultWeightTable {
		weights[k] = v
	}
	thresholds := make([]GradeThreshold, len(defaultThresholds))
	copy(thresholds, defaultThresholds)
	return Config{
		Weights:                weights,
		Thresholds:             thresholds,
		LengthPenaltyThreshold: 0.5,
		LengthPenaltyFactor:    0.1,
	}
}

// Components are the independently computed signals for one evaluation. All
// are derived from the final corrected transcripts, never from intermediate
// per-engine text.
type Components struct {
	// Semantic is the meaning-level similarity in [0,1].
	Semantic float64
	// Keyword is the fuzzy coverage score in [0,1].
	Keyword float64
	// Diagram is the diagram similarity rescaled to [0,1]; valid only when
	// HasDiagram is set.
	Diagram    float64
	HasDiagram bool
	// StudentLen and ModelLen are transcript character counts for the
	// length penalty.
	StudentLen int
	ModelLen   int
}

// Result is the outcome of combining one set of components.
type Result struct {
	FinalScore    float64
	ObtainedMarks float64
	Grade         Grade
	Weights       WeightSet
	LengthPenalty float64
}

// Engine scores evaluations against one configuration.
type Engine struct {
	cfg    Config
	logger observability.Logger
}

// NewEngine fills the structural fields from the defaults when absent so a
// partially filled Config stays usable. The penalty tuning is taken as
// given: a zero threshold legitimately means no length penalty, so callers
// wanting the standard tuning start from DefaultConfig.
func NewEngine(cfg Config, logger observability.Logger) *Engine {
	def := DefaultConfig()
	if cfg.Weights == nil {
		cfg.Weights = def.Weights
	}
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = def.Thresholds
	}
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Score runs the single-pass combination: resolve weights, weighted sum,
// penalty, clamp, marks, grade. It never fails; malformed-but-present
// inputs still produce a well-formed result.
func (e *Engine) Score(questionType QuestionType, comp Components, maxMarks float64) Result {
	start := time.Now()
	weights := e.ResolveWeights(questionType, comp.HasDiagram)

	weighted := comp.Semantic*weights.Semantic + comp.Keyword*weights.Keyword
	if comp.HasDiagram {
		weighted += comp.Diagram * weights.Diagram
	}

	penalty := e.lengthPenalty(comp.StudentLen, comp.ModelLen)
	final := clamp(weighted-penalty, 0, 1)

	res := Result{
		FinalScore:    final,
		ObtainedMarks: round2(final * maxMarks),
		Grade:         e.GradeFor(final),
		Weights:       weights,
		LengthPenalty: penalty,
	}
	e.logger.Debug("score combined",
		observability.String("question_type", string(questionType)),
		observability.Float64("final", res.FinalScore),
		observability.Int64(observability.MetricScoreTime, time.Since(start).Milliseconds()),
	)
	return res
}

// lengthPenalty punishes answers much shorter than the model answer. The
// penalty grows linearly below the ratio threshold and is capped at the
// penalty factor.
func (e *Engine) lengthPenalty(studentLen, modelLen int) float64 {
	if modelLen < 1 {
		modelLen = 1
	}
	ratio := float64(studentLen) / float64(modelLen)
	if ratio >= e.cfg.LengthPenaltyThreshold {
		return 0
	}
	penalty := (e.cfg.LengthPenaltyThreshold - ratio) * e.cfg.LengthPenaltyFactor
	if penalty > e.cfg.LengthPenaltyFactor {
		penalty = e.cfg.LengthPenaltyFactor
	}
	return penalty
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
