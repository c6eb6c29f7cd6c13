// Package evaluate orchestrates the full grading pipeline for one model and
// student answer pair: extraction, keyword coverage, semantic similarity,
// optional diagram comparison, and the final weighted score with feedback.
package evaluate

import (
	"context"
	"errors"
	"fmt"

	"github.com/nehalmr/evalkit/diagram"
	"github.com/nehalmr/evalkit/extract"
	"github.com/nehalmr/evalkit/nlp"
	"github.com/nehalmr/evalkit/observability"
	"github.com/nehalmr/evalkit/scoring"
	"github.com/nehalmr/evalkit/semantic"
)

// ErrScoringInput marks a caller precondition failure: an evaluation with no
// model answer at all cannot be scored.
var ErrScoringInput = errors.New("evaluate: model answer required")

// diagramScale converts the comparator's 0-10 output to the unit range the
// scoring engine works in.
const diagramScale = 10.0

// Request describes one evaluation. Answers may arrive as already-extracted
// text or as file paths (image or PDF) to run through extraction; text takes
// precedence when both are set.
type Request struct {
	ModelText   string
	ModelPath   string
	StudentText string
	StudentPath string

	// ModelDiagramPath and StudentDiagramPath enable the diagram signal
	// when both are set.
	ModelDiagramPath   string
	StudentDiagramPath string

	QuestionType scoring.QuestionType
	MaxMarks     float64
}

// Detail is the per-signal breakdown accompanying a result.
type Detail struct {
	ModelTranscript   string
	StudentTranscript string
	Semantic          float64
	Keyword           float64
	Jaccard           float64
	Diagram           *diagram.Analysis
	ModelStats        nlp.Stats
	StudentStats      nlp.Stats
}

// Result is the graded outcome for one request. It is immutable once
// produced.
type Result struct {
	FinalScore      float64
	ObtainedMarks   float64
	Grade           scoring.Grade
	MatchedKeywords []string
	MissingKeywords []string
	Feedback        scoring.Feedback
	Detail          Detail
}

// Evaluator wires the pipeline stages together. All stages are optional
// except scoring: a missing semantic backend degrades to word-overlap
// similarity, a missing comparator skips the diagram signal.
type Evaluator struct {
	extractor  *extract.Extractor
	scorer     *semantic.Scorer
	comparator *diagram.Comparator
	engine     *scoring.Engine
	logger     observability.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithExtractor sets the text extraction pipeline.
func WithExtractor(e *extract.Extractor) Option {
	return func(ev *Evaluator) { ev.extractor = e }
}

// WithSemanticScorer sets the meaning-similarity scorer.
func WithSemanticScorer(s *semantic.Scorer) Option {
	return func(ev *Evaluator) { ev.scorer = s }
}

// WithComparator sets the diagram comparator.
func WithComparator(c *diagram.Comparator) Option {
	return func(ev *Evaluator) { ev.comparator = c }
}

// WithScoringEngine sets the hybrid scoring engine.
func WithScoringEngine(e *scoring.Engine) Option {
	return func(ev *Evaluator) { ev.engine = e }
}

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(ev *Evaluator) { ev.logger = l }
}

// New constructs an evaluator with default stages for any not supplied.
func New(opts ...Option) *Evaluator {
	ev := &Evaluator{logger: observability.NopLogger{}}
	for _, opt := range opts {
		opt(ev)
	}
	if ev.extractor == nil {
		ev.extractor = extract.New(extract.WithLogger(ev.logger))
	}
	if ev.comparator == nil {
		ev.comparator = diagram.NewComparator(diagram.WithLogger(ev.logger))
	}
	if ev.engine == nil {
		ev.engine = scoring.NewEngine(scoring.DefaultConfig(), ev.logger)
	}
	return ev
}

// Evaluate runs the full pipeline. Decode failures and the absent-model
// precondition are the only error classes surfaced; every other fault
// degrades into a lower-signal but well-formed result.
func (ev *Evaluator) Evaluate(ctx context.Context, req Request) (*Result, error) {
	if req.ModelText == "" && req.ModelPath == "" {
		return nil, ErrScoringInput
	}
	modelText, err := ev.resolveText(ctx, req.ModelText, req.ModelPath)
	if err != nil {
		return nil, err
	}
	studentText, err := ev.resolveText(ctx, req.StudentText, req.StudentPath)
	if err != nil {
		return nil, err
	}

	modelKeywords := nlp.Keywords(modelText)
	studentKeywords := nlp.Keywords(studentText)
	coverage := nlp.Cover(modelKeywords, studentKeywords)

	detail := Detail{
		ModelTranscript:   modelText,
		StudentTranscript: studentText,
		Keyword:           coverage.Score,
		Jaccard:           nlp.JaccardSimilarity(modelText, studentText),
		ModelStats:        nlp.TextStatistics(modelText),
		StudentStats:      nlp.TextStatistics(studentText),
	}
	detail.Semantic = ev.semanticScore(ctx, modelText, studentText, detail.Jaccard)

	comp := scoring.Components{
		Semantic:   detail.Semantic,
		Keyword:    coverage.Score,
		StudentLen: detail.StudentStats.Chars,
		ModelLen:   detail.ModelStats.Chars,
	}

	if req.ModelDiagramPath != "" && req.StudentDiagramPath != "" {
		analysis, err := ev.comparator.AnalyzeFiles(req.ModelDiagramPath, req.StudentDiagramPath)
		if err != nil {
			return nil, fmt.Errorf("compare diagrams: %w", err)
		}
		detail.Diagram = &analysis
		comp.Diagram = analysis.Score / diagramScale
		comp.HasDiagram = true
	}

	scored := ev.engine.Score(req.QuestionType, comp, req.MaxMarks)
	return &Result{
		FinalScore:      scored.FinalScore,
		ObtainedMarks:   scored.ObtainedMarks,
		Grade:           scored.Grade,
		MatchedKeywords: coverage.Matched,
		MissingKeywords: coverage.Missing,
		Feedback:        scoring.GenerateFeedback(scored, comp, coverage.Missing),
		Detail:          detail,
	}, nil
}

// resolveText prefers provided text over extraction from path.
func (ev *Evaluator) resolveText(ctx context.Context, text, path string) (string, error) {
	if text != "" || path == "" {
		return text, nil
	}
	return ev.extractor.ExtractFile(ctx, path)
}

// semanticScore delegates to the embedding backend, degrading to the word
// overlap similarity when no backend is configured or the backend fails.
func (ev *Evaluator) semanticScore(ctx context.Context, modelText, studentText string, jaccard float64) float64 {
	if ev.scorer == nil {
		return jaccard
	}
	score, err := ev.scorer.Similarity(ctx, modelText, studentText)
	if err != nil {
		ev.logger.Warn("semantic backend failed, using word overlap",
			observability.Error("error", err),
		)
		return jaccard
	}
	return score
}
