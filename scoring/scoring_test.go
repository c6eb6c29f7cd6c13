package scoring

import (
	"math"
	"testing"
)

func defaultEngine() *Engine {
	return NewEngine(DefaultConfig(), nil)
}

func TestResolvedWeightsSumToOne(t *testing.T) {
	e := defaultEngine()
	types := []QuestionType{QuestionFactual, QuestionDescriptive, QuestionDiagram, QuestionMixed, "unknown"}
	for _, qt := range types {
		for _, hasDiagram := range []bool{true, false} {
			w := e.ResolveWeights(qt, hasDiagram)
			if math.Abs(w.sum()-1) > 1e-9 {
				t.Fatalf("weights for %s (diagram=%v) sum to %f", qt, hasDiagram, w.sum())
			}
			if !hasDiagram && w.Diagram != 0 {
				t.Fatalf("diagram weight must be zero without a diagram, got %f", w.Diagram)
			}
		}
	}
}

func TestDescriptiveRenormalization(t *testing.T) {
	e := defaultEngine()
	w := e.ResolveWeights(QuestionDescriptive, false)
	if math.Abs(w.Semantic-0.7/0.9) > 1e-9 || math.Abs(w.Keyword-0.2/0.9) > 1e-9 {
		t.Fatalf("unexpected renormalized weights: %+v", w)
	}
}

func TestScoreScenarioDescriptive(t *testing.T) {
	e := defaultEngine()
	comp := Components{
		Semantic:   0.78,
		Keyword:    0.667,
		StudentLen: 100,
		ModelLen:   100,
	}
	res := e.Score(QuestionDescriptive, comp, 10)
	want := 0.78*(0.7/0.9) + 0.667*(0.2/0.9)
	if math.Abs(res.FinalScore-want) > 1e-9 {
		t.Fatalf("unexpected final score: %f, want %f", res.FinalScore, want)
	}
	if res.Grade != GradeGood {
		t.Fatalf("expected grade good, got %s", res.Grade)
	}
	if res.LengthPenalty != 0 {
		t.Fatalf("expected no length penalty, got %f", res.LengthPenalty)
	}
}

func TestScoreEmptyStudentPenalty(t *testing.T) {
	e := defaultEngine()
	comp := Components{
		Semantic:   0,
		Keyword:    0.2,
		StudentLen: 0,
		ModelLen:   100,
	}
	res := e.Score(QuestionFactual, comp, 10)
	if math.Abs(res.LengthPenalty-0.05) > 1e-9 {
		t.Fatalf("expected maximal ratio penalty 0.05, got %f", res.LengthPenalty)
	}
	if res.FinalScore < 0 {
		t.Fatalf("final score must not go negative: %f", res.FinalScore)
	}
}

func TestScoreClamped(t *testing.T) {
	e := defaultEngine()
	over := e.Score(QuestionMixed, Components{
		Semantic: 1.2, Keyword: 1.1, Diagram: 1.3, HasDiagram: true,
		StudentLen: 100, ModelLen: 100,
	}, 10)
	if over.FinalScore > 1 {
		t.Fatalf("score not clamped above: %f", over.FinalScore)
	}
	under := e.Score(QuestionMixed, Components{
		Semantic: 0, Keyword: 0, StudentLen: 0, ModelLen: 100,
	}, 10)
	if under.FinalScore < 0 {
		t.Fatalf("score not clamped below: %f", under.FinalScore)
	}
}

func TestScoreMonotonic(t *testing.T) {
	e := defaultEngine()
	base := Components{Semantic: 0.3, Keyword: 0.3, StudentLen: 100, ModelLen: 100}
	prev := -1.0
	for s := 0.0; s <= 1.0; s += 0.1 {
		comp := base
		comp.Semantic = s
		res := e.Score(QuestionDescriptive, comp, 10)
		if res.FinalScore < prev {
			t.Fatalf("final score decreased as semantic increased at %f", s)
		}
		prev = res.FinalScore
	}
	prev = -1.0
	for k := 0.0; k <= 1.0; k += 0.1 {
		comp := base
		comp.Keyword = k
		res := e.Score(QuestionFactual, comp, 10)
		if res.FinalScore < prev {
			t.Fatalf("final score decreased as keyword increased at %f", k)
		}
		prev = res.FinalScore
	}
}

func TestMarksRounding(t *testing.T) {
	e := defaultEngine()
	res := e.Score(QuestionMixed, Components{
		Semantic: 1, Keyword: 1, StudentLen: 100, ModelLen: 100,
	}, 7.5)
	if res.ObtainedMarks != 7.5 {
		t.Fatalf("unexpected marks: %f", res.ObtainedMarks)
	}
	res = e.Score(QuestionMixed, Components{
		Semantic: 1.0 / 3.0, Keyword: 1.0 / 3.0, StudentLen: 100, ModelLen: 100,
	}, 10)
	marks := res.ObtainedMarks * 100
	if marks != math.Trunc(marks) {
		t.Fatalf("marks not rounded to two decimals: %f", res.ObtainedMarks)
	}
}

func TestGradeThresholdOrder(t *testing.T) {
	e := defaultEngine()
	cases := map[float64]Grade{
		0.95: GradeExcellent,
		0.85: GradeExcellent,
		0.84: GradeGood,
		0.70: GradeGood,
		0.69: GradeAverage,
		0.50: GradeAverage,
		0.49: GradePoor,
		0.0:  GradePoor,
	}
	for score, want := range cases {
		if got := e.GradeFor(score); got != want {
			t.Fatalf("GradeFor(%f) = %s, want %s", score, got, want)
		}
	}
}

func TestScoreZeroThresholdDisablesPenalty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LengthPenaltyThreshold = 0
	e := NewEngine(cfg, nil)
	comp := Components{
		Semantic:   0.8,
		Keyword:    0.8,
		StudentLen: 0,
		ModelLen:   200,
	}
	res := e.Score(QuestionFactual, comp, 10)
	if res.LengthPenalty != 0 {
		t.Fatalf("zero threshold must disable the penalty, got %f", res.LengthPenalty)
	}
}

func TestPartialConfigFallsBack(t *testing.T) {
	e := NewEngine(Config{}, nil)
	if got := e.GradeFor(0.9); got != GradeExcellent {
		t.Fatalf("default thresholds not applied: %s", got)
	}
	w := e.ResolveWeights(QuestionFactual, true)
	if w.Keyword != 0.5 {
		t.Fatalf("default weights not applied: %+v", w)
	}
}
