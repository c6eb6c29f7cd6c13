package scoring

// QuestionType selects the weight distribution for one evaluation.
type QuestionType string

const (
	QuestionFactual     QuestionType = "factual"
	QuestionDescriptive QuestionType = "descriptive"
	QuestionDiagram     QuestionType = "diagram"
	QuestionMixed       QuestionType = "mixed"
)

// WeightSet distributes the final score across the similarity signals. A
// resolved set always sums to 1.
type WeightSet struct {
	Semantic float64
	Keyword  float64
	Diagram  float64
}

func (w WeightSet) sum() float64 { return w.Semantic + w.Keyword + w.Diagram }

// defaultWeightTable keeps a diagram floor even for text-only question
// types so a provided diagram always contributes.
var defaultWeightTable = map[QuestionType]WeightSet{
	QuestionFactual:     {Semantic: 0.4, Keyword: 0.5, Diagram: 0.1},
	QuestionDescriptive: {Semantic: 0.7, Keyword: 0.2, Diagram: 0.1},
	QuestionDiagram:     {Semantic: 0.3, Keyword: 0.2, Diagram: 0.5},
	QuestionMixed:       {Semantic: 0.5, Keyword: 0.25, Diagram: 0.25},
}

// ResolveWeights returns the weight set for questionType, redistributing the
// diagram weight proportionally into semantic and keyword when no diagram
// score is available. Unknown types resolve as mixed.
func (e *Engine) ResolveWeights(questionType QuestionType, hasDiagram bool) WeightSet {
	w, ok := e.cfg.Weights[questionType]
	if !ok {
		w = e.cfg.Weights[QuestionMixed]
	}
	if hasDiagram {
		return w
	}
	textTotal := w.Semantic + w.Keyword
	if textTotal == 0 {
		return WeightSet{Semantic: 0.5, Keyword: 0.5}
	}
	return WeightSet{
		Semantic: w.Semantic / textTotal,
		Keyword:  w.Keyword / textTotal,
	}
}
