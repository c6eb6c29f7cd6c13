package scoring

// Grade is the bucket a final score falls into.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeAverage   Grade = "average"
	GradePoor      Grade = "poor"
)

// GradeThreshold is an inclusive lower bound for a grade bucket.
type GradeThreshold struct {
	Grade Grade
	Min   float64
}

// defaultThresholds are consulted in descending order; the first bound the
// score clears wins.
var defaultThresholds = []GradeThreshold{
	{Grade: GradeExcellent, Min: 0.85},
	{Grade: GradeGood, Min: 0.70},
	{Grade: GradeAverage, Min: 0.50},
}

// GradeFor buckets a final score. Scores below every threshold grade poor.
func (e *Engine) GradeFor(score float64) Grade {
	for _, t := range e.cfg.Thresholds {
		if score >= t.Min {
			return t.Grade
		}
	}
	return GradePoor
}
