package scoring

import (
	"fmt"
	"strings"
)

// Feedback is the human-readable companion to a graded result.
type Feedback struct {
	Summary      string
	Strengths    []string
	Improvements []string
}

var gradeSummaries = map[Grade]string{
	GradeExcellent: "Excellent answer. It covers the expected content thoroughly.",
	GradeGood:      "Good answer with most of the expected content present.",
	GradeAverage:   "Fair attempt, but several expected points are underdeveloped.",
	GradePoor:      "The answer misses most of the expected content.",
}

// GenerateFeedback derives a summary plus strengths and improvement points
// from the component scores and the missing keywords.
func GenerateFeedback(res Result, comp Components, missing []string) Feedback {
	fb := Feedback{
		Summary:      gradeSummaries[res.Grade],
		Strengths:    []string{},
		Improvements: []string{},
	}

	if comp.Semantic >= 0.7 {
		fb.Strengths = append(fb.Strengths, "The explanation closely matches the meaning of the model answer.")
	}
	if comp.Keyword >= 0.7 {
		fb.Strengths = append(fb.Strengths, "Most key terms are present.")
	}
	if comp.HasDiagram && comp.Diagram >= 0.7 {
		fb.Strengths = append(fb.Strengths, "The diagram closely resembles the expected one.")
	}

	if comp.Semantic < 0.5 {
		fb.Improvements = append(fb.Improvements, "Explain the concept more fully; the answer diverges from the expected meaning.")
	}
	if len(missing) > 0 {
		fb.Improvements = append(fb.Improvements,
			fmt.Sprintf("Include the missing key terms: %s.", strings.Join(missing, ", ")))
	}
	if comp.HasDiagram && comp.Diagram < 0.5 {
		fb.Improvements = append(fb.Improvements, "Redraw the diagram with the expected structures labelled.")
	}
	if res.LengthPenalty > 0 {
		fb.Improvements = append(fb.Improvements, "The answer is much shorter than expected; elaborate on each point.")
	}
	return fb
}
