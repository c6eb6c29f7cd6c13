package nlp

import "strings"

const (
	// fuzzyMatchThreshold is the minimum similarity for a model keyword to
	// count as present in the student's answer.
	fuzzyMatchThreshold = 0.8
	// containmentScore is awarded when one keyword contains the other, a
	// cheap short-circuit before edit distance.
	containmentScore = 0.9
)

// Coverage is the result of matching a model answer's keywords against a
// student's.
type Coverage struct {
	Score   float64
	Matched []string
	Missing []string
}

// Cover computes fuzzy set coverage of model keywords by student keywords.
// Every model keyword is checked for exact membership first, then fuzzily
// against each student keyword. An empty model set is vacuously covered:
// score 1.0 with no matched or missing entries.
func Cover(model, student []string) Coverage {
	if len(model) == 0 {
		return Coverage{Score: 1.0, Matched: []string{}, Missing: []string{}}
	}

	studentSet := make(map[string]struct{}, len(student))
	lowered := make([]string, 0, len(student))
	for _, s := range student {
		l := strings.ToLower(s)
		studentSet[l] = struct{}{}
		lowered = append(lowered, l)
	}

	cov := Coverage{Matched: []string{}, Missing: []string{}}
	for _, m := range model {
		key := strings.ToLower(m)
		if _, ok := studentSet[key]; ok {
			cov.Matched = append(cov.Matched, key)
			continue
		}
		found := false
		for _, s := range lowered {
			if Similarity(key, s) >= fuzzyMatchThreshold {
				found = true
				break
			}
		}
		if found {
			cov.Matched = append(cov.Matched, key)
		} else {
			cov.Missing = append(cov.Missing, key)
		}
	}
	cov.Score = float64(len(cov.Matched)) / float64(len(model))
	return cov
}

// Similarity scores two keywords in [0,1]: 1 for equality, containmentScore
// when one contains the other, otherwise normalized edit-distance
// similarity.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return containmentScore
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}

// Levenshtein returns the edit distance between two strings, by runes.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
