package nlp

import "strings"

// minKeywordLen filters out fragments recognition noise tends to produce.
const minKeywordLen = 3

// Keywords extracts the normalized keyword set from a transcript: lowercase,
// punctuation stripped, stopwords removed, suffix-lemmatized, duplicates
// collapsed. First-appearance order is kept for readable feedback, but
// callers must not rely on it (set semantics).
func Keywords(text string) []string {
	fields := strings.Fields(Normalize(text))
	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minKeywordLen || IsStopword(f) {
			continue
		}
		lemma := Lemmatize(f)
		if len(lemma) < minKeywordLen || IsStopword(lemma) {
			continue
		}
		if _, ok := seen[lemma]; ok {
			continue
		}
		seen[lemma] = struct{}{}
		keywords = append(keywords, lemma)
	}
	return keywords
}

// JaccardSimilarity is the word-set overlap between two texts: the size of
// the intersection over the size of the union of their normalized word sets.
// Two empty texts score 1.
func JaccardSimilarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(Normalize(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
