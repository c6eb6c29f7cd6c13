package extract

import (
	"strings"
	"unicode"

	"github.com/nehalmr/evalkit/recognize"
)

// lineMatchCutoff is the minimum sequence similarity for a line from a
// non-anchor engine to join an anchor line's voting group.
const lineMatchCutoff = 0.25

// Fuse synthesizes one transcript from per-engine results. With zero or one
// result, the sole text is returned unchanged. Otherwise the highest
// confidence result anchors line alignment and each word position is decided
// by confidence-weighted voting across the aligned lines.
func Fuse(results []recognize.Result) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return results[0].Text
	}

	anchorIdx := 0
	for i, r := range results {
		if r.Confidence > results[anchorIdx].Confidence {
			anchorIdx = i
		}
	}
	anchor := results[anchorIdx]
	anchorLines := splitLines(anchor.Text)

	others := make([]weightedLines, 0, len(results)-1)
	for i, r := range results {
		if i == anchorIdx {
			continue
		}
		others = append(others, weightedLines{lines: splitLines(r.Text), confidence: r.Confidence})
	}

	fused := make([]string, 0, len(anchorLines))
	for _, line := range anchorLines {
		group := []weightedLine{{text: line, confidence: anchor.Confidence}}
		for _, other := range others {
			if match, ok := other.bestMatch(line); ok {
				group = append(group, weightedLine{text: match, confidence: other.confidence})
			}
		}
		fused = append(fused, voteLine(group))
	}
	return strings.Join(fused, "\n")
}

type weightedLine struct {
	text       string
	confidence float64
}

type weightedLines struct {
	lines      []string
	confidence float64
}

// bestMatch returns this engine's closest line to target, or false when no
// line clears the similarity cutoff.
func (w weightedLines) bestMatch(target string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, line := range w.lines {
		if score := lineSimilarity(target, line); score > bestScore {
			best, bestScore = line, score
		}
	}
	if bestScore < lineMatchCutoff {
		return "", false
	}
	return best, true
}

// voteLine picks each word position by cumulative confidence. Candidate
// words are grouped case-insensitively; score ties break toward the group
// with the most alphabetic characters, and the surface form kept is the
// highest-alpha-count spelling within the winning group.
func voteLine(group []weightedLine) string {
	maxWords := 0
	split := make([][]string, len(group))
	for i, wl := range group {
		split[i] = strings.Fields(wl.text)
		if len(split[i]) > maxWords {
			maxWords = len(split[i])
		}
	}

	words := make([]string, 0, maxWords)
	for pos := 0; pos < maxWords; pos++ {
		type candidate struct {
			weight  float64
			surface string
		}
		votes := make(map[string]*candidate)
		var order []string
		for i, wl := range group {
			if pos >= len(split[i]) {
				continue
			}
			word := split[i][pos]
			key := strings.ToLower(word)
			c, ok := votes[key]
			if !ok {
				c = &candidate{surface: word}
				votes[key] = c
				order = append(order, key)
			}
			c.weight += wl.confidence
			if alphaCount(word) > alphaCount(c.surface) {
				c.surface = word
			}
		}
		if len(order) == 0 {
			continue
		}
		winner := votes[order[0]]
		for _, key := range order[1:] {
			c := votes[key]
			if c.weight > winner.weight ||
				(c.weight == winner.weight && alphaCount(c.surface) > alphaCount(winner.surface)) {
				winner = c
			}
		}
		words = append(words, winner.surface)
	}
	return strings.Join(words, " ")
}

func alphaCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// lineSimilarity measures how alike two lines are as the ratio of their
// longest common subsequence to their combined length, in [0,1].
// Case-insensitive.
func lineSimilarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
