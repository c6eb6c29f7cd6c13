package nlp

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, strips everything but letters, digits and
// spaces, and collapses whitespace runs.
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				sb.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// Lemmatize reduces a word to a base form by deterministic suffix stripping.
// It is intentionally conservative: a suffix is removed only when enough stem
// remains for the result to stay recognizable.
func Lemmatize(word string) string {
	w := word
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ing") && len(w) > 6:
		return w[:len(w)-3]
	case strings.HasSuffix(w, "edly") && len(w) > 6:
		return w[:len(w)-4]
	case strings.HasSuffix(w, "ed") && len(w) > 4:
		return w[:len(w)-2]
	case strings.HasSuffix(w, "s") && len(w) > 3 &&
		!strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return w[:len(w)-1]
	}
	return w
}

// Stats summarizes a transcript for length-based signals.
type Stats struct {
	Chars     int
	Words     int
	Sentences int
}

// TextStatistics counts characters, words and sentences. Sentence boundaries
// are '.', '!' and '?' runs; text without terminal punctuation counts as one
// sentence when non-empty.
func TextStatistics(text string) Stats {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Stats{}
	}
	stats := Stats{
		Chars: len([]rune(trimmed)),
		Words: len(strings.Fields(trimmed)),
	}
	inSentence := false
	for _, r := range trimmed {
		switch r {
		case '.', '!', '?':
			if inSentence {
				stats.Sentences++
				inSentence = false
			}
		default:
			if !unicode.IsSpace(r) {
				inSentence = true
			}
		}
	}
	if inSentence {
		stats.Sentences++
	}
	return stats
}
