package nlp

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
		"at", "by", "for", "with", "about", "against", "between", "into",
		"through", "during", "before", "after", "above", "below", "to",
		"from", "up", "down", "in", "out", "on", "off", "over", "under",
		"again", "further", "once", "here", "there", "all", "any", "both",
		"each", "few", "more", "most", "other", "some", "such", "no", "nor",
		"not", "only", "own", "same", "so", "than", "too", "very", "can",
		"will", "just", "should", "now", "is", "am", "are", "was", "were",
		"be", "been", "being", "have", "has", "had", "having", "do", "does",
		"did", "doing", "of", "it", "its", "this", "that", "these", "those",
		"i", "me", "my", "we", "our", "you", "your", "he", "him", "his",
		"she", "her", "they", "them", "their", "what", "which", "who",
		"whom", "as", "also",
	} {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether the lowercased word carries no keyword value.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}
