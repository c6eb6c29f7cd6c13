package diagram

import (
	"image"

	"github.com/rivo/duplo"
)

// waveletSimilarity scores perceptual closeness with Haar-wavelet hashes.
// The store's match score grows more negative the more alike the images
// are; the mapping below folds it into [0,1] with full-duplicate scores
// saturating at 1. Informational only, not part of the weighted composite.
func waveletSimilarity(a, b image.Image) float64 {
	hashA, _ := duplo.CreateHash(a)
	hashB, _ := duplo.CreateHash(b)

	store := duplo.New()
	store.Add("model", hashA)
	matches := store.Query(hashB)
	if len(matches) == 0 {
		return 0
	}
	score := matches[0].Score
	switch {
	case score <= -100:
		return 1
	case score >= 0:
		return 0
	default:
		return -score / 100
	}
}
