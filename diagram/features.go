package diagram

import (
	"gocv.io/x/gocv"
)

// featureRatioTest is Lowe's ratio: a match counts only when the best
// neighbor is this much closer than the second best.
const featureRatioTest = 0.75

// featureScore detects ORB keypoints in both images, matches descriptors
// with a hamming-distance KNN search and scores the surviving ratio-tested
// matches against the saturation threshold.
func (c *Comparator) featureScore(a, b gocv.Mat) float64 {
	orb := gocv.NewORB()
	defer orb.Close()

	maskA := gocv.NewMat()
	defer maskA.Close()
	maskB := gocv.NewMat()
	defer maskB.Close()

	kpA, desA := orb.DetectAndCompute(a, maskA)
	defer desA.Close()
	kpB, desB := orb.DetectAndCompute(b, maskB)
	defer desB.Close()

	if len(kpA) == 0 || len(kpB) == 0 || desA.Empty() || desB.Empty() {
		return 0
	}

	matcher := gocv.NewBFMatcherWithParams(gocv.NormHamming, false)
	defer matcher.Close()
	matches := matcher.KnnMatch(desA, desB, 2)

	good := 0
	for _, pair := range matches {
		if len(pair) < 2 {
			continue
		}
		if pair[0].Distance < featureRatioTest*pair[1].Distance {
			good++
		}
	}
	score := float64(good) / float64(c.minMatches)
	if score > 1 {
		score = 1
	}
	return score
}
