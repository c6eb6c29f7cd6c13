package diagram

import (
	"gocv.io/x/gocv"
)

type shapeSet struct {
	count int
	area  float64
}

// extractShapes binarizes the diagram and collects external contours above
// the minimum area.
func extractShapes(m gocv.Mat, minArea float64) shapeSet {
	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(m, &bin, 0, 255, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)

	contours := gocv.FindContours(bin, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var set shapeSet
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area < minArea {
			continue
		}
		set.count++
		set.area += area
	}
	return set
}

// shapeScore compares two shape sets by count and covered area, averaged
// 50/50. Two empty diagrams are identical; one empty side scores zero.
func shapeScore(a, b shapeSet) float64 {
	if a.count == 0 && b.count == 0 {
		return 1
	}
	if a.count == 0 || b.count == 0 {
		return 0
	}
	countRatio := ratio(float64(a.count), float64(b.count))
	areaRatio := ratio(a.area, b.area)
	return 0.5*countRatio + 0.5*areaRatio
}

func ratio(a, b float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b == 0 {
		return 0
	}
	return a / b
}
