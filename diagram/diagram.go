// Package diagram compares two diagram images structurally. Three weighted
// signals feed the composite: windowed structural similarity, ratio-tested
// feature matching and contour shape comparison. The composite is reported
// on a 0-10 scale; callers combining it with unit-range signals must rescale.
package diagram

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/nehalmr/evalkit/imaging"
	"github.com/nehalmr/evalkit/observability"
)

const (
	// workingSize is the square side both diagrams are resized to before
	// comparison.
	workingSize = 300
	// maxScore is the upper end of the reported scale.
	maxScore = 10.0
)

// Weights distributes the composite across the three signals.
type Weights struct {
	Structural float64
	Feature    float64
	Shape      float64
}

// DefaultWeights favors structure and features over raw shape counts.
var DefaultWeights = Weights{Structural: 0.4, Feature: 0.4, Shape: 0.2}

// Comparator scores diagram similarity.
type Comparator struct {
	weights        Weights
	minMatches     int
	minContourArea float64
	logger         observability.Logger
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithWeights overrides the signal weights.
func WithWeights(w Weights) Option {
	return func(c *Comparator) { c.weights = w }
}

// WithMinMatches sets the feature-match count that saturates the feature
// score.
func WithMinMatches(n int) Option {
	return func(c *Comparator) { c.minMatches = n }
}

// WithMinContourArea sets the smallest contour area counted as a shape.
func WithMinContourArea(area float64) Option {
	return func(c *Comparator) { c.minContourArea = area }
}

// WithLogger sets the comparator's logger.
func WithLogger(l observability.Logger) Option {
	return func(c *Comparator) { c.logger = l }
}

// NewComparator builds a comparator with the default tuning.
func NewComparator(opts ...Option) *Comparator {
	c := &Comparator{
		weights:        DefaultWeights,
		minMatches:     10,
		minContourArea: 100,
		logger:         observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analysis is the per-signal breakdown of one comparison.
type Analysis struct {
	Structural float64
	Feature    float64
	Shape      float64
	Wavelet    float64
	ShapesA    int
	ShapesB    int
	// Score is the weighted composite on the 0-10 scale. Wavelet similarity
	// is informational and not part of the composite.
	Score float64
}

// Compare returns the composite similarity of two diagrams on the 0-10
// scale.
func (c *Comparator) Compare(a, b image.Image) (float64, error) {
	analysis, err := c.Analyze(a, b)
	if err != nil {
		return 0, err
	}
	return analysis.Score, nil
}

// Analyze computes the full per-signal breakdown.
func (c *Comparator) Analyze(a, b image.Image) (Analysis, error) {
	start := time.Now()
	matA, err := preprocess(a)
	if err != nil {
		return Analysis{}, err
	}
	defer matA.Close()
	matB, err := preprocess(b)
	if err != nil {
		return Analysis{}, err
	}
	defer matB.Close()

	analysis := Analysis{
		Structural: (ssim(matA, matB) + 1) / 2,
		Wavelet:    waveletSimilarity(a, b),
	}
	analysis.Feature = c.featureScore(matA, matB)

	shapesA := extractShapes(matA, c.minContourArea)
	shapesB := extractShapes(matB, c.minContourArea)
	analysis.ShapesA = shapesA.count
	analysis.ShapesB = shapesB.count
	analysis.Shape = shapeScore(shapesA, shapesB)

	analysis.Score = (analysis.Structural*c.weights.Structural +
		analysis.Feature*c.weights.Feature +
		analysis.Shape*c.weights.Shape) * maxScore

	c.logger.Debug("diagram compared",
		observability.Float64("structural", analysis.Structural),
		observability.Float64("feature", analysis.Feature),
		observability.Float64("shape", analysis.Shape),
		observability.Int64(observability.MetricDiagramTime, time.Since(start).Milliseconds()),
	)
	return analysis, nil
}

// CompareFiles loads both images from disk and compares them.
func (c *Comparator) CompareFiles(pathA, pathB string) (float64, error) {
	analysis, err := c.AnalyzeFiles(pathA, pathB)
	if err != nil {
		return 0, err
	}
	return analysis.Score, nil
}

// AnalyzeFiles loads both images from disk and computes the full breakdown.
func (c *Comparator) AnalyzeFiles(pathA, pathB string) (Analysis, error) {
	a, err := loadImage(pathA)
	if err != nil {
		return Analysis{}, err
	}
	b, err := loadImage(pathB)
	if err != nil {
		return Analysis{}, err
	}
	return c.Analyze(a, b)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imaging.ErrDecode, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", imaging.ErrDecode, path, err)
	}
	return img, nil
}

// preprocess converts to grayscale, resizes to the working square and
// smooths sensor noise.
func preprocess(img image.Image) (gocv.Mat, error) {
	rgb, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %v", imaging.ErrDecode, err)
	}
	defer rgb.Close()
	gray := gocv.NewMat()
	gocv.CvtColor(rgb, &gray, gocv.ColorRGBToGray)
	resized := gocv.NewMat()
	gocv.Resize(gray, &resized, image.Pt(workingSize, workingSize), 0, 0, gocv.InterpolationArea)
	gray.Close()
	smoothed := gocv.NewMat()
	gocv.GaussianBlur(resized, &smoothed, image.Pt(5, 5), 0, 0, gocv.BorderDefault)
	resized.Close()
	return smoothed, nil
}
