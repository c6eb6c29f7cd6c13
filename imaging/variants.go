package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/nehalmr/evalkit/observability"
)

// Variant is one preprocessed copy of a source image, encoded as PNG and
// tagged with the strategy that produced it.
type Variant struct {
	Backend string
	Name    string
	PNG     []byte
}

type strategy struct {
	name string
	fn   func(s *Source) (gocv.Mat, error)
}

// The full catalog, in the order fallback mode runs it.
var strategies = []strategy{
	{"clahe", claheVariant(2.5)},
	{"clahe-strong", claheVariant(4.0)},
	{"adaptive-fine", adaptiveVariant(11, 5)},
	{"adaptive-coarse", adaptiveVariant(31, 15)},
	{"denoise-clahe", denoiseCLAHE},
	{"sharpen", sharpen},
	{"dilated", dilated},
	{"inverted", inverted},
	{"illumination", illumination},
	{"edge-enhance", edgeEnhance},
	{"otsu", otsu},
	{"bilateral-adaptive", bilateralAdaptive},
	{"ruled-lines", ruledLineRemoval},
	{"ink-channel", inkChannel},
	{"deskewed", deskewed},
}

// backendStrategies maps an engine name to the 1-2 strategies tuned to it.
// Unknown engines fall back to a contrast/binarization pair.
var backendStrategies = map[string][]string{
	"tesseract":   {"adaptive-fine", "otsu"},
	"cloudvision": {"clahe", "denoise-clahe"},
	"docintel":    {"sharpen", "illumination"},
}

var defaultBackendStrategies = []string{"clahe", "adaptive-fine"}

// VariantsFor generates the variants tuned to backendID. Individual strategy
// failures are skipped; the returned slice may be shorter than requested but
// always includes the unmodified grayscale image as a last resort when every
// strategy fails.
func VariantsFor(s *Source, backendID string, logger observability.Logger) []Variant {
	names, ok := backendStrategies[backendID]
	if !ok {
		names = defaultBackendStrategies
	}
	picked := make([]strategy, 0, len(names))
	for _, name := range names {
		for _, st := range strategies {
			if st.name == name {
				picked = append(picked, st)
			}
		}
	}
	return run(s, backendID, picked, logger)
}

// AllVariants generates the full strategy catalog for single-engine fallback
// mode.
func AllVariants(s *Source, logger observability.Logger) []Variant {
	return run(s, "", strategies, logger)
}

func run(s *Source, backendID string, picked []strategy, logger observability.Logger) []Variant {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	variants := make([]Variant, 0, len(picked))
	for _, st := range picked {
		png, err := apply(s, st)
		if err != nil {
			logger.Warn("preprocessing strategy skipped",
				observability.String("strategy", st.name),
				observability.Error("error", err),
			)
			continue
		}
		variants = append(variants, Variant{Backend: backendID, Name: st.name, PNG: png})
	}
	if len(variants) == 0 {
		if png, err := encodeMat(s.gray()); err == nil {
			variants = append(variants, Variant{Backend: backendID, Name: "original", PNG: png})
		}
	}
	return variants
}

// apply runs one strategy and encodes the result. Native-layer panics are
// converted to errors so a misbehaving transform skips instead of aborting
// variant generation.
func apply(s *Source, st strategy) (png []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s: %v", st.name, r)
		}
	}()
	out, err := st.fn(s)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", st.name, err)
	}
	return encodeMat(out)
}

// encodeMat encodes and closes m.
func encodeMat(m gocv.Mat) ([]byte, error) {
	defer m.Close()
	buf, err := gocv.IMEncode(gocv.PNGFileExt, m)
	if err != nil {
		return nil, fmt.Errorf("encode variant: %w", err)
	}
	defer buf.Close()
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func claheVariant(clip float64) func(*Source) (gocv.Mat, error) {
	return func(s *Source) (gocv.Mat, error) {
		gray := s.gray()
		defer gray.Close()
		clahe := gocv.NewCLAHEWithParams(clip, image.Pt(8, 8))
		defer clahe.Close()
		dst := gocv.NewMat()
		clahe.Apply(gray, &dst)
		return dst, nil
	}
}

func adaptiveVariant(blockSize int, c float32) func(*Source) (gocv.Mat, error) {
	return func(s *Source) (gocv.Mat, error) {
		gray := s.gray()
		defer gray.Close()
		dst := gocv.NewMat()
		gocv.AdaptiveThreshold(gray, &dst, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, blockSize, c)
		return dst, nil
	}
}

func denoiseCLAHE(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	denoised := gocv.NewMat()
	defer denoised.Close()
	gocv.FastNlMeansDenoisingWithParams(gray, &denoised, 10, 7, 21)
	clahe := gocv.NewCLAHEWithParams(2.5, image.Pt(8, 8))
	defer clahe.Close()
	dst := gocv.NewMat()
	clahe.Apply(denoised, &dst)
	return dst, nil
}

func sharpen(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(0, 0), 3, 3, gocv.BorderDefault)
	dst := gocv.NewMat()
	gocv.AddWeighted(gray, 1.5, blurred, -0.5, 0, &dst)
	return dst, nil
}

func dilated(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(gray, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, 21, 10)
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(2, 2))
	defer kernel.Close()
	dst := gocv.NewMat()
	gocv.Dilate(thresh, &dst, kernel)
	return dst, nil
}

func inverted(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	dst := gocv.NewMat()
	gocv.BitwiseNot(gray, &dst)
	return dst, nil
}

// illumination flattens uneven lighting: a large morphological opening
// estimates the background, which is subtracted and the residual stretched
// back to full range.
func illumination(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(50, 50))
	defer kernel.Close()
	background := gocv.NewMat()
	defer background.Close()
	gocv.MorphologyEx(gray, &background, gocv.MorphOpen, kernel)
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(gray, background, &diff)
	dst := gocv.NewMat()
	gocv.Normalize(diff, &dst, 0, 255, gocv.NormMinMax)
	return dst, nil
}

func edgeEnhance(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(gray, &gx, gocv.MatTypeCV16S, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gy, gocv.MatTypeCV16S, 0, 1, 3, 1, 0, gocv.BorderDefault)
	ax := gocv.NewMat()
	defer ax.Close()
	ay := gocv.NewMat()
	defer ay.Close()
	gocv.ConvertScaleAbs(gx, &ax, 1, 0)
	gocv.ConvertScaleAbs(gy, &ay, 1, 0)
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.AddWeighted(ax, 0.5, ay, 0.5, 0, &edges)
	dst := gocv.NewMat()
	gocv.AddWeighted(gray, 0.7, edges, 0.3, 0, &dst)
	return dst, nil
}

func otsu(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	dst := gocv.NewMat()
	gocv.Threshold(gray, &dst, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)
	return dst, nil
}

func bilateralAdaptive(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	smoothed := gocv.NewMat()
	defer smoothed.Close()
	gocv.BilateralFilter(gray, &smoothed, 9, 75, 75)
	dst := gocv.NewMat()
	gocv.AdaptiveThreshold(smoothed, &dst, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, 21, 10)
	return dst, nil
}

// ruledLineRemoval erases horizontal notebook rules so strokes crossing them
// survive binarization.
func ruledLineRemoval(s *Source) (gocv.Mat, error) {
	gray := s.gray()
	defer gray.Close()
	binInv := gocv.NewMat()
	defer binInv.Close()
	gocv.AdaptiveThreshold(gray, &binInv, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, 21, 10)
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(40, 1))
	defer kernel.Close()
	lines := gocv.NewMat()
	defer lines.Close()
	gocv.MorphologyEx(binInv, &lines, gocv.MorphOpen, kernel)
	cleaned := gocv.NewMat()
	defer cleaned.Close()
	gocv.Subtract(binInv, lines, &cleaned)
	dst := gocv.NewMat()
	gocv.BitwiseNot(cleaned, &dst)
	return dst, nil
}

// inkChannel isolates dark ink by thresholding the red channel, where blue
// and black pens have the strongest contrast against paper.
func inkChannel(s *Source) (gocv.Mat, error) {
	if s.mat.Channels() < 3 {
		return gocv.Mat{}, fmt.Errorf("single-channel source has no ink channel")
	}
	channels := gocv.Split(s.mat)
	for i, ch := range channels {
		if i != 2 {
			ch.Close()
		}
	}
	red := channels[2]
	defer red.Close()
	upscale(&red)
	dst := gocv.NewMat()
	gocv.Threshold(red, &dst, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)
	return dst, nil
}

// deskewed rotates the page upright before the grayscale conversion. Part
// of the fallback catalog: a tilted scan that defeats every tuned strategy
// still gets one straightened attempt.
func deskewed(s *Source) (gocv.Mat, error) {
	upright, err := Deskew(s)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer upright.Close()
	return upright.gray(), nil
}

// Deskew estimates the dominant stroke slant from image moments and rotates
// the page upright. Angles below a quarter degree are left untouched.
func Deskew(s *Source) (*Source, error) {
	gray := s.gray()
	defer gray.Close()
	binInv := gocv.NewMat()
	defer binInv.Close()
	gocv.Threshold(gray, &binInv, 0, 255, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)

	m := gocv.Moments(binInv, true)
	if math.Abs(m["mu02"]) < 1e-2 {
		return cloneSource(s), nil
	}
	skew := m["mu11"] / m["mu02"]
	angle := math.Atan(skew) * 180 / math.Pi
	if math.Abs(angle) < 0.25 {
		return cloneSource(s), nil
	}

	center := image.Pt(s.mat.Cols()/2, s.mat.Rows()/2)
	rot := gocv.GetRotationMatrix2D(center, angle, 1.0)
	defer rot.Close()
	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(s.mat, &dst, rot, image.Pt(s.mat.Cols(), s.mat.Rows()),
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{R: 255, G: 255, B: 255})
	return &Source{Path: s.Path, mat: dst}, nil
}

func cloneSource(s *Source) *Source {
	clone := gocv.NewMat()
	s.mat.CopyTo(&clone)
	return &Source{Path: s.Path, mat: clone}
}
