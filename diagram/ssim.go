package diagram

import (
	"math"

	"gocv.io/x/gocv"
)

// SSIM constants for 8-bit images.
const (
	ssimC1 = (0.01 * 255) * (0.01 * 255)
	ssimC2 = (0.03 * 255) * (0.03 * 255)
)

// ssim computes the mean structural similarity index between two equal-size
// single-channel mats, in [-1,1]. The local statistics use an 11-tap
// gaussian window with sigma 1.5.
func ssim(a, b gocv.Mat) float64 {
	w, h := a.Cols(), a.Rows()
	if w != b.Cols() || h != b.Rows() || w == 0 || h == 0 {
		return -1
	}
	fa := matToFloats(a)
	fb := matToFloats(b)

	muA := gaussianFilter(fa, w, h)
	muB := gaussianFilter(fb, w, h)

	aa := multiply(fa, fa)
	bb := multiply(fb, fb)
	ab := multiply(fa, fb)

	sigmaAA := gaussianFilter(aa, w, h)
	sigmaBB := gaussianFilter(bb, w, h)
	sigmaAB := gaussianFilter(ab, w, h)

	var sum float64
	for i := range fa {
		mA, mB := muA[i], muB[i]
		vA := sigmaAA[i] - mA*mA
		vB := sigmaBB[i] - mB*mB
		cov := sigmaAB[i] - mA*mB
		num := (2*mA*mB + ssimC1) * (2*cov + ssimC2)
		den := (mA*mA + mB*mB + ssimC1) * (vA + vB + ssimC2)
		sum += num / den
	}
	return sum / float64(len(fa))
}

func matToFloats(m gocv.Mat) []float64 {
	bytes := m.ToBytes()
	out := make([]float64, len(bytes))
	for i, v := range bytes {
		out[i] = float64(v)
	}
	return out
}

func multiply(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}

var ssimKernel = gaussianKernel(11, 1.5)

func gaussianKernel(size int, sigma float64) []float64 {
	kernel := make([]float64, size)
	center := float64(size / 2)
	var sum float64
	for i := range kernel {
		d := float64(i) - center
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianFilter applies the separable SSIM window with clamped borders.
func gaussianFilter(src []float64, w, h int) []float64 {
	radius := len(ssimKernel) / 2
	tmp := make([]float64, len(src))
	out := make([]float64, len(src))

	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			var acc float64
			for k, kv := range ssimKernel {
				xx := x + k - radius
				if xx < 0 {
					xx = 0
				} else if xx >= w {
					xx = w - 1
				}
				acc += kv * src[row+xx]
			}
			tmp[row+x] = acc
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k, kv := range ssimKernel {
				yy := y + k - radius
				if yy < 0 {
					yy = 0
				} else if yy >= h {
					yy = h - 1
				}
				acc += kv * tmp[yy*w+x]
			}
			out[y*w+x] = acc
		}
	}
	return out
}
