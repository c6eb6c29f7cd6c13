package imaging

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrDecode indicates the source image could not be read. It is fatal to the
// extraction call that loaded the image.
var ErrDecode = errors.New("imaging: cannot decode source image")

// minWorkingDimension is the smallest side length variants are generated at.
// Smaller scans are upscaled with cubic interpolation before preprocessing.
const minWorkingDimension = 2000

// Source is a decoded scan plus its file origin. It is owned exclusively by
// the extraction call that loaded it and must be closed by that call.
type Source struct {
	Path string
	mat  gocv.Mat
}

// Open loads and decodes the image at path.
func Open(path string) (*Source, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: %s", ErrDecode, path)
	}
	return &Source{Path: path, mat: mat}, nil
}

// Decode wraps already-loaded encoded image bytes as a source.
func Decode(data []byte) (*Source, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if err == nil {
			err = errors.New("empty image")
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &Source{mat: mat}, nil
}

// FromImage converts a decoded Go image into a source.
func FromImage(img image.Image) (*Source, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &Source{mat: mat}, nil
}

// Bounds returns the pixel dimensions of the source.
func (s *Source) Bounds() image.Point {
	return image.Pt(s.mat.Cols(), s.mat.Rows())
}

// Close releases the native image buffer.
func (s *Source) Close() error {
	return s.mat.Close()
}

// gray returns the grayscale working copy, upscaled so the smaller dimension
// reaches minWorkingDimension. The caller owns the returned mat.
func (s *Source) gray() gocv.Mat {
	gray := gocv.NewMat()
	if s.mat.Channels() > 1 {
		gocv.CvtColor(s.mat, &gray, gocv.ColorBGRToGray)
	} else {
		s.mat.CopyTo(&gray)
	}
	upscale(&gray)
	return gray
}

func upscale(m *gocv.Mat) {
	minDim := m.Cols()
	if m.Rows() < minDim {
		minDim = m.Rows()
	}
	if minDim == 0 || minDim >= minWorkingDimension {
		return
	}
	scale := float64(minWorkingDimension) / float64(minDim)
	resized := gocv.NewMat()
	gocv.Resize(*m, &resized, image.Point{}, scale, scale, gocv.InterpolationCubic)
	m.Close()
	*m = resized
}
