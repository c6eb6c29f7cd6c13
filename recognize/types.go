package recognize

import (
	"context"
	"errors"
	"unicode/utf8"
)

// ErrUnavailable indicates an engine could not be constructed or reached.
// Callers treat it as "exclude this engine", never as a fatal condition.
var ErrUnavailable = errors.New("recognition engine unavailable")

// NeutralConfidence is reported by engines that do not expose a native
// confidence measure.
const NeutralConfidence = 0.5

// ImageFormat identifies the content type of a recognition input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Region describes a rectangular area in pixel coordinates with the origin in
// the upper-left corner of the image.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Input encapsulates a single image variant submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// Variant names the preprocessing strategy that produced the image, so
	// results can be traced back to the variant that won.
	Variant string
	// PageIndex links the input back to the zero-based page index where the
	// image originated, for multi-page documents.
	PageIndex int
	// DPI carries the effective dots-per-inch for the image. Providers such as
	// Tesseract use this for scaling and layout heuristics; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g., "eng", "deu") that
	// providers can use to select trained data.
	Languages []string
	// Region restricts recognition to a subsection of the image. Nil means the
	// full image should be processed.
	Region *Region
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "psm" for Tesseract) without hard-coding them into the API surface.
	Metadata map[string]string
}

// TextWord represents a single recognized token.
type TextWord struct {
	Text       string
	Bounds     Region
	Confidence float64
}

// TextLine groups words that share a baseline.
type TextLine struct {
	Text       string
	Bounds     Region
	Words      []TextWord
	Confidence float64
}

// Result captures recognition output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// Engine names the engine that produced the result.
	Engine string
	// Variant mirrors the Input.Variant the engine ran against.
	Variant string
	// Text contains the linearized text extracted from the image.
	Text string
	// Lines carries the structured layout with positional metadata, when the
	// engine exposes it.
	Lines []TextLine
	// Confidence is the engine's word/region-level confidence averaged over
	// detected regions, in [0,1]. NeutralConfidence when the engine exposes
	// none.
	Confidence float64
	// Language indicates the dominant language detected, if known.
	Language string
}

// CharCount returns the number of runes in the recognized text. Per-engine
// best-variant selection maximizes this count.
func (r Result) CharCount() int { return utf8.RuneCountInString(r.Text) }

// Better reports whether r should be preferred over other when reducing
// multiple variant results to a single best result per engine. Longer text
// wins; ties break on higher confidence.
func (r Result) Better(other Result) bool {
	rc, oc := r.CharCount(), other.CharCount()
	if rc != oc {
		return rc > oc
	}
	return r.Confidence > other.Confidence
}

// Engine is the recognition provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// BatchEngine handles multiple images in a single call, enabling providers
// that amortize setup costs or remote round-trips.
type BatchEngine interface {
	Engine
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}
