package recognize

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// InputOption mutates a recognition input.
type InputOption func(*Input)

// WithLanguages sets language hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithPageIndex records the zero-based source page index on the input.
func WithPageIndex(page int) InputOption {
	return func(in *Input) { in.PageIndex = page }
}

// WithVariant records the preprocessing strategy name on the input.
func WithVariant(name string) InputOption {
	return func(in *Input) { in.Variant = name }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// InputFromImage converts a decoded image into a recognition input using PNG
// encoding. The caller-provided id is echoed back in the corresponding
// Result for correlation.
func InputFromImage(id string, img image.Image, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Input{}, fmt.Errorf("encode image %s: %w", id, err)
	}
	in := Input{
		ID:     id,
		Image:  buf.Bytes(),
		Format: ImageFormatPNG,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}

// InputFromPNG wraps already-encoded PNG bytes as a recognition input.
func InputFromPNG(id string, data []byte, opts ...InputOption) Input {
	in := Input{
		ID:     id,
		Image:  data,
		Format: ImageFormatPNG,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}
