package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os/exec"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/nehalmr/evalkit/recognize"
)

// Engine implements recognize.Engine and recognize.BatchEngine using the
// gosseract client as the local recognition provider.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed recognition engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

// Factory probes for an installed tesseract and constructs the engine. It
// satisfies recognize.Factory so the engine can be registered for init-once
// discovery.
func Factory() (recognize.Engine, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return nil, fmt.Errorf("%w: tesseract not in PATH", recognize.ErrUnavailable)
	}
	return New(), nil
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs recognition on a single image input.
func (e *Engine) Recognize(ctx context.Context, in recognize.Input) (recognize.Result, error) {
	c := e.clientFactory()
	defer c.Close()
	return e.recognizeWithClient(ctx, c, in)
}

// RecognizeBatch processes multiple inputs sequentially. A fresh client is
// used per input so variant-specific variables never leak between calls.
func (e *Engine) RecognizeBatch(ctx context.Context, inputs []recognize.Input) ([]recognize.Result, error) {
	results := make([]recognize.Result, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		c := e.clientFactory()
		res, err := e.recognizeWithClient(ctx, c, in)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		c.Close()
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) recognizeWithClient(ctx context.Context, c *gosseract.Client, in recognize.Input) (recognize.Result, error) {
	imgData, err := cropImage(in.Image, in.Region)
	if err != nil {
		return recognize.Result{}, err
	}
	if err := c.SetImageFromBytes(imgData); err != nil {
		return recognize.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return recognize.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return recognize.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return recognize.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return recognize.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	plain := strings.TrimSpace(text)

	words, avgConf := extractWords(c)
	if avgConf == 0 {
		avgConf = recognize.NeutralConfidence
	}
	bounds := mergeBounds(words)
	lines := []recognize.TextLine{{Text: plain, Bounds: bounds, Words: words, Confidence: avgConf}}

	return recognize.Result{
		InputID:    in.ID,
		Engine:     e.Name(),
		Variant:    in.Variant,
		Text:       plain,
		Lines:      lines,
		Confidence: avgConf,
		Language:   firstLanguage(in.Languages),
	}, nil
}

func extractWords(c *gosseract.Client) ([]recognize.TextWord, float64) {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil, 0
	}
	words := make([]recognize.TextWord, 0, len(boxes))
	var sum float64
	for _, b := range boxes {
		conf := b.Confidence / 100.0
		sum += conf
		words = append(words, recognize.TextWord{
			Text:       b.Word,
			Bounds:     recognize.Region{X: float64(b.Box.Min.X), Y: float64(b.Box.Min.Y), Width: float64(b.Box.Dx()), Height: float64(b.Box.Dy())},
			Confidence: conf,
		})
	}
	if len(words) == 0 {
		return words, 0
	}
	return words, sum / float64(len(words))
}

func mergeBounds(words []recognize.TextWord) recognize.Region {
	if len(words) == 0 {
		return recognize.Region{}
	}
	minX, minY := math.MaxFloat64, math.MaxFloat64
	var maxX, maxY float64
	for _, w := range words {
		minX = math.Min(minX, w.Bounds.X)
		minY = math.Min(minY, w.Bounds.Y)
		maxX = math.Max(maxX, w.Bounds.X+w.Bounds.Width)
		maxY = math.Max(maxY, w.Bounds.Y+w.Bounds.Height)
	}
	return recognize.Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}

func cropImage(data []byte, region *recognize.Region) ([]byte, error) {
	if region == nil || region.IsEmpty() {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode for region: %w", err)
	}
	rect := image.Rect(
		int(math.Round(region.X)),
		int(math.Round(region.Y)),
		int(math.Round(region.X+region.Width)),
		int(math.Round(region.Y+region.Height)),
	).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("region outside image bounds")
	}
	subImg, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("image does not support sub-image")
	}
	cropped := subImg.SubImage(rect)
	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("encode cropped image: %w", err)
	}
	return buf.Bytes(), nil
}
