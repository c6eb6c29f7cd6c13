package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func testSource(t *testing.T) *Source {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 240, 100))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString("Photosynthesis uses light")

	src, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestAllVariantsCatalog(t *testing.T) {
	src := testSource(t)
	variants := AllVariants(src, nil)
	if len(variants) < 10 {
		t.Fatalf("expected most strategies to succeed, got %d variants", len(variants))
	}
	seen := map[string]bool{}
	for _, v := range variants {
		if len(v.PNG) == 0 {
			t.Fatalf("variant %s has no image data", v.Name)
		}
		if seen[v.Name] {
			t.Fatalf("duplicate variant %s", v.Name)
		}
		seen[v.Name] = true
	}
	for _, want := range []string{"clahe", "otsu", "adaptive-fine", "inverted", "ruled-lines", "deskewed"} {
		if !seen[want] {
			t.Fatalf("missing expected variant %s, got %v", want, seen)
		}
	}
}

func TestVariantsForBackend(t *testing.T) {
	src := testSource(t)
	variants := VariantsFor(src, "tesseract", nil)
	if len(variants) != 2 {
		t.Fatalf("expected 2 tuned variants, got %d", len(variants))
	}
	if variants[0].Name != "adaptive-fine" || variants[1].Name != "otsu" {
		t.Fatalf("unexpected variant selection: %s, %s", variants[0].Name, variants[1].Name)
	}
	for _, v := range variants {
		if v.Backend != "tesseract" {
			t.Fatalf("variant not tagged with backend: %+v", v.Backend)
		}
	}
}

func TestVariantsForUnknownBackendUsesDefaults(t *testing.T) {
	src := testSource(t)
	variants := VariantsFor(src, "unheard-of", nil)
	if len(variants) != 2 {
		t.Fatalf("expected default pair, got %d variants", len(variants))
	}
	if variants[0].Name != "clahe" || variants[1].Name != "adaptive-fine" {
		t.Fatalf("unexpected defaults: %s, %s", variants[0].Name, variants[1].Name)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("testdata/does-not-exist.png"); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDeskewReturnsUsableSource(t *testing.T) {
	src := testSource(t)
	straight, err := Deskew(src)
	if err != nil {
		t.Fatalf("Deskew() error = %v", err)
	}
	defer straight.Close()
	if straight.Bounds() != src.Bounds() {
		t.Fatalf("deskew changed dimensions: %v vs %v", straight.Bounds(), src.Bounds())
	}
}
