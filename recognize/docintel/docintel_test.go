package docintel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nehalmr/evalkit/recognize"
)

func TestRecognizeFlattensMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-subscription-key"); got != "k1" {
			t.Errorf("missing subscription key header, got %q", got)
		}
		w.Write([]byte(`{"markdown":"# Answer\n\nThe **cell** is the basic unit.\n\n- organelles\n- membrane\n"}`))
	}))
	defer srv.Close()

	engine, err := New(srv.URL, "k1")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := engine.Recognize(context.Background(), recognize.Input{ID: "p0", Image: []byte{1}, Format: recognize.ImageFormatPNG})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	want := "Answer\nThe cell is the basic unit.\norganelles\nmembrane"
	if res.Text != want {
		t.Fatalf("unexpected flattened text:\n got %q\nwant %q", res.Text, want)
	}
	if res.Confidence != recognize.NeutralConfidence {
		t.Fatalf("expected neutral confidence, got %f", res.Confidence)
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	if _, err := New("", "key"); !errors.Is(err, recognize.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for missing endpoint, got %v", err)
	}
	if _, err := New("http://example.com", ""); !errors.Is(err, recognize.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for missing key, got %v", err)
	}
}

func TestRecognizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"unsupported mime type"}`))
	}))
	defer srv.Close()

	engine, err := New(srv.URL, "k1")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := engine.Recognize(context.Background(), recognize.Input{Image: []byte{1}}); !errors.Is(err, recognize.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFlattenMarkdownLineBreaks(t *testing.T) {
	got := FlattenMarkdown([]byte("para one\npara one line two\n\npara two"))
	want := "para one\npara one line two\npara two"
	if got != want {
		t.Fatalf("unexpected flatten:\n got %q\nwant %q", got, want)
	}
}
