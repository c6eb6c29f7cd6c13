package embedhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestEmbedRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("missing bearer token, got %q", got)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "the cell wall" {
			t.Errorf("unexpected text: %q", req.Text)
		}
		w.Write([]byte(`{"embedding":[0.1,0.2,0.3]}`))
	}))
	defer srv.Close()

	backend, err := New(srv.URL, WithAPIKey("secret"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	vec, err := backend.Embed(context.Background(), "the cell wall")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if !reflect.DeepEqual(vec, []float32{0.1, 0.2, 0.3}) {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestEmbedNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	backend, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := backend.Embed(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestEmbedEmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[]}`))
	}))
	defer srv.Close()

	backend, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := backend.Embed(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for empty embedding, got %v", err)
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
