package recognize

import (
	"context"
	"errors"
	"testing"
)

type stubEngine struct {
	name string
	text string
}

func (s stubEngine) Name() string { return s.name }

func (s stubEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	return Result{InputID: in.ID, Engine: s.name, Text: s.text, Confidence: NeutralConfidence}, nil
}

func TestRegistryExcludesFailedFactories(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("alpha", func() (Engine, error) {
		return stubEngine{name: "alpha"}, nil
	})
	reg.Register("broken", func() (Engine, error) {
		return nil, errors.New("native library missing")
	})
	reg.Register("beta", func() (Engine, error) {
		return stubEngine{name: "beta"}, nil
	})

	engines := reg.Available()
	if len(engines) != 2 {
		t.Fatalf("expected 2 available engines, got %d", len(engines))
	}
	if engines[0].Name() != "alpha" || engines[1].Name() != "beta" {
		t.Fatalf("unexpected engine order: %s, %s", engines[0].Name(), engines[1].Name())
	}
}

func TestRegistryProbesOnce(t *testing.T) {
	probes := 0
	reg := NewRegistry(nil)
	reg.Register("counted", func() (Engine, error) {
		probes++
		return stubEngine{name: "counted"}, nil
	})
	reg.Available()
	reg.Available()
	if probes != 1 {
		t.Fatalf("expected a single probe, got %d", probes)
	}
}

func TestDefaultEngineRoundTrip(t *testing.T) {
	prev := DefaultEngine()
	defer SetDefaultEngine(prev)

	SetDefaultEngine(stubEngine{name: "fallback", text: "hello"})
	res, err := DefaultEngine().Recognize(context.Background(), Input{ID: "x"})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if res.Engine != "fallback" || res.Text != "hello" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
