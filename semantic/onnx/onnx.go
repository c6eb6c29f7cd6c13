// Package onnx embeds text locally with a sentence-transformer ONNX model.
// Tokenization uses a HuggingFace tokenizer.json; the model's token
// embeddings are mean-pooled under the attention mask and L2-normalized.
package onnx

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

const defaultMaxSeqLen = 256

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime initializes the ONNX runtime environment exactly once per
// process.
func initRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// Config locates the model artifacts.
type Config struct {
	// ModelPath is the .onnx transformer model file.
	ModelPath string
	// TokenizerPath is the HuggingFace tokenizer.json for the model.
	TokenizerPath string
	// LibraryPath optionally points at the onnxruntime shared library.
	LibraryPath string
	// MaxSeqLen truncates tokenized input; zero uses the default.
	MaxSeqLen int
}

// Backend is a local embedding backend.
type Backend struct {
	session   *ort.DynamicAdvancedSession
	tk        *tokenizer.Tokenizer
	maxSeqLen int

	// ORT sessions are not documented as safe for concurrent Run.
	mu sync.Mutex
}

// New loads the tokenizer and model. Errors here mean the backend is simply
// not part of the available set.
func New(cfg Config) (*Backend, error) {
	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnx runtime: %w", err)
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	maxSeqLen := cfg.MaxSeqLen
	if maxSeqLen <= 0 {
		maxSeqLen = defaultMaxSeqLen
	}
	return &Backend{session: session, tk: tk, maxSeqLen: maxSeqLen}, nil
}

func (b *Backend) Name() string { return "onnx" }

// Close releases the model session.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session != nil {
		err := b.session.Destroy()
		b.session = nil
		return err
	}
	return nil
}

// Embed tokenizes text, runs the transformer and pools the token embeddings
// into one vector.
func (b *Backend) Embed(ctx context.Context, text string) ([]float32, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	enc, err := b.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ids := enc.Ids
	mask := enc.AttentionMask
	if len(ids) > b.maxSeqLen {
		ids = ids[:b.maxSeqLen]
		mask = mask[:b.maxSeqLen]
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("tokenize: empty encoding")
	}

	ids64 := make([]int64, len(ids))
	mask64 := make([]int64, len(mask))
	for i := range ids {
		ids64[i] = int64(ids[i])
		mask64[i] = int64(mask[i])
	}

	shape := ort.NewShape(1, int64(len(ids64)))
	idTensor, err := ort.NewTensor(shape, ids64)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	defer idTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask64)
	if err != nil {
		return nil, fmt.Errorf("mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}
	b.mu.Lock()
	err = b.session.Run([]ort.Value{idTensor, maskTensor}, outputs)
	b.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	defer hidden.Destroy()

	dims := hidden.GetShape()
	if len(dims) != 3 || dims[0] != 1 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	return meanPool(hidden.GetData(), int(dims[1]), int(dims[2]), mask64), nil
}

// meanPool averages token vectors under the attention mask and
// L2-normalizes the result.
func meanPool(data []float32, seqLen, hiddenSize int, mask []int64) []float32 {
	pooled := make([]float32, hiddenSize)
	var count float64
	for t := 0; t < seqLen; t++ {
		if t < len(mask) && mask[t] == 0 {
			continue
		}
		count++
		row := data[t*hiddenSize : (t+1)*hiddenSize]
		for i, v := range row {
			pooled[i] += v
		}
	}
	if count == 0 {
		return pooled
	}
	var norm float64
	for i := range pooled {
		pooled[i] /= float32(count)
		norm += float64(pooled[i]) * float64(pooled[i])
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range pooled {
			pooled[i] *= inv
		}
	}
	return pooled
}
