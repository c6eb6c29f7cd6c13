// Package docintel adapts a document-intelligence HTTP API to the
// recognize.Engine contract. The API returns structured markdown, which is
// flattened to plain text before entering the fusion pipeline.
package docintel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nehalmr/evalkit/recognize"
)

const defaultTimeout = 60 * time.Second

// Engine calls a remote document-intelligence API.
type Engine struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// Option configures the engine.
type Option func(*Engine)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) { e.client = client }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.client.Timeout = d }
}

// New constructs a document-intelligence engine. Endpoint and key must both
// be configured.
func New(endpoint, apiKey string, opts ...Option) (*Engine, error) {
	if endpoint == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: document intelligence endpoint or key not configured", recognize.ErrUnavailable)
	}
	e := &Engine{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Factory returns a recognize.Factory bound to the endpoint and key.
func Factory(endpoint, apiKey string, opts ...Option) recognize.Factory {
	return func() (recognize.Engine, error) {
		return New(endpoint, apiKey, opts...)
	}
}

func (e *Engine) Name() string { return "docintel" }

type parseRequest struct {
	Content   string   `json:"content"`
	MimeType  string   `json:"mime_type"`
	Languages []string `json:"languages,omitempty"`
}

type parseResponse struct {
	Markdown string `json:"markdown"`
	Error    string `json:"error,omitempty"`
}

// Recognize submits the image and flattens the returned markdown.
func (e *Engine) Recognize(ctx context.Context, in recognize.Input) (recognize.Result, error) {
	body, err := json.Marshal(parseRequest{
		Content:   base64.StdEncoding.EncodeToString(in.Image),
		MimeType:  string(in.Format),
		Languages: in.Languages,
	})
	if err != nil {
		return recognize.Result{}, fmt.Errorf("marshal parse request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return recognize.Result{}, fmt.Errorf("build parse request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-subscription-key", e.apiKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return recognize.Result{}, fmt.Errorf("%w: %v", recognize.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return recognize.Result{}, fmt.Errorf("%w: parse returned %s", recognize.ErrUnavailable, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return recognize.Result{}, fmt.Errorf("read parse response: %w", err)
	}
	var parsed parseResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return recognize.Result{}, fmt.Errorf("decode parse response: %w", err)
	}
	if parsed.Error != "" {
		return recognize.Result{}, fmt.Errorf("%w: %s", recognize.ErrUnavailable, parsed.Error)
	}

	text := strings.TrimSpace(FlattenMarkdown([]byte(parsed.Markdown)))
	return recognize.Result{
		InputID:    in.ID,
		Engine:     e.Name(),
		Variant:    in.Variant,
		Text:       text,
		Confidence: recognize.NeutralConfidence,
	}, nil
}
