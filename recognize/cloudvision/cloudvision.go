// Package cloudvision adapts a Vision-style document text detection HTTP API
// to the recognize.Engine contract. The API receives base64 image content and
// returns a full-text annotation with per-block confidences.
package cloudvision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nehalmr/evalkit/recognize"
)

const (
	defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"
	defaultTimeout  = 60 * time.Second
)

// Engine calls a remote vision API for document text detection.
type Engine struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// Option configures the engine.
type Option func(*Engine)

// WithEndpoint overrides the annotate endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(e *Engine) { e.endpoint = endpoint }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) { e.client = client }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.client.Timeout = d }
}

// New constructs a vision-backed engine. The API key must be non-empty.
func New(apiKey string, opts ...Option) (*Engine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: vision api key not configured", recognize.ErrUnavailable)
	}
	e := &Engine{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Factory returns a recognize.Factory bound to apiKey.
func Factory(apiKey string, opts ...Option) recognize.Factory {
	return func() (recognize.Engine, error) {
		return New(apiKey, opts...)
	}
}

func (e *Engine) Name() string { return "cloudvision" }

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text  string `json:"text"`
			Pages []struct {
				Blocks []struct {
					Confidence float64 `json:"confidence"`
				} `json:"blocks"`
			} `json:"pages"`
		} `json:"fullTextAnnotation"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// Recognize submits the image for document text detection.
func (e *Engine) Recognize(ctx context.Context, in recognize.Input) (recognize.Result, error) {
	req := annotateRequest{Requests: []annotateEntry{{
		Image:    annotateImage{Content: base64.StdEncoding.EncodeToString(in.Image)},
		Features: []annotateFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
	}}}

	body, err := json.Marshal(req)
	if err != nil {
		return recognize.Result{}, fmt.Errorf("marshal annotate request: %w", err)
	}

	endpoint := e.endpoint
	if e.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(e.apiKey)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return recognize.Result{}, fmt.Errorf("build annotate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return recognize.Result{}, fmt.Errorf("%w: %v", recognize.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return recognize.Result{}, fmt.Errorf("%w: annotate returned %s", recognize.ErrUnavailable, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return recognize.Result{}, fmt.Errorf("read annotate response: %w", err)
	}
	var parsed annotateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return recognize.Result{}, fmt.Errorf("decode annotate response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return recognize.Result{}, fmt.Errorf("%w: empty annotate response", recognize.ErrUnavailable)
	}
	r := parsed.Responses[0]
	if r.Error.Message != "" {
		return recognize.Result{}, fmt.Errorf("%w: %s", recognize.ErrUnavailable, r.Error.Message)
	}

	text := strings.TrimSpace(r.FullTextAnnotation.Text)
	conf := blockConfidence(parsed)
	return recognize.Result{
		InputID:    in.ID,
		Engine:     e.Name(),
		Variant:    in.Variant,
		Text:       text,
		Confidence: conf,
		Language:   firstLanguage(in.Languages),
	}, nil
}

func blockConfidence(parsed annotateResponse) float64 {
	var sum float64
	var n int
	for _, resp := range parsed.Responses {
		for _, page := range resp.FullTextAnnotation.Pages {
			for _, block := range page.Blocks {
				sum += block.Confidence
				n++
			}
		}
	}
	if n == 0 {
		return recognize.NeutralConfidence
	}
	return sum / float64(n)
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
