// Package embedhttp calls a remote embedding service over JSON. The service
// contract is a single POST accepting {"text": ...} and returning
// {"embedding": [...]}.
package embedhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrUnavailable indicates the embedding service could not be reached or
// returned an unusable response.
var ErrUnavailable = errors.New("embedding service unavailable")

// Backend calls a remote embedding endpoint.
type Backend struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// Option configures the backend.
type Option func(*Backend)

// WithAPIKey sends a bearer token with each request.
func WithAPIKey(key string) Option {
	return func(b *Backend) { b.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Backend) { b.client = client }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Backend) { b.client.Timeout = d }
}

// New constructs the backend for endpoint.
func New(endpoint string, opts ...Option) (*Backend, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint not configured", ErrUnavailable)
	}
	b := &Backend{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Backend) Name() string { return "embedhttp" }

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// Embed posts text and returns the service's vector.
func (b *Backend) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: embed returned %s", ErrUnavailable, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embed response: %w", err)
	}
	var parsed embedResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, parsed.Error)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ErrUnavailable)
	}
	return parsed.Embedding, nil
}
