package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/webtrix/go-leadform/pkg/tree"
)

// Poster delivers a serialized submission to the backend.
type Poster interface {
	Post(ctx context.Context, fields []tree.Pair) (*Response, error)
}

// PosterFunc adapts a function into a Poster.
type PosterFunc func(ctx context.Context, fields []tree.Pair) (*Response, error)

// Post delegates to the underlying function.
func (fn PosterFunc) Post(ctx context.Context, fields []tree.Pair) (*Response, error) {
	return fn(ctx, fields)
}

// HTTPPoster posts multipart form data to {base}/form/submit.
type HTTPPoster struct {
	endpoint string
	client   *http.Client
}

// PosterOption mutates an HTTPPoster during construction.
type PosterOption func(*HTTPPoster)

// WithPosterClient injects a custom HTTP client.
func WithPosterClient(client *http.Client) PosterOption {
	return func(p *HTTPPoster) {
		if client != nil {
			p.client = client
		}
	}
}

// NewHTTPPoster builds a poster against the given API base URL.
func NewHTTPPoster(baseURL string, opts ...PosterOption) *HTTPPoster {
	p := &HTTPPoster{
		endpoint: strings.TrimRight(baseURL, "/") + "/form/submit",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Post serializes the pairs into a multipart body and decodes the backend
// verdict. Non-2xx statuses are transport failures, not verdicts.
func (p *HTTPPoster) Post(ctx context.Context, fields []tree.Pair) (*Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, pair := range fields {
		if err := writer.WriteField(pair.Name, pair.Value); err != nil {
			return nil, fmt.Errorf("submit: encode field %q: %w", pair.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("submit: finalize body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit: post %s: %w", p.endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("submit: post %s: unexpected status %s", p.endpoint, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("submit: read response: %w", err)
	}

	var verdict Response
	if err := json.Unmarshal(data, &verdict); err != nil {
		return nil, fmt.Errorf("submit: decode response: %w", err)
	}
	return &verdict, nil
}
