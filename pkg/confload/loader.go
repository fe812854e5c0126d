package confload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/webtrix/go-leadform/pkg/formdef"
)

// Loader resolves form definitions from the hosted config endpoint or from
// local sources.
type Loader struct {
	baseURL   string
	companyID string
	apiKey    string
	http      *http.Client
	fs        fs.FS
}

// Option mutates a Loader during construction.
type Option func(*Loader)

// WithHTTPClient injects a custom HTTP client (timeouts, proxies).
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.http = client
		}
	}
}

// WithTimeout caps remote fetches. Ignored when a custom client already
// carries a timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 && l.http.Timeout == 0 {
			clone := *l.http
			clone.Timeout = timeout
			l.http = &clone
		}
	}
}

// WithCompanyID attaches the tenant identifier to every fetch.
func WithCompanyID(id string) Option {
	return func(l *Loader) { l.companyID = id }
}

// WithAPIKey attaches the account key to every fetch.
func WithAPIKey(key string) Option {
	return func(l *Loader) { l.apiKey = key }
}

// WithFileSystem enables FromFS lookups against the given filesystem.
func WithFileSystem(files fs.FS) Option {
	return func(l *Loader) { l.fs = files }
}

// New constructs a Loader against the given API base URL, for example
// "https://forms.example.com/api".
func New(baseURL string, opts ...Option) *Loader {
	l := &Loader{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch retrieves the definition for formID from
// {base}/formconfig/form/{id}, unwrapping the data envelope.
func (l *Loader) Fetch(ctx context.Context, formID string) (*formdef.FormDefinition, error) {
	if formID == "" {
		return nil, fmt.Errorf("confload: form id is required")
	}

	endpoint := l.baseURL + "/formconfig/form/" + url.PathEscape(formID)
	if query := l.query(); query != "" {
		endpoint += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("confload: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confload: fetch %s: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: endpoint, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("confload: read response: %w", err)
	}
	return decodeEnvelope(body)
}

func (l *Loader) query() string {
	values := url.Values{}
	if l.companyID != "" {
		values.Set("company_id", l.companyID)
	}
	if l.apiKey != "" {
		values.Set("key", l.apiKey)
	}
	return values.Encode()
}

// FromFile loads a bare definition from disk. YAML is detected by extension.
func (l *Loader) FromFile(ctx context.Context, filename string) (*formdef.FormDefinition, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("confload: read %s: %w", filename, err)
	}
	return decodeBare(data, filename)
}

// FromFS loads a bare definition from the configured filesystem.
func (l *Loader) FromFS(ctx context.Context, name string) (*formdef.FormDefinition, error) {
	if l.fs == nil {
		return nil, fmt.Errorf("confload: filesystem is not configured")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("confload: read %s: %w", name, err)
	}
	return decodeBare(data, name)
}

func decodeEnvelope(body []byte) (*formdef.FormDefinition, error) {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ShapeError{Reason: err.Error()}
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || string(data) == "null" {
		return nil, &ShapeError{Reason: "missing data envelope"}
	}
	if data[0] != '{' {
		return nil, &ShapeError{Reason: "data is not an object"}
	}

	var def formdef.FormDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, &ShapeError{Reason: err.Error()}
	}
	return &def, nil
}

func decodeBare(data []byte, name string) (*formdef.FormDefinition, error) {
	var def formdef.FormDefinition
	switch path.Ext(name) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, &ShapeError{Reason: err.Error()}
		}
	default:
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, &ShapeError{Reason: err.Error()}
		}
	}
	return &def, nil
}
