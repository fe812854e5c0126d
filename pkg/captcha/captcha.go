// Package captcha manages challenge providers for protected submissions.
//
// Loading a provider is expensive (a script fetch on web surfaces), so the
// Loader memoizes one Client per site key and collapses concurrent loads of
// the same key into a single fetch.
package captcha

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TokenField is the submission field name expected by the backend.
const TokenField = "g-recaptcha-response"

// ActionSubmit tags tokens minted for a form submission.
const ActionSubmit = "submit"

// Client mints challenge tokens for the site key it was loaded with.
type Client interface {
	Execute(ctx context.Context, action string) (string, error)
}

// ClientFunc adapts a function into a Client.
type ClientFunc func(ctx context.Context, action string) (string, error)

// Execute delegates to the underlying function.
func (fn ClientFunc) Execute(ctx context.Context, action string) (string, error) {
	return fn(ctx, action)
}

// Fetcher loads the provider for a site key. Implementations wrap whatever
// the host surface offers: a script injector in a browser bridge, an HTTP
// siteverify shim in a dev server, or a stub in tests.
type Fetcher func(ctx context.Context, siteKey string) (Client, error)

// Loader memoizes one Client per site key.
type Loader struct {
	fetch Fetcher

	group   singleflight.Group
	mu      sync.RWMutex
	clients map[string]Client
}

// NewLoader constructs a Loader around the given fetcher.
func NewLoader(fetch Fetcher) *Loader {
	return &Loader{
		fetch:   fetch,
		clients: make(map[string]Client),
	}
}

// Client returns the memoized provider for siteKey, fetching it on first
// use. Concurrent calls for the same key share one fetch; a failed fetch is
// not cached, so the next call retries.
func (l *Loader) Client(ctx context.Context, siteKey string) (Client, error) {
	if siteKey == "" {
		return nil, fmt.Errorf("captcha: site key is required")
	}
	if l.fetch == nil {
		return nil, fmt.Errorf("captcha: no fetcher configured")
	}

	l.mu.RLock()
	client, ok := l.clients[siteKey]
	l.mu.RUnlock()
	if ok {
		return client, nil
	}

	result, err, _ := l.group.Do(siteKey, func() (any, error) {
		client, err := l.fetch(ctx, siteKey)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.clients[siteKey] = client
		l.mu.Unlock()
		return client, nil
	})
	if err != nil {
		return nil, fmt.Errorf("captcha: load provider for %q: %w", siteKey, err)
	}
	return result.(Client), nil
}

// Token loads the provider for siteKey and mints a token for the action.
func (l *Loader) Token(ctx context.Context, siteKey, action string) (string, error) {
	client, err := l.Client(ctx, siteKey)
	if err != nil {
		return "", err
	}
	token, err := client.Execute(ctx, action)
	if err != nil {
		return "", fmt.Errorf("captcha: execute %q: %w", action, err)
	}
	return token, nil
}
