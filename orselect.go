// Package orselect is a client for the OpenRouter.ai model catalog. It
// fetches the catalog once, caches the snapshot in-process, and selects
// the model(s) best matching a set of requirements: cost ceiling, context
// floor, required parameters, modalities, and moderation preference.
package orselect

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/orselect/orselect/internal/httpclient"
)

// Client composes the fetcher, the snapshot cache, and the selector.
type Client struct {
	fetcher *Fetcher
	cache   *snapshotCache
}

type clientConfig struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	transport  *httpclient.Client
	log        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// WithAPIKey sets the bearer credential. When unset, the first fetch
// fails with ErrAuthentication.
func WithAPIKey(key string) ClientOption {
	return func(c *clientConfig) { c.apiKey = key }
}

// WithBaseURL overrides the API root (default DefaultBaseURL).
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithHTTPClient sets the base *http.Client used for catalog requests.
// The bearer credential is layered on top of it.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *clientConfig) { c.httpClient = h }
}

// WithTransport replaces the whole HTTP collaborator, including any rate
// limiting and response caching it carries. Overrides WithHTTPClient.
func WithTransport(t *httpclient.Client) ClientOption {
	return func(c *clientConfig) { c.transport = t }
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *clientConfig) { c.log = log }
}

// New creates a Client. A missing API key is not an error here; it is
// surfaced as ErrAuthentication on first use, so requirement-only work
// (validation, selection over injected snapshots) needs no credential.
func New(opts ...ClientOption) *Client {
	cfg := clientConfig{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}

	transport := cfg.transport
	if transport == nil {
		transport = httpclient.New(httpclient.WithHTTPClient(BearerHTTPClient(cfg.apiKey, cfg.httpClient)))
	}

	c := &Client{
		fetcher: NewFetcher(cfg.baseURL, cfg.apiKey != "", transport, cfg.log),
	}
	c.cache = newSnapshotCache(c.fetcher.Fetch)
	return c
}

// BearerHTTPClient layers a bearer-token transport over base using
// oauth2's static token source. A nil base gets a 30s-timeout default;
// with no key the base client is returned unchanged.
func BearerHTTPClient(apiKey string, base *http.Client) *http.Client {
	if base == nil {
		base = &http.Client{Timeout: 30 * time.Second}
	}
	if apiKey == "" {
		return base
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	authed := oauth2.NewClient(ctx, ts)
	authed.Timeout = base.Timeout
	return authed
}

// FetchModels returns the cached catalog, fetching it from upstream when
// the cache is empty or forceRefresh is set. A failed refresh leaves any
// prior snapshot in place.
func (c *Client) FetchModels(ctx context.Context, forceRefresh bool) ([]Model, error) {
	return c.cache.records(ctx, forceRefresh)
}

// SelectModel returns the best catalog model for the requirements. The
// second return value is false when nothing qualifies.
func (c *Client) SelectModel(ctx context.Context, req *Requirements) (Model, bool, error) {
	models, err := c.FetchModels(ctx, false)
	if err != nil {
		return Model{}, false, err
	}
	return SelectOne(models, req)
}

// SelectModels returns up to limit qualifying models in ranked order.
// A limit <= 0 returns every qualifier.
func (c *Client) SelectModels(ctx context.Context, req *Requirements, limit int) ([]Model, error) {
	models, err := c.FetchModels(ctx, false)
	if err != nil {
		return nil, err
	}
	return Select(models, req, limit)
}

// ClearCache discards the cached snapshot; the next FetchModels hits the
// upstream again.
func (c *Client) ClearCache() {
	c.cache.clear()
}

// Snapshot returns the currently cached snapshot, or nil when the cache
// is empty. Intended for display surfaces that want the capture time.
func (c *Client) Snapshot() *Snapshot {
	return c.cache.snapshot()
}
