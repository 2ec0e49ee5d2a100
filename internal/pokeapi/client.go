// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"golang.org/x/time/rate"

	"github.com/staranto/dexctl/internal/cache"
	"github.com/staranto/dexctl/internal/upstream"
)

const (
	// DefaultBaseURL is the public PokeAPI v2 endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the steady-state requests per second.
	DefaultRateLimit = 20

	// DefaultBurst is the limiter bucket size.
	DefaultBurst = 20

	// UserAgent is sent with every request.
	UserAgent = "dexctl (https://github.com/staranto/dexctl)"

	// ListLimit is the page size used to fetch the whole listing in one go.
	ListLimit = 100000

	// GalleryLimit is the listing size used for the gallery.
	GalleryLimit = 10000
)

// Observer is told about every request that actually goes upstream.
type Observer interface {
	ObserveFetch(url string, code int, d time.Duration)
}

// Config holds client configuration. Zero values take the defaults.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	RateLimit  float64
	Burst      int
	CacheTTL   time.Duration
	Coalesce   bool
	Metrics    cache.Metrics
	Observer   Observer
	Clock      func() time.Time
	HTTPClient *http.Client
}

// Client reads catalog resources. It is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   Observer

	// raw keeps response bodies, docs keeps decoded resources. Both are keyed
	// by request URL.
	raw  *cache.Cache[[]byte]
	docs *cache.Cache[any]
}

// NewClient creates a client from config, which may be nil.
func NewClient(config *Config) *Client {
	if config == nil {
		config = &Config{}
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = UserAgent
	}
	if config.RateLimit <= 0 {
		config.RateLimit = DefaultRateLimit
	}
	if config.Burst <= 0 {
		config.Burst = DefaultBurst
	}
	if config.HTTPClient == nil {
		config.HTTPClient = upstream.NewClient(config.Timeout)
	}

	opts := []cache.Option{
		cache.WithTTL(config.CacheTTL),
		cache.WithMetrics(config.Metrics),
		cache.WithClock(config.Clock),
	}
	if config.Coalesce {
		opts = append(opts, cache.WithCoalescing())
	}

	log.Debugf("pokeapi client: base=%s timeout=%s rate=%.1f/s ttl=%s",
		config.BaseURL, config.Timeout, config.RateLimit, config.CacheTTL)

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		userAgent:  config.UserAgent,
		httpClient: config.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst),
		observer:   config.Observer,
		raw:        cache.New[[]byte](opts...),
		docs:       cache.New[any](opts...),
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func normalize(idOrName string) string {
	return strings.ToLower(strings.TrimSpace(idOrName))
}

// ListURL is the listing URL for the given page size and offset.
func (c *Client) ListURL(limit, offset int) string {
	if offset > 0 {
		return fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)
	}
	return fmt.Sprintf("%s/pokemon?limit=%d", c.baseURL, limit)
}

// PokemonURL is the /pokemon URL for an id or name.
func (c *Client) PokemonURL(idOrName string) string {
	return c.baseURL + "/pokemon/" + normalize(idOrName)
}

// SpeciesURL is the /pokemon-species URL for an id or name.
func (c *Client) SpeciesURL(idOrName string) string {
	return c.baseURL + "/pokemon-species/" + normalize(idOrName)
}

// Raw returns the response body for url, from cache when fresh.
func (c *Client) Raw(ctx context.Context, url string) ([]byte, error) {
	return c.raw.GetOrFetch(ctx, url, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, url)
	})
}

// fetchJSON decodes the resource at url into a *T, from cache when fresh.
func fetchJSON[T any](ctx context.Context, c *Client, url string) (*T, error) {
	v, err := c.docs.GetOrFetch(ctx, url, func(ctx context.Context) (any, error) {
		body, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, url, err)
		}
		return &doc, nil
	})
	if err != nil {
		return nil, err
	}

	doc, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("%w: cached %s has type %T", ErrInvalidResponse, url, v)
	}
	return doc, nil
}

// ListPokemon fetches one page of the listing.
func (c *Client) ListPokemon(ctx context.Context, limit, offset int) (*ListPage, error) {
	return fetchJSON[ListPage](ctx, c, c.ListURL(limit, offset))
}

// Pokemon fetches a pokemon by id or name.
func (c *Client) Pokemon(ctx context.Context, idOrName string) (*Pokemon, error) {
	return fetchJSON[Pokemon](ctx, c, c.PokemonURL(idOrName))
}

// PokemonAt fetches a pokemon by resource URL, as found in the listing.
func (c *Client) PokemonAt(ctx context.Context, url string) (*Pokemon, error) {
	return fetchJSON[Pokemon](ctx, c, url)
}

// Species fetches a species by id or name.
func (c *Client) Species(ctx context.Context, idOrName string) (*Species, error) {
	return fetchJSON[Species](ctx, c, c.SpeciesURL(idOrName))
}

// SpeciesAt fetches a species by resource URL.
func (c *Client) SpeciesAt(ctx context.Context, url string) (*Species, error) {
	return fetchJSON[Species](ctx, c, url)
}

// EvolutionChain fetches an evolution chain by resource URL.
func (c *Client) EvolutionChain(ctx context.Context, url string) (*EvolutionChain, error) {
	return fetchJSON[EvolutionChain](ctx, c, url)
}

// InvalidateCache drops url from the cache. An empty url clears everything.
func (c *Client) InvalidateCache(url string) {
	if url == "" {
		c.ClearCache()
		return
	}
	c.raw.Invalidate(url)
	c.docs.Invalidate(url)
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.raw.InvalidateAll()
	c.docs.InvalidateAll()
}

// CachedAt reports when url was last stored, if it is cached at all.
func (c *Client) CachedAt(url string) (time.Time, bool) {
	if e, ok := c.docs.Peek(url); ok {
		return e.StoredAt, true
	}
	if e, ok := c.raw.Peek(url); ok {
		return e.StoredAt, true
	}
	return time.Time{}, false
}

// get performs a rate limited GET and maps the response status to errors.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	log.Debugf("GET %s", url)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(url, 0, start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.observe(url, resp.StatusCode, start)

	if err := checkResponse(resp, url); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, url, err)
	}
	return body, nil
}

func (c *Client) observe(url string, code int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveFetch(url, code, time.Since(start))
	}
}

func checkResponse(resp *http.Response, url string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, url)
	default:
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}
}
