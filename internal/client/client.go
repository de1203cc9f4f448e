// Package client talks to the EzSplit HTTP API. It owns the transport
// (cookie-carried session, timeout, logging, the global 401 side effect) and
// exposes one typed service per backend resource.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/ezsplit/ezsplit-go/internal/config"
	"github.com/ezsplit/ezsplit-go/internal/querycache"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is the EzSplit API client. Construct it with New; the zero value
// is not usable.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
	cache   *querycache.Cache[any]

	// unauthorizedHook runs on every 401 response, independent of the
	// caller's own error handling. The session gate registers itself here.
	unauthorizedHook func()

	Auth        *AuthService
	Users       *UserService
	Groups      *GroupService
	Expenses    *ExpenseService
	Categories  *CategoryService
	Invitations *InvitationService
}

// Option configures a Client.
type Option func(*Client)

// WithUnauthorizedHook sets the function invoked on authorization failures.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.unauthorizedHook = hook
	}
}

// WithLogger replaces the default global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client. The replacement
// should carry a cookie jar, otherwise the session cookie is lost.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// New builds a client for the API at cfg.APIBaseURL.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimSuffix(cfg.APIBaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", cfg.APIBaseURL, err)
	}

	// The backend carries credentials in a session cookie.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: cfg.RequestTimeout,
		},
		log:   log.Logger,
		cache: querycache.New[any](cfg.CacheSize, cfg.CacheTTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{c: c}
	c.Users = &UserService{c: c}
	c.Groups = &GroupService{c: c}
	c.Expenses = &ExpenseService{c: c}
	c.Categories = &CategoryService{c: c}
	c.Invitations = &InvitationService{c: c}

	return c, nil
}

// do executes one API request. body is JSON-encoded when non-nil, the
// response body is decoded into out when non-nil. Failed requests are
// returned as *apierror.Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apierror.New(apierror.KindInvalidInput, "encoding request body: %v", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return apierror.New(apierror.KindInvalidInput, "building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return apierror.Network(err)
	}
	defer res.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if res.StatusCode >= 400 {
		return c.errorFromResponse(res)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return apierror.New(apierror.KindServer, "decoding response from %s %s: %v", method, path, err)
	}

	return nil
}

func (c *Client) errorFromResponse(res *http.Response) error {
	var body apierror.ErrorBody
	// A body that is not the documented error shape still maps to the
	// right kind, just without a message.
	_ = json.NewDecoder(res.Body).Decode(&body)

	if res.StatusCode == http.StatusUnauthorized && c.unauthorizedHook != nil {
		c.unauthorizedHook()
	}

	return apierror.FromStatus(res.StatusCode, body)
}

// checkMeta verifies the pagination invariant on a decoded collection. An
// inconsistency is a backend bug; the data is still served, but the
// violation must not pass silently.
func (c *Client) checkMeta(path string, meta resource.Meta) {
	if err := meta.Check(); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("inconsistent pagination metadata")
	}
}

// InvalidateCache drops every cached query whose key matches the glob
// pattern, e.g. "expenses*" or "*". It returns the number of dropped
// entries. Mutations already invalidate their own resources; this is for
// callers that change data behind the client's back.
func (c *Client) InvalidateCache(pattern string) int {
	return c.cache.Invalidate(pattern)
}

// cached returns the cached value under key, if any.
func cached[T any](c *Client, key string) (T, bool) {
	var zero T

	v, ok := c.cache.Get(key)
	if !ok {
		return zero, false
	}

	typed, ok := v.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}

// response is the plain {success, data} envelope used by the session and
// invitation endpoints.
type response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}
