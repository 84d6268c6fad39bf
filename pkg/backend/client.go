package backend

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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultLoginPath   = "/api/auth/login"
	defaultCSRFPath    = "/api/csrf-token"
	defaultRefreshPath = "/api/auth/refresh"

	defaultRequestTimeout = 30 * time.Second
	defaultRefreshTimeout = 15 * time.Second

	correlationIDHeader = "X-Correlation-ID"
)

// ExpiredPredicate decides whether a response signals an expired access
// token. The exact signal is a backend convention, not a formal contract, so
// it stays configurable rather than hard-coded.
type ExpiredPredicate func(statusCode int, env Envelope) bool

// DefaultExpiredPredicate matches the backend's convention: HTTP 401 with the
// TOKEN_EXPIRED code in the envelope.
func DefaultExpiredPredicate(statusCode int, env Envelope) bool {
	return statusCode == http.StatusUnauthorized && env.Code == "TOKEN_EXPIRED"
}

// Config controls one authenticated client instance.
type Config struct {
	BaseURL string

	// LoginPath is exempted from Authorization injection so a stale token
	// never contaminates a fresh login attempt.
	LoginPath   string
	CSRFPath    string
	RefreshPath string

	RequestTimeout time.Duration
	RefreshTimeout time.Duration

	Expired ExpiredPredicate

	// OnDeauthenticated fires after a failed refresh, once local session
	// state has been cleared. It is the redirect-to-login analog.
	OnDeauthenticated func(ctx context.Context)
}

// Client is the authenticated backend API client. It decorates outgoing
// requests with the bearer and anti-forgery tokens, recovers transparently
// from expired-token responses through a single-flight refresh, and passes
// every other failure through unchanged.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	loginPath  string
	tokens     *TokenStore
	csrf       *csrfFetcher
	refresher  *refreshCoordinator
	expired    ExpiredPredicate
	logger     *logrus.Logger
}

// New builds a client over the given session storage. The underlying
// http.Client carries a cookie jar so backend session cookies ride along with
// every call, mirroring a browser's credentials-included mode.
func New(cfg Config, storage Storage, logger *logrus.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}

	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if cfg.CSRFPath == "" {
		cfg.CSRFPath = defaultCSRFPath
	}
	if cfg.RefreshPath == "" {
		cfg.RefreshPath = defaultRefreshPath
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = defaultRefreshTimeout
	}
	if cfg.Expired == nil {
		cfg.Expired = DefaultExpiredPredicate
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	httpClient := &http.Client{
		Jar:     jar,
		Timeout: cfg.RequestTimeout,
	}

	tokens := NewTokenStore(storage)
	csrf := &csrfFetcher{
		httpClient: httpClient,
		endpoint:   base.ResolveReference(&url.URL{Path: cfg.CSRFPath}),
		tokens:     tokens,
		logger:     logger,
	}
	refresher := &refreshCoordinator{
		httpClient: httpClient,
		endpoint:   base.ResolveReference(&url.URL{Path: cfg.RefreshPath}),
		tokens:     tokens,
		csrf:       csrf,
		timeout:    cfg.RefreshTimeout,
		onDeauth:   cfg.OnDeauthenticated,
		logger:     logger,
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		loginPath:  cfg.LoginPath,
		tokens:     tokens,
		csrf:       csrf,
		refresher:  refresher,
		expired:    cfg.Expired,
		logger:     logger,
	}, nil
}

// Tokens exposes the token store to session-level callers (login persists
// the bearer token and user profile through it).
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

// PrimeCSRF fetches an initial anti-forgery token. Best-effort: the request
// pipeline lazily fetches one anyway when needed.
func (c *Client) PrimeCSRF(ctx context.Context) {
	if err := c.csrf.Fetch(ctx); err != nil {
		c.logger.WithError(err).Debug("initial csrf fetch failed")
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// callState carries the per-request retry marker. It lives on the call stack
// instead of being mutated onto a shared request object, so the at-most-once
// guard cannot leak between logical requests.
type callState struct {
	retried bool
}

// authOutcome is the typed result of classifying one response.
type authOutcome int

const (
	outcomePassThrough authOutcome = iota
	outcomeExpiredRetryable
)

// do runs the token-expiry state machine for one logical request:
// dispatch, and on an expired-token response refresh once and redispatch
// once. Everything else, success or failure, passes through unchanged.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	state := &callState{}
	for {
		resp, err := c.dispatch(ctx, method, path, query, payload)
		if err != nil {
			return nil, err
		}

		switch c.classify(resp, state) {
		case outcomeExpiredRetryable:
			// At most one retry per logical request, whatever the
			// redispatched attempt returns.
			state.retried = true
			if err := c.refresher.Refresh(ctx); err != nil {
				return nil, err
			}
			// Loop: the redispatch re-reads the rotated tokens.
		default:
			return resp, nil
		}
	}
}

func (c *Client) classify(resp *Response, state *callState) authOutcome {
	if state.retried {
		return outcomePassThrough
	}
	if c.expired(resp.StatusCode, resp.Envelope) {
		return outcomeExpiredRetryable
	}
	return outcomePassThrough
}

// dispatch builds, decorates and sends one HTTP attempt and decodes the
// envelope. Decoration happens here so a retried attempt picks up the
// post-refresh tokens.
func (c *Client) dispatch(ctx context.Context, method, path string, query url.Values, payload []byte) (*Response, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(correlationIDHeader, correlationID(ctx))

	if err := c.decorate(ctx, req, path); err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       raw,
	}
	// A non-JSON body only means there is no envelope to inspect.
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &resp.Envelope)
	}
	return resp, nil
}

// decorate attaches the bearer token (login endpoint exempted) and, for
// state-mutating methods, the anti-forgery token, lazily fetching one when
// the store is empty. A failed fetch does not block the request: the server
// rejects it if the header was required.
func (c *Client) decorate(ctx context.Context, req *http.Request, path string) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if token != "" && !c.isLoginPath(path) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if isMutating(req.Method) {
		if c.tokens.CsrfToken() == "" {
			if err := c.csrf.Fetch(ctx); err != nil {
				c.logger.WithError(err).Warn("proceeding without csrf token")
			}
		}
		if csrf := c.tokens.CsrfToken(); csrf != "" {
			req.Header.Set(CSRFTokenHeader, csrf)
		}
	}
	return nil
}

func (c *Client) isLoginPath(path string) bool {
	return strings.TrimSuffix(path, "/") == strings.TrimSuffix(c.loginPath, "/")
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID tags a context so every backend call made under it
// carries the same correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func correlationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
