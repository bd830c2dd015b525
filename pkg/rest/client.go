package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"mbx/internal/circuitbreaker"
	"mbx/internal/keyring"
	"mbx/internal/ratelimit"
	"mbx/pkg/core"
)

const (
	apiKeyHeader    = "X-MBX-APIKEY"
	formContentType = "application/x-www-form-urlencoded"

	// defaultRecvWindow is the freshness window in milliseconds sent with
	// every signed request.
	defaultRecvWindow = 1000
)

// Config configures a REST client for one market (spot or futures base URL).
type Config struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"min=0"`

	// MaxRetries bounds re-sends of public unsigned GETs on transport
	// errors, 5xx, and 429. Signed requests carry a timestamp that must be
	// current at send time and are never retried; callers re-issue them so
	// a fresh signature is computed.
	MaxRetries   int           `validate:"min=0"`
	RetryWaitMin time.Duration `validate:"min=0"`
	RetryWaitMax time.Duration `validate:"min=0"`

	// RecvWindow is the signed freshness window in milliseconds. Zero means
	// the default of 1000.
	RecvWindow int64 `validate:"min=0"`

	// Keys holds the credentials used for signing and the API key header.
	// A nil or empty ring produces an unauthenticated client that can still
	// call public endpoints.
	Keys *keyring.Ring

	// Limiter throttles outgoing calls. Nil disables throttling.
	Limiter *ratelimit.Limiter

	// Breaker guards against hammering a failing upstream. Nil disables it.
	Breaker *circuitbreaker.Breaker

	// Logger receives request/response debug lines. Nil means no logging.
	Logger *zerolog.Logger
}

// Client executes exchange REST calls. Signed requests append the freshness
// window, a current timestamp, and a trailing signature computed over the
// exact bytes sent.
type Client struct {
	http         *resty.Client
	keys         *keyring.Ring
	limiter      *ratelimit.Limiter
	breaker      *circuitbreaker.Breaker
	logger       zerolog.Logger
	recvWindow   int64
	maxRetries   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	now          func() time.Time
}

// Response is a raw exchange response awaiting decoding.
type Response struct {
	// StatusCode is the HTTP status returned by the server.
	StatusCode int
	// Body is the raw response body.
	Body []byte
	// Headers holds the first value of each response header.
	Headers map[string]string
}

// NewClient builds a REST client from config.
func NewClient(cfg *Config) (*Client, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	recvWindow := cfg.RecvWindow
	if recvWindow == 0 {
		recvWindow = defaultRecvWindow
	}
	retryWaitMin := cfg.RetryWaitMin
	if retryWaitMin == 0 {
		retryWaitMin = 250 * time.Millisecond
	}
	retryWaitMax := cfg.RetryWaitMax
	if retryWaitMax == 0 {
		retryWaitMax = 2 * time.Second
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.BaseURL)
	httpClient.SetTimeout(timeout)

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	httpClient.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})
	httpClient.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Int("size", len(resp.Bytes())).
			Msg("http response")
		return nil
	})

	return &Client{
		http:         httpClient,
		keys:         cfg.Keys,
		limiter:      cfg.Limiter,
		breaker:      cfg.Breaker,
		logger:       logger,
		recvWindow:   recvWindow,
		maxRetries:   cfg.MaxRetries,
		retryWaitMin: retryWaitMin,
		retryWaitMax: retryWaitMax,
		now:          time.Now,
	}, nil
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// Get performs a public GET. The query, if any, is sent unsigned and without
// the API key header.
func (c *Client) Get(ctx context.Context, endpoint string, query *core.Form) (*Response, error) {
	url := endpoint
	if !query.Empty() {
		url = endpoint + "?" + query.Encode()
	}
	return c.execute(ctx, http.MethodGet, url, "", false, false)
}

// AuthenticatedGet signs form and performs a GET with the signed form as the
// query string and the API key header set.
func (c *Client) AuthenticatedGet(ctx context.Context, endpoint string, form *core.Form) (*Response, error) {
	signed, err := c.signForm(form)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, http.MethodGet, endpoint+"?"+signed, "", true, false)
}

// Post signs form and performs a POST with the signed form as the
// url-encoded request body. Order placement consumes the order rate budget.
func (c *Client) Post(ctx context.Context, endpoint string, form *core.Form) (*Response, error) {
	signed, err := c.signForm(form)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, http.MethodPost, endpoint, signed, true, true)
}

// PostBare performs a POST with the API key header and an empty body.
// Listen-key creation requires the key but no signature.
func (c *Client) PostBare(ctx context.Context, endpoint string) (*Response, error) {
	return c.execute(ctx, http.MethodPost, endpoint, "", true, false)
}

// Put performs a PUT with the API key header and a timestamp-only signed
// body, as listen-key keepalives expect.
func (c *Client) Put(ctx context.Context, endpoint string) (*Response, error) {
	entry, err := c.signingEntry()
	if err != nil {
		return nil, err
	}
	body, err := SignTimestamp(entry.Credentials.SecretKey, c.now())
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, http.MethodPut, endpoint, body, true, false)
}

// Delete signs form and performs a DELETE with the signed form as the query
// string.
func (c *Client) Delete(ctx context.Context, endpoint string, form *core.Form) (*Response, error) {
	signed, err := c.signForm(form)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, http.MethodDelete, endpoint+"?"+signed, "", true, true)
}

func (c *Client) signingEntry() (*keyring.Entry, error) {
	entry := c.keys.Current()
	if entry == nil || !entry.Credentials.HasSecret() {
		return nil, core.ErrNoCredentials
	}
	return entry, nil
}

func (c *Client) signForm(form *core.Form) (string, error) {
	entry, err := c.signingEntry()
	if err != nil {
		return "", err
	}
	return SignForm(entry.Credentials.SecretKey, form, c.recvWindow, c.now())
}

func (c *Client) execute(ctx context.Context, method, url, body string, authed, order bool) (*Response, error) {
	if order {
		if err := c.limiter.WaitOrder(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	} else {
		if err := c.limiter.WaitRequest(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	if err := c.breaker.Allow(); err != nil {
		return nil, err
	}

	var apiKey string
	if authed {
		entry := c.keys.Current()
		if entry == nil {
			return nil, core.ErrNoCredentials
		}
		apiKey = entry.Credentials.APIKey
		c.keys.MarkUsed()
	}

	send := func() (*resty.Response, error) {
		req := c.http.R().SetContext(ctx)
		if apiKey != "" {
			req.SetHeader(apiKeyHeader, apiKey)
		}
		if body != "" || method == http.MethodPost || method == http.MethodPut {
			req.SetHeader("Content-Type", formContentType)
			req.SetBody(body)
		}
		switch method {
		case http.MethodGet:
			return req.Get(url)
		case http.MethodPost:
			return req.Post(url)
		case http.MethodPut:
			return req.Put(url)
		case http.MethodDelete:
			return req.Delete(url)
		default:
			return nil, fmt.Errorf("unsupported http method: %s", method)
		}
	}

	// Only public unsigned reads are retried: a signed payload's timestamp
	// would be stale on a re-send, and a replayed order is not idempotent.
	retries := 0
	if !authed && method == http.MethodGet {
		retries = c.maxRetries
	}

	resp, err := send()
	for attempt := 0; attempt < retries && retryable(resp, err); attempt++ {
		c.logger.Debug().
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("retrying request")
		if werr := c.retryWait(ctx, attempt); werr != nil {
			return nil, werr
		}
		resp, err = send()
	}
	if err != nil {
		c.breaker.Failure()
		c.logger.Error().Err(err).
			Str("method", method).
			Str("url", url).
			Msg("http request failed")
		return nil, fmt.Errorf("http request: %w", err)
	}

	status := resp.StatusCode()
	if status >= 500 || status == http.StatusTooManyRequests {
		c.breaker.Failure()
	} else {
		c.breaker.Success()
	}

	headers := make(map[string]string)
	for k, v := range resp.Header() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return &Response{
		StatusCode: status,
		Body:       resp.Bytes(),
		Headers:    headers,
	}, nil
}

func retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	status := resp.StatusCode()
	return status >= 500 || status == http.StatusTooManyRequests
}

// retryWait sleeps with exponential backoff, bounded by the configured
// ceiling, or returns early when the context ends.
func (c *Client) retryWait(ctx context.Context, attempt int) error {
	wait := c.retryWaitMin << attempt
	if wait > c.retryWaitMax {
		wait = c.retryWaitMax
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
