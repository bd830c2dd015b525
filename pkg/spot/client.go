package spot

import (
	"context"

	"github.com/rs/zerolog"

	"mbx/internal/circuitbreaker"
	"mbx/internal/keyring"
	"mbx/internal/ratelimit"
	"mbx/pkg/core"
	"mbx/pkg/rest"
)

// BaseURL is the spot market REST host.
const BaseURL = "https://api.binance.com"

// Config configures a spot client. The zero value yields an unauthenticated
// client for public endpoints.
type Config struct {
	// Credentials enables the authenticated endpoints when set.
	Credentials *core.Credentials
	// BaseURL overrides the production host, e.g. for a testnet.
	BaseURL string
	// Limiter throttles outgoing calls. Nil disables throttling.
	Limiter *ratelimit.Limiter
	// Breaker guards against hammering a failing upstream. Nil disables it.
	Breaker *circuitbreaker.Breaker
	// Logger receives transport debug lines. Nil means no logging.
	Logger *zerolog.Logger
}

// Client calls the spot market REST API.
type Client struct {
	rest *rest.Client
}

// NewClient builds a spot client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}

	restClient, err := rest.NewClient(&rest.Config{
		BaseURL: baseURL,
		Keys:    keyring.FromCredentials(cfg.Credentials),
		Limiter: cfg.Limiter,
		Breaker: cfg.Breaker,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Client{rest: restClient}, nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.rest.Close()
}

// GetAccount returns the account's balances and trading permissions.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	resp, err := c.rest.AuthenticatedGet(ctx, "/api/v3/account", core.NewForm())
	if err != nil {
		return nil, err
	}
	account, err := rest.DecodeResponse[Account](resp)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// PostOrder places a new order.
func (c *Client) PostOrder(ctx context.Context, order *OrderRequest) (*OrderResponse, error) {
	resp, err := c.rest.Post(ctx, "/api/v3/order", order.Form())
	if err != nil {
		return nil, err
	}
	result, err := rest.DecodeResponse[OrderResponse](resp)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTickerPrice returns the latest price for every symbol.
func (c *Client) GetTickerPrice(ctx context.Context) ([]TickerPrice, error) {
	resp, err := c.rest.Get(ctx, "/api/v3/ticker/price", nil)
	if err != nil {
		return nil, err
	}
	return rest.DecodeResponse[[]TickerPrice](resp)
}

// GetExchangeInfo returns the exchange's symbols and trading rules.
func (c *Client) GetExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	resp, err := c.rest.Get(ctx, "/api/v3/exchangeInfo", nil)
	if err != nil {
		return nil, err
	}
	info, err := rest.DecodeResponse[ExchangeInfo](resp)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// StartUserStream opens a user data stream and returns its listen key.
func (c *Client) StartUserStream(ctx context.Context) (string, error) {
	resp, err := c.rest.PostBare(ctx, "/api/v3/userDataStream")
	if err != nil {
		return "", err
	}
	key, err := rest.DecodeResponse[ListenKey](resp)
	if err != nil {
		return "", err
	}
	return key.ListenKey, nil
}

// KeepAliveUserStream extends the user data stream's validity. Call it at
// least once every 30 minutes while the stream is in use.
func (c *Client) KeepAliveUserStream(ctx context.Context) error {
	resp, err := c.rest.Put(ctx, "/api/v3/userDataStream")
	if err != nil {
		return err
	}
	_, err = rest.DecodeResponse[struct{}](resp)
	return err
}
