package futures

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"mbx/internal/circuitbreaker"
	"mbx/internal/keyring"
	"mbx/internal/ratelimit"
	"mbx/pkg/core"
	"mbx/pkg/rest"
)

// BaseURL is the USD-margined futures REST host.
const BaseURL = "https://fapi.binance.com"

// Config configures a futures client. The zero value yields an
// unauthenticated client for public endpoints.
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

// Client calls the futures REST API.
type Client struct {
	rest *rest.Client
}

// NewClient builds a futures client.
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

// GetOpenOrders returns open orders, for one symbol when symbol is non-empty
// or across all symbols otherwise.
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]OpenOrder, error) {
	form := core.NewForm()
	if symbol != "" {
		form.Add("symbol", symbol)
	}
	resp, err := c.rest.AuthenticatedGet(ctx, "/fapi/v1/openOrders", form)
	if err != nil {
		return nil, err
	}
	return rest.DecodeResponse[[]OpenOrder](resp)
}

// PostOrder places a new order.
func (c *Client) PostOrder(ctx context.Context, order *NewOrder) (*OrderResponse, error) {
	resp, err := c.rest.Post(ctx, "/fapi/v1/order", order.Form())
	if err != nil {
		return nil, err
	}
	result, err := rest.DecodeResponse[OrderResponse](resp)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelOrder cancels an order.
func (c *Client) CancelOrder(ctx context.Context, cancel *CancelOrder) (*CancelOrderResponse, error) {
	resp, err := c.rest.Delete(ctx, "/fapi/v1/order", cancel.Form())
	if err != nil {
		return nil, err
	}
	result, err := rest.DecodeResponse[CancelOrderResponse](resp)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetKlines returns up to limit candles for the symbol and interval. A zero
// limit uses the exchange default.
func (c *Client) GetKlines(ctx context.Context, symbol string, interval core.Interval, limit int) ([]Kline, error) {
	query := core.NewForm().
		Add("symbol", symbol).
		Add("interval", interval.String())
	if limit > 0 {
		query.Add("limit", strconv.Itoa(limit))
	}
	resp, err := c.rest.Get(ctx, "/fapi/v1/klines", query)
	if err != nil {
		return nil, err
	}
	return rest.DecodeResponse[[]Kline](resp)
}

// GetPositions returns position risk entries, for one symbol when symbol is
// non-empty or for all symbols otherwise.
func (c *Client) GetPositions(ctx context.Context, symbol string) ([]Position, error) {
	form := core.NewForm()
	if symbol != "" {
		form.Add("symbol", symbol)
	}
	resp, err := c.rest.AuthenticatedGet(ctx, "/fapi/v2/positionRisk", form)
	if err != nil {
		return nil, err
	}
	return rest.DecodeResponse[[]Position](resp)
}

// GetBookTicker returns the best bid and ask for a symbol.
func (c *Client) GetBookTicker(ctx context.Context, symbol string) (*BookTicker, error) {
	resp, err := c.rest.Get(ctx, "/fapi/v1/ticker/bookTicker",
		core.NewForm().Add("symbol", symbol))
	if err != nil {
		return nil, err
	}
	ticker, err := rest.DecodeResponse[BookTicker](resp)
	if err != nil {
		return nil, err
	}
	return &ticker, nil
}

// GetExchangeInfo returns the exchange's symbols and trading rules.
func (c *Client) GetExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	resp, err := c.rest.Get(ctx, "/fapi/v1/exchangeInfo", nil)
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
	resp, err := c.rest.PostBare(ctx, "/fapi/v1/listenKey")
	if err != nil {
		return "", err
	}
	key, err := rest.DecodeResponse[ListenKey](resp)
	if err != nil {
		return "", err
	}
	return key.ListenKey, nil
}

// KeepAliveUserStream extends the user data stream's validity.
func (c *Client) KeepAliveUserStream(ctx context.Context) error {
	resp, err := c.rest.Put(ctx, "/fapi/v1/listenKey")
	if err != nil {
		return err
	}
	_, err = rest.DecodeResponse[struct{}](resp)
	return err
}
