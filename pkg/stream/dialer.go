package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
)

// Base hosts per market.
const (
	SpotBaseURL    = "wss://stream.binance.com:9443"
	FuturesBaseURL = "wss://fstream.binance.com"
)

const defaultBufferSize = 100

// Dialer opens stream connections against one market's websocket host.
type Dialer struct {
	// BaseURL is the websocket host, without a trailing slash.
	BaseURL string
	// BufferSize is the frame channel capacity. Zero means the default.
	BufferSize int
	// Logger receives connection lifecycle lines. Zero value disables logging.
	Logger zerolog.Logger
}

// NewSpotDialer returns a dialer for the spot market streams.
func NewSpotDialer() *Dialer {
	return &Dialer{BaseURL: SpotBaseURL, Logger: zerolog.Nop()}
}

// NewFuturesDialer returns a dialer for the futures market streams.
func NewFuturesDialer() *Dialer {
	return &Dialer{BaseURL: FuturesBaseURL, Logger: zerolog.Nop()}
}

// Stream connects to a single named channel.
func (d *Dialer) Stream(ctx context.Context, name string) (*Conn, error) {
	return d.Connect(ctx, "/ws/"+name)
}

// Combined connects to several channels multiplexed over one socket. Inbound
// messages arrive wrapped in a channel-tagged envelope which the event
// decoder unwraps.
func (d *Dialer) Combined(ctx context.Context, names ...string) (*Conn, error) {
	if len(names) == 0 {
		return nil, errors.New("combined stream requires at least one channel name")
	}
	return d.Connect(ctx, "/stream?streams="+strings.Join(names, "/"))
}

// Connect opens a websocket connection to the given endpoint path and starts
// its receive loop.
func (d *Dialer) Connect(ctx context.Context, endpoint string) (*Conn, error) {
	bufferSize := d.BufferSize
	if bufferSize == 0 {
		bufferSize = defaultBufferSize
	}

	conn := newConn(bufferSize, d.Logger)
	conn.state.Store(StateConnecting)

	socket, _, err := gws.NewClient(&connHandler{conn: conn}, &gws.ClientOption{
		Addr: d.BaseURL + endpoint,
	})
	if err != nil {
		conn.state.Store(StateDisconnected)
		return nil, fmt.Errorf("connect stream: %w", err)
	}

	conn.sock = socket
	conn.pong = socket.WritePong

	go socket.ReadLoop()

	select {
	case <-conn.connected:
		return conn, nil
	case <-ctx.Done():
		_ = socket.NetConn().Close()
		conn.state.Store(StateDisconnected)
		return nil, ctx.Err()
	}
}
