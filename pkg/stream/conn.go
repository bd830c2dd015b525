package stream

import (
	"context"
	"sync"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"

	"mbx/pkg/core"
)

// Conn is a single-consumer stream connection. One receive loop pulls frames
// sequentially; delivered frames match wire order, with ping interception
// happening inline before the next frame is read.
type Conn struct {
	sock   *gws.Conn
	state  *state
	logger zerolog.Logger

	frames    chan Frame
	connected chan struct{}
	done      chan struct{}

	doneOnce sync.Once

	// pong writes a keepalive response. Injected so keepalive behavior is
	// testable without a live socket.
	pong func(payload []byte) error
}

func newConn(bufferSize int, logger zerolog.Logger) *Conn {
	c := &Conn{
		state:     &state{},
		logger:    logger,
		frames:    make(chan Frame, bufferSize),
		connected: make(chan struct{}),
		done:      make(chan struct{}),
	}
	c.state.Store(StateDisconnected)
	return c
}

// Next blocks until the next frame arrives, the context is done, or the
// connection closes. Frames buffered before a disconnect drain first; once
// the buffer is empty a closed connection yields ErrStreamClosed.
func (c *Conn) Next(ctx context.Context) (Frame, error) {
	select {
	case frame := <-c.frames:
		return frame, nil
	default:
	}
	select {
	case frame := <-c.frames:
		return frame, nil
	case <-c.done:
		return Frame{}, core.ErrStreamClosed
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// NextEvent reads the next frame and decodes it into a typed event.
// Malformed payloads surface as data events, never as errors; only a closed
// connection or context cancellation returns an error.
func (c *Conn) NextEvent(ctx context.Context) (Event, error) {
	frame, err := c.Next(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeFrame(frame), nil
}

// Close terminates the connection. The receive loop ends at its next read
// and any pending Next call returns ErrStreamClosed.
func (c *Conn) Close() error {
	if !c.state.CompareAndSwap(StateConnected, StateClosed) &&
		!c.state.CompareAndSwap(StateConnecting, StateClosed) &&
		!c.state.CompareAndSwap(StateDisconnected, StateClosed) {
		return nil
	}

	c.doneOnce.Do(func() { close(c.done) })
	if c.sock != nil {
		return c.sock.NetConn().Close()
	}
	return nil
}

// State returns the current connection state.
func (c *Conn) State() ConnState {
	return c.state.Load()
}

// IsConnected reports whether the connection is active.
func (c *Conn) IsConnected() bool {
	return c.state.Load() == StateConnected
}

// deliver hands a frame to the consumer. A full buffer suspends the read
// loop until the consumer catches up; no frame is ever discarded. The send
// aborts only when the connection is torn down.
func (c *Conn) deliver(frame Frame) {
	select {
	case c.frames <- frame:
	case <-c.done:
	}
}

// connHandler adapts gws callbacks onto the connection's frame channel.
// All callbacks run on the single ReadLoop goroutine.
type connHandler struct {
	conn *Conn
}

func (h *connHandler) OnOpen(socket *gws.Conn) {
	h.conn.state.Store(StateConnected)
	select {
	case <-h.conn.connected:
	default:
		close(h.conn.connected)
	}
	h.conn.logger.Info().Msg("stream connected")
}

func (h *connHandler) OnClose(socket *gws.Conn, err error) {
	h.conn.state.CompareAndSwap(StateConnected, StateDisconnected)
	h.conn.logger.Warn().Err(err).Msg("stream disconnected")
	h.conn.doneOnce.Do(func() { close(h.conn.done) })
}

// OnPing answers the keepalive with an identical payload before the next
// frame is read. A failed pong is non-fatal: the server tolerates occasional
// missed responses.
func (h *connHandler) OnPing(socket *gws.Conn, payload []byte) {
	if err := h.conn.pong(payload); err != nil {
		h.conn.logger.Warn().Err(err).Msg("keepalive pong failed")
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	h.conn.deliver(Frame{Type: FramePing, Data: data})
}

func (h *connHandler) OnPong(socket *gws.Conn, payload []byte) {}

func (h *connHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	data := make([]byte, len(message.Bytes()))
	copy(data, message.Bytes())

	frameType := FrameText
	if message.Opcode == gws.OpcodeBinary {
		frameType = FrameBinary
	}
	h.conn.deliver(Frame{Type: frameType, Data: data})
}
