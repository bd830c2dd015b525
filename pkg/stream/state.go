package stream

import "sync/atomic"

// ConnState represents the current connection state of a stream.
type ConnState int32

const (
	// StateDisconnected indicates the stream is not connected.
	StateDisconnected ConnState = iota
	// StateConnecting indicates the stream is establishing a connection.
	StateConnecting
	// StateConnected indicates the stream has an active connection.
	StateConnected
	// StateClosed indicates the stream has been permanently closed.
	StateClosed
)

// String returns the string representation of the connection state.
func (s ConnState) String() string {
	return [...]string{
		"disconnected",
		"connecting",
		"connected",
		"closed",
	}[s]
}

// state provides thread-safe atomic access to a ConnState value.
type state struct {
	v atomic.Int32
}

func (s *state) Load() ConnState {
	return ConnState(s.v.Load())
}

func (s *state) Store(st ConnState) {
	s.v.Store(int32(st))
}

func (s *state) CompareAndSwap(old, new ConnState) bool {
	return s.v.CompareAndSwap(int32(old), int32(new))
}
