package stream

// FrameType identifies the kind of an inbound websocket frame.
type FrameType int

const (
	// FrameText carries a JSON event payload.
	FrameText FrameType = iota
	// FramePing is a protocol keepalive; the connection answers it inline
	// before delivering it.
	FramePing
	// FrameBinary is an unexpected binary payload.
	FrameBinary
)

// String returns the string representation of the frame type.
func (t FrameType) String() string {
	return [...]string{"text", "ping", "binary"}[t]
}

// Frame is a single inbound websocket frame in wire order.
type Frame struct {
	Type FrameType
	Data []byte
}
