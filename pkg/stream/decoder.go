package stream

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Event discriminator values sent by the exchange.
const (
	eventKline         = "kline"
	eventAggTrade      = "aggTrade"
	eventOrderUpdate   = "ORDER_TRADE_UPDATE"
	eventAccountUpdate = "ACCOUNT_UPDATE"
	eventLiquidation   = "forceOrder"
	eventTicker        = "24hrTicker"
)

// DecodeFrame classifies an inbound frame into exactly one event. The
// decoder is stateless; no state persists across frames.
func DecodeFrame(frame Frame) Event {
	switch frame.Type {
	case FramePing:
		return &PingEvent{Payload: frame.Data}
	case FrameText:
		return DecodeText(frame.Data)
	default:
		return &RawFrameEvent{Frame: frame}
	}
}

// DecodeText classifies a text payload. Combined-stream envelopes are
// unwrapped to their nested data object first, so an enveloped event decodes
// identically to the bare object. Invalid JSON yields a ParseErrorEvent and
// unrecognized discriminators yield an UnknownEvent; neither is an error.
func DecodeText(data []byte) Event {
	text := string(data)

	fields, ok, err := objectFields(data)
	if err != nil {
		return &ParseErrorEvent{Err: err, Text: text}
	}
	if !ok {
		return &UnknownEvent{Text: text}
	}

	// Combined-stream envelope: {"stream":"<name>","data":{...}}.
	if isJSONString(fields["stream"]) {
		if inner, found := fields["data"]; found {
			innerFields, innerOK, innerErr := objectFields(inner)
			if innerErr == nil && innerOK && isJSONString(innerFields["e"]) {
				data = inner
				fields = innerFields
			}
		}
	}

	var tag string
	tagRaw, found := fields["e"]
	if !found || sonic.Unmarshal(tagRaw, &tag) != nil {
		return &UnknownEvent{Text: text}
	}

	switch tag {
	case eventKline:
		var event KlineEvent
		if err := sonic.Unmarshal(data, &event); err != nil {
			return &ParseErrorEvent{Err: err, Text: text}
		}
		return &event
	case eventAggTrade:
		var event AggTradeEvent
		if err := sonic.Unmarshal(data, &event); err != nil {
			return &ParseErrorEvent{Err: err, Text: text}
		}
		return &event
	case eventOrderUpdate:
		var event OrderUpdateEvent
		if err := sonic.Unmarshal(data, &event); err != nil {
			return &ParseErrorEvent{Err: err, Text: text}
		}
		return &event
	case eventAccountUpdate:
		var event AccountUpdateEvent
		if err := sonic.Unmarshal(data, &event); err != nil {
			return &ParseErrorEvent{Err: err, Text: text}
		}
		return &event
	case eventLiquidation:
		var event LiquidationEvent
		if err := sonic.Unmarshal(data, &event); err != nil {
			return &ParseErrorEvent{Err: err, Text: text}
		}
		return &event
	case eventTicker:
		var event TickerEvent
		if err := sonic.Unmarshal(data, &event); err != nil {
			return &ParseErrorEvent{Err: err, Text: text}
		}
		return &event
	default:
		return &UnknownEvent{Text: text}
	}
}

// objectFields parses data as a JSON object. ok is false when data is valid
// JSON but not an object; err is non-nil only for invalid JSON.
func objectFields(data []byte) (map[string]json.RawMessage, bool, error) {
	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &fields); err == nil {
		return fields, true, nil
	}
	var probe any
	if err := sonic.Unmarshal(data, &probe); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func isJSONString(raw json.RawMessage) bool {
	return len(raw) >= 2 && raw[0] == '"'
}
