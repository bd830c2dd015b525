package core

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrorType categorizes an API error for programmatic handling.
type ErrorType int

const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit indicates a rate limit violation.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid or expired credentials.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a server-side failure.
	ErrorTypeServerError
	// ErrorTypeInvalidOrder indicates the order violates exchange rules.
	ErrorTypeInvalidOrder
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"SERVER_ERROR",
		"INVALID_ORDER",
	}[t]
}

// Sentinel errors for common client states.
var (
	// ErrNoCredentials is returned when a signing path is invoked on a
	// client constructed without a secret key.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrStreamClosed is returned when reading from a closed stream.
	ErrStreamClosed = errors.New("stream is closed")
	// ErrNotConnected is returned when the websocket has no active connection.
	ErrNotConnected = errors.New("websocket not connected")
)

// APIError is an error sent by the exchange in response to a request.
// Code and Message come from the response body when it parses as the
// documented error shape; otherwise the error is synthesized from the HTTP
// status code and raw body. Extra carries any additional fields the
// exchange included beyond code and msg.
type APIError struct {
	// Type categorizes the error for branching without memorizing codes.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status of the response that carried the error.
	StatusCode int `json:"status_code"`
	// Code is the exchange-specific numeric error code, e.g. -2011.
	Code int64 `json:"code"`
	// Message is the human-readable description from the exchange.
	Message string `json:"msg"`
	// Extra holds response fields beyond code and msg.
	Extra map[string]json.RawMessage `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("binance: %s (%d/%d): %s", e.Type, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("binance: %s (%d): %s", e.Type, e.Code, e.Message)
}

// UnmarshalJSON decodes the documented {"code":..,"msg":..} error shape and
// collects any remaining fields into Extra.
func (e *APIError) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code int64  `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &fields); err != nil {
		return err
	}
	delete(fields, "code")
	delete(fields, "msg")

	e.Code = raw.Code
	e.Message = raw.Msg
	if len(fields) > 0 {
		e.Extra = fields
	}
	return nil
}

// DecodeError is returned when a success-status response body fails to
// deserialize into the expected type. It preserves the raw response text so
// malformed exchange responses can be inspected.
type DecodeError struct {
	// Err is the underlying deserialization failure.
	Err error
	// Text is the original response body.
	Text string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

// Unwrap returns the underlying deserialization error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ClassifyCode maps an exchange numeric error code to an ErrorType.
func ClassifyCode(code int64) ErrorType {
	switch code {
	case -1015:
		return ErrorTypeRateLimit
	case -1021, -1022, -2014, -2015:
		return ErrorTypeAuthentication
	case -2011, -2013:
		return ErrorTypeNotFound
	case -2010, -2018, -2019:
		return ErrorTypeInvalidOrder
	}
	switch {
	case code <= -1100 && code > -1200:
		return ErrorTypeBadRequest
	case code <= -4000:
		return ErrorTypeInvalidOrder
	default:
		return ErrorTypeUnknown
	}
}

// ClassifyStatus maps an HTTP status code to an ErrorType. It is used when
// the response body carries no exchange error code.
func ClassifyStatus(statusCode int) ErrorType {
	switch {
	case statusCode >= 500:
		return ErrorTypeServerError
	case statusCode == 429 || statusCode == 418:
		return ErrorTypeRateLimit
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuthentication
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode == 400:
		return ErrorTypeBadRequest
	default:
		return ErrorTypeUnknown
	}
}

// AsAPIError extracts an *APIError from err, if present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRateLimitError reports whether err is a rate limit violation.
func IsRateLimitError(err error) bool {
	if e, ok := AsAPIError(err); ok {
		return e.Type == ErrorTypeRateLimit
	}
	return false
}

// IsAuthenticationError reports whether err is an authentication failure.
func IsAuthenticationError(err error) bool {
	if e, ok := AsAPIError(err); ok {
		return e.Type == ErrorTypeAuthentication
	}
	return false
}
