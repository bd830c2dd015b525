package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		want      string
	}{
		{"unknown", ErrorTypeUnknown, "UNKNOWN"},
		{"rate_limit", ErrorTypeRateLimit, "RATE_LIMIT"},
		{"authentication", ErrorTypeAuthentication, "AUTHENTICATION"},
		{"bad_request", ErrorTypeBadRequest, "BAD_REQUEST"},
		{"not_found", ErrorTypeNotFound, "NOT_FOUND"},
		{"server_error", ErrorTypeServerError, "SERVER_ERROR"},
		{"invalid_order", ErrorTypeInvalidOrder, "INVALID_ORDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.errorType.String())
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{
		Type:       ErrorTypeNotFound,
		StatusCode: 400,
		Code:       -2011,
		Message:    "Unknown order sent.",
	}

	assert.Equal(t, "binance: NOT_FOUND (400/-2011): Unknown order sent.", err.Error())
}

func TestAPIError_UnmarshalJSON(t *testing.T) {
	var apiErr APIError
	err := sonic.Unmarshal([]byte(`{"code":-2011,"msg":"Unknown order sent.","data":{"retry":false}}`), &apiErr)

	require.NoError(t, err)
	assert.Equal(t, int64(-2011), apiErr.Code)
	assert.Equal(t, "Unknown order sent.", apiErr.Message)
	require.Contains(t, apiErr.Extra, "data")
	assert.JSONEq(t, `{"retry":false}`, string(apiErr.Extra["data"]))
}

func TestAPIError_UnmarshalJSON_NoExtra(t *testing.T) {
	var apiErr APIError
	err := sonic.Unmarshal([]byte(`{"code":-1015,"msg":"Too many orders."}`), &apiErr)

	require.NoError(t, err)
	assert.Equal(t, int64(-1015), apiErr.Code)
	assert.Nil(t, apiErr.Extra)
}

func TestDecodeError(t *testing.T) {
	inner := errors.New("unexpected end of input")
	decErr := &DecodeError{Err: inner, Text: `{"broken`}

	assert.Equal(t, "decode response: unexpected end of input", decErr.Error())
	assert.ErrorIs(t, decErr, inner)
	assert.Equal(t, `{"broken`, decErr.Text)
}

func TestClassifyCode(t *testing.T) {
	tests := []struct {
		code int64
		want ErrorType
	}{
		{-1015, ErrorTypeRateLimit},
		{-1021, ErrorTypeAuthentication},
		{-1022, ErrorTypeAuthentication},
		{-2015, ErrorTypeAuthentication},
		{-2011, ErrorTypeNotFound},
		{-2013, ErrorTypeNotFound},
		{-2010, ErrorTypeInvalidOrder},
		{-1100, ErrorTypeBadRequest},
		{-1104, ErrorTypeBadRequest},
		{-4131, ErrorTypeInvalidOrder},
		{-1000, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCode(tt.code))
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{429, ErrorTypeRateLimit},
		{418, ErrorTypeRateLimit},
		{401, ErrorTypeAuthentication},
		{403, ErrorTypeAuthentication},
		{404, ErrorTypeNotFound},
		{400, ErrorTypeBadRequest},
		{302, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.status))
		})
	}
}

func TestAsAPIError(t *testing.T) {
	apiErr := &APIError{Code: -2010, Message: "insufficient balance"}
	wrapped := fmt.Errorf("place order: %w", apiErr)

	got, ok := AsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, int64(-2010), got.Code)

	_, ok = AsAPIError(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsRateLimitError(&APIError{Type: ErrorTypeRateLimit}))
	assert.False(t, IsRateLimitError(&APIError{Type: ErrorTypeBadRequest}))
	assert.True(t, IsAuthenticationError(&APIError{Type: ErrorTypeAuthentication}))
	assert.False(t, IsAuthenticationError(errors.New("plain")))
}
