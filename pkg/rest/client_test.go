package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbx/internal/circuitbreaker"
	"mbx/internal/keyring"
	"mbx/pkg/core"
)

func newTestClient(t *testing.T, baseURL string, creds *core.Credentials) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		BaseURL: baseURL,
		Keys:    keyring.FromCredentials(creds),
	})
	require.NoError(t, err)
	client.now = func() time.Time { return time.UnixMilli(1700000000000) }
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClientInvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestGetPublicNoAPIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-MBX-APIKEY"))
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Equal(t, "symbol=BTCUSDT", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"43250.10"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	resp, err := client.Get(context.Background(), "/api/v3/ticker/price",
		core.NewForm().Add("symbol", "BTCUSDT"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "BTCUSDT")
}

func TestAuthenticatedGetSignsQuery(t *testing.T) {
	creds := &core.Credentials{APIKey: "test-api-key", SecretKey: "test-secret"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("X-MBX-APIKEY"))

		query := r.URL.RawQuery
		idx := strings.LastIndex(query, "&signature=")
		require.Positive(t, idx, "signature must be the trailing field")

		payload, signature := query[:idx], query[idx+len("&signature="):]
		assert.Equal(t, "symbol=BTCUSDT&recvWindow=1000&timestamp=1700000000000", payload)
		assert.Equal(t, Sign("test-secret", payload), signature)

		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, creds)
	_, err := client.AuthenticatedGet(context.Background(), "/fapi/v1/openOrders",
		core.NewForm().Add("symbol", "BTCUSDT"))
	require.NoError(t, err)
}

func TestAuthenticatedGetWithoutCredentials(t *testing.T) {
	client := newTestClient(t, "http://localhost:9", nil)
	_, err := client.AuthenticatedGet(context.Background(), "/api/v3/account", core.NewForm())
	assert.ErrorIs(t, err, core.ErrNoCredentials)
}

func TestPostSignedBody(t *testing.T) {
	creds := &core.Credentials{APIKey: "test-api-key", SecretKey: "test-secret"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-api-key", r.Header.Get("X-MBX-APIKEY"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		got := string(body)
		idx := strings.LastIndex(got, "&signature=")
		require.Positive(t, idx)
		payload, signature := got[:idx], got[idx+len("&signature="):]
		assert.Equal(t,
			"symbol=BTCUSDT&side=BUY&type=MARKET&quantity=0.001&recvWindow=1000&timestamp=1700000000000",
			payload)
		assert.Equal(t, Sign("test-secret", payload), signature)

		_, _ = w.Write([]byte(`{"orderId":1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, creds)
	form := core.NewForm().
		Add("symbol", "BTCUSDT").
		Add("side", "BUY").
		Add("type", "MARKET").
		Add("quantity", "0.001")
	resp, err := client.Post(context.Background(), "/fapi/v1/order", form)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostBareNoSignature(t *testing.T) {
	creds := &core.Credentials{APIKey: "test-api-key"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("X-MBX-APIKEY"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		_, _ = w.Write([]byte(`{"listenKey":"abc"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, creds)
	resp, err := client.PostBare(context.Background(), "/api/v3/userDataStream")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPutTimestampSignedBody(t *testing.T) {
	creds := &core.Credentials{APIKey: "test-api-key", SecretKey: "test-secret"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Regexp(t, `^timestamp=1700000000000&signature=[0-9a-f]{64}$`, string(body))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, creds)
	_, err := client.Put(context.Background(), "/api/v3/userDataStream")
	require.NoError(t, err)
}

func TestDeleteSignedQuery(t *testing.T) {
	creds := &core.Credentials{APIKey: "test-api-key", SecretKey: "test-secret"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Contains(t, r.URL.RawQuery, "symbol=BTCUSDT&orderId=42&recvWindow=1000")
		assert.Regexp(t, `&signature=[0-9a-f]{64}$`, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"orderId":42,"status":"CANCELED"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, creds)
	form := core.NewForm().Add("symbol", "BTCUSDT").AddInt("orderId", 42)
	_, err := client.Delete(context.Background(), "/fapi/v1/order", form)
	require.NoError(t, err)
}

func TestPublicGetRetriesOnServerError(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"serverTime":1700000000000}`))
	}))
	defer server.Close()

	client, err := NewClient(&Config{
		BaseURL:      server.URL,
		MaxRetries:   2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	resp, err := client.Get(context.Background(), "/api/v3/time", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

// A signed payload's timestamp is only fresh for the attempt it was built
// for, and a replayed order is not idempotent, so signed requests go out
// exactly once regardless of the retry budget.
func TestSignedRequestsAreNeverRetried(t *testing.T) {
	creds := &core.Credentials{APIKey: "test-api-key", SecretKey: "test-secret"}

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(&Config{
		BaseURL:      server.URL,
		Keys:         keyring.FromCredentials(creds),
		MaxRetries:   3,
		RetryWaitMin: time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	resp, err := client.Post(context.Background(), "/fapi/v1/order",
		core.NewForm().Add("symbol", "BTCUSDT"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	resp, err = client.AuthenticatedGet(context.Background(), "/fapi/v1/openOrders",
		core.NewForm())
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(&Config{
		BaseURL: server.URL,
		Breaker: circuitbreaker.New(2, time.Minute),
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), "/api/v3/time", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}

	_, err = client.Get(context.Background(), "/api/v3/time", nil)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
}
