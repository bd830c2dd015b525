// Package ratelimit provides client-side throttles for the exchange's
// request-weight and order-count limits. A nil limiter disables throttling.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles outgoing REST calls. Requests and orders are limited
// independently because the exchange accounts for them separately.
type Limiter struct {
	requests *rate.Limiter
	orders   *rate.Limiter
}

// New builds a limiter with the given per-second rates and bursts.
func New(requestsPerSec float64, requestBurst int, ordersPerSec float64, orderBurst int) *Limiter {
	return &Limiter{
		requests: rate.NewLimiter(rate.Limit(requestsPerSec), requestBurst),
		orders:   rate.NewLimiter(rate.Limit(ordersPerSec), orderBurst),
	}
}

// WaitRequest blocks until a request token is available or ctx is done.
func (l *Limiter) WaitRequest(ctx context.Context) error {
	if l == nil || l.requests == nil {
		return nil
	}
	return l.requests.Wait(ctx)
}

// WaitOrder blocks until both a request and an order token are available.
// Order placement consumes from both budgets.
func (l *Limiter) WaitOrder(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.WaitRequest(ctx); err != nil {
		return err
	}
	if l.orders == nil {
		return nil
	}
	return l.orders.Wait(ctx)
}

// AllowRequest reports whether a request token is available right now
// without consuming wait time.
func (l *Limiter) AllowRequest() bool {
	if l == nil || l.requests == nil {
		return true
	}
	return l.requests.Allow()
}
