package walletprovider

import (
	"context"
	"fmt"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/pkg/metrics"

	"golang.org/x/time/rate"
)

// rateLimited waits on a token bucket before each request.
type rateLimited struct {
	port.WalletProvider
	limiter *rate.Limiter
}

// WithRateLimit wraps p with limiter. A nil limiter returns p unchanged.
func WithRateLimit(p port.WalletProvider, limiter *rate.Limiter) port.WalletProvider {
	if limiter == nil {
		return p
	}
	return &rateLimited{WalletProvider: p, limiter: limiter}
}

func (r *rateLimited) Request(ctx context.Context, method string, params []any, result any) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", method, err)
	}
	return r.WalletProvider.Request(ctx, method, params, result)
}

// withTimeout bounds every request.
type withTimeout struct {
	port.WalletProvider
	timeout time.Duration
}

// WithRequestTimeout bounds each request by d. Non-positive d returns p unchanged.
func WithRequestTimeout(p port.WalletProvider, d time.Duration) port.WalletProvider {
	if d <= 0 {
		return p
	}
	return &withTimeout{WalletProvider: p, timeout: d}
}

func (w *withTimeout) Request(ctx context.Context, method string, params []any, result any) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	return w.WalletProvider.Request(ctx, method, params, result)
}

// instrumented records request and event metrics.
type instrumented struct {
	port.WalletProvider
	m *metrics.Metrics
}

// WithMetrics records request latency and event counts into m.
func WithMetrics(p port.WalletProvider, m *metrics.Metrics) port.WalletProvider {
	if m == nil {
		return p
	}
	return &instrumented{WalletProvider: p, m: m}
}

func (i *instrumented) Request(ctx context.Context, method string, params []any, result any) error {
	start := time.Now()
	err := i.WalletProvider.Request(ctx, method, params, result)
	i.m.ObserveRequest(method, err, time.Since(start))
	return err
}

func (i *instrumented) OnAccountsChanged(handler func(accounts []string)) port.Subscription {
	return i.WalletProvider.OnAccountsChanged(func(accounts []string) {
		i.m.ObserveEvent(port.EventAccountsChanged)
		handler(accounts)
	})
}

func (i *instrumented) OnChainChanged(handler func(chainID string)) port.Subscription {
	return i.WalletProvider.OnChainChanged(func(chainID string) {
		i.m.ObserveEvent(port.EventChainChanged)
		handler(chainID)
	})
}
