package walletprovider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/pkg/metrics"

	"golang.org/x/time/rate"
)

// Provider kinds accepted in configuration.
const (
	KindNone = "none"
	KindRPC  = "rpc"
	KindWS   = "ws"
	KindHTTP = "http"
)

// Options selects and configures the wallet provider adapter.
type Options struct {
	Kind           string
	URL            string
	FallbackURLs   []string
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	PollInterval   time.Duration
	RateLimit      float64 // requests per second, 0 disables limiting
	RateBurst      int
}

// New builds the configured provider with its decorators. It returns a nil provider and no
// error when no wallet is configured, which the connector reports as a missing wallet.
func New(ctx context.Context, opts Options, logger port.Logger, m *metrics.Metrics) (port.WalletProvider, error) {
	kind := strings.ToLower(strings.TrimSpace(opts.Kind))
	if kind == "" || kind == KindNone || opts.URL == "" {
		logger.Warn("No wallet provider configured")
		return nil, nil
	}

	var (
		p   port.WalletProvider
		err error
	)
	switch kind {
	case KindRPC, KindWS:
		p, err = DialRPCProvider(ctx, RPCOptions{
			URLs:         append([]string{opts.URL}, opts.FallbackURLs...),
			DialTimeout:  opts.DialTimeout,
			PollInterval: opts.PollInterval,
		}, logger)
	case KindHTTP:
		p, err = NewHTTPProvider(HTTPOptions{
			URL:          opts.URL,
			Timeout:      opts.RequestTimeout,
			PollInterval: opts.PollInterval,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown wallet provider kind %q", opts.Kind)
	}
	if err != nil {
		return nil, err
	}

	p = WithRequestTimeout(p, opts.RequestTimeout)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		p = WithRateLimit(p, rate.NewLimiter(rate.Limit(opts.RateLimit), burst))
	}
	p = WithMetrics(p, m)
	logger.Info("Wallet provider ready", "kind", kind, "url", opts.URL)
	return p, nil
}
