package walletprovider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/domain/entity"

	"github.com/ethereum/go-ethereum/rpc"
)

const defaultDialTimeout = 10 * time.Second

// RPCProvider implements port.WalletProvider over a go-ethereum JSON-RPC client.
// Websocket and IPC endpoints get pushed events through eth_subscribe; other endpoints
// are polled.
type RPCProvider struct {
	client       *rpc.Client
	url          string
	hub          *EventHub
	logger       port.Logger
	pollInterval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	subs   []*rpc.ClientSubscription
	closed bool
}

// RPCOptions configures DialRPCProvider.
type RPCOptions struct {
	URLs         []string // primary first, then fallbacks
	DialTimeout  time.Duration
	PollInterval time.Duration
}

// DialRPCProvider connects to the first reachable URL and starts event delivery.
func DialRPCProvider(ctx context.Context, opts RPCOptions, logger port.Logger) (*RPCProvider, error) {
	if len(opts.URLs) == 0 {
		return nil, fmt.Errorf("no wallet RPC URL configured")
	}
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	var lastErr error
	for _, url := range opts.URLs {
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		client, err := rpc.DialContext(dialCtx, url)
		cancel()
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to wallet RPC %s: %w", url, err)
			logger.Warn("Wallet RPC dial failed", "url", url, "error", err)
			continue
		}
		p := newRPCProvider(client, url, opts.PollInterval, logger)
		p.start()
		return p, nil
	}
	return nil, fmt.Errorf("all wallet RPC connection attempts failed: %w", lastErr)
}

func newRPCProvider(client *rpc.Client, url string, pollInterval time.Duration, logger port.Logger) *RPCProvider {
	return &RPCProvider{
		client:       client,
		url:          url,
		hub:          NewEventHub(),
		logger:       logger.With("provider", "rpc", "url", url),
		pollInterval: pollInterval,
	}
}

// Request implements port.WalletProvider.
func (p *RPCProvider) Request(ctx context.Context, method string, params []any, result any) error {
	err := p.client.CallContext(ctx, result, method, params...)
	if err == nil {
		return nil
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &entity.ProviderError{Method: method, Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
	}
	return fmt.Errorf("wallet RPC %s failed: %w", method, err)
}

// OnAccountsChanged implements port.WalletProvider.
func (p *RPCProvider) OnAccountsChanged(handler func(accounts []string)) port.Subscription {
	return p.hub.OnAccountsChanged(handler)
}

// OnChainChanged implements port.WalletProvider.
func (p *RPCProvider) OnChainChanged(handler func(chainID string)) port.Subscription {
	return p.hub.OnChainChanged(handler)
}

// Close stops event delivery and closes the RPC client.
func (p *RPCProvider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	subs := p.subs
	p.subs = nil
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	p.wg.Wait()
	p.client.Close()
	p.logger.Info("Wallet RPC provider closed")
	return nil
}

func (p *RPCProvider) start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	accountsCh := make(chan []string, 8)
	chainCh := make(chan string, 8)
	accountsSub, chainSub, err := p.subscribe(ctx, accountsCh, chainCh)
	if err != nil {
		if errors.Is(err, rpc.ErrNotificationsUnsupported) {
			p.logger.Debug("Wallet endpoint has no notifications, polling for events")
		} else {
			p.logger.Warn("Wallet event subscription failed, polling for events", "error", err)
		}
		p.startPoller(ctx)
		return
	}

	p.mu.Lock()
	p.subs = append(p.subs, accountsSub, chainSub)
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case accounts := <-accountsCh:
				p.hub.EmitAccountsChanged(accounts)
			case chainID := <-chainCh:
				p.hub.EmitChainChanged(chainID)
			case err := <-accountsSub.Err():
				p.resubscribeByPolling(ctx, err)
				return
			case err := <-chainSub.Err():
				p.resubscribeByPolling(ctx, err)
				return
			}
		}
	}()
	p.logger.Info("Subscribed to wallet events")
}

func (p *RPCProvider) subscribe(ctx context.Context, accountsCh chan []string, chainCh chan string) (*rpc.ClientSubscription, *rpc.ClientSubscription, error) {
	accountsSub, err := p.client.EthSubscribe(ctx, accountsCh, port.EventAccountsChanged)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe %s: %w", port.EventAccountsChanged, err)
	}
	chainSub, err := p.client.EthSubscribe(ctx, chainCh, port.EventChainChanged)
	if err != nil {
		accountsSub.Unsubscribe()
		return nil, nil, fmt.Errorf("subscribe %s: %w", port.EventChainChanged, err)
	}
	return accountsSub, chainSub, nil
}

// resubscribeByPolling runs on the event goroutine after a subscription dropped.
func (p *RPCProvider) resubscribeByPolling(ctx context.Context, err error) {
	if ctx.Err() != nil || err == nil {
		return
	}
	p.logger.Warn("Wallet event subscription dropped, polling for events", "error", err)
	p.mu.Lock()
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	p.startPoller(ctx)
}

func (p *RPCProvider) startPoller(ctx context.Context) {
	poller := NewPoller(p, p.hub, p.pollInterval, p.logger)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		poller.Run(ctx)
	}()
}
