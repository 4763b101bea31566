package walletprovider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      uint64              `json:"id"`
	Result  jsoniter.RawMessage `json:"result"`
	Error   *rpcError           `json:"error"`
}

// HTTPOptions configures NewHTTPProvider.
type HTTPOptions struct {
	URL          string
	Timeout      time.Duration     // per request when ctx has no deadline; 0 waits indefinitely
	PollInterval time.Duration     // event polling interval
	Dial         fasthttp.DialFunc // optional, tests use an in-memory listener
}

// HTTPProvider implements port.WalletProvider with JSON-RPC 2.0 over plain HTTP.
// Events are produced by polling.
type HTTPProvider struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	nextID  atomic.Uint64
	hub     *EventHub
	logger  port.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewHTTPProvider creates the provider and starts its event poller.
func NewHTTPProvider(opts HTTPOptions, logger port.Logger) (*HTTPProvider, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("wallet RPC URL cannot be empty")
	}
	p := &HTTPProvider{
		client:  &fasthttp.Client{Dial: opts.Dial},
		url:     opts.URL,
		timeout: opts.Timeout,
		hub:     NewEventHub(),
		logger:  logger.With("provider", "http", "url", opts.URL),
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	poller := NewPoller(p, p.hub, opts.PollInterval, p.logger)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		poller.Run(ctx)
	}()
	return p, nil
}

// Request implements port.WalletProvider.
func (p *HTTPProvider) Request(ctx context.Context, method string, params []any, result any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: p.nextID.Add(1), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBodyRaw(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = p.client.DoDeadline(req, resp, deadline)
	} else if p.timeout > 0 {
		err = p.client.DoTimeout(req, resp, p.timeout)
	} else {
		err = p.client.Do(req, resp)
	}
	if err != nil {
		p.logger.Debug("Wallet RPC request failed", "method", method, "error", err)
		return fmt.Errorf("failed to execute %s request to %s: %w", method, p.url, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("wallet RPC %s failed with status %d: %s", method, resp.StatusCode(), string(rawBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(rawBody, &rpcResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w. Body: %s", method, err, string(rawBody))
	}
	if rpcResp.Error != nil {
		return &entity.ProviderError{Method: method, Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// OnAccountsChanged implements port.WalletProvider.
func (p *HTTPProvider) OnAccountsChanged(handler func(accounts []string)) port.Subscription {
	return p.hub.OnAccountsChanged(handler)
}

// OnChainChanged implements port.WalletProvider.
func (p *HTTPProvider) OnChainChanged(handler func(chainID string)) port.Subscription {
	return p.hub.OnChainChanged(handler)
}

// Close stops the poller and idle connections.
func (p *HTTPProvider) Close() error {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
		p.client.CloseIdleConnections()
		p.logger.Info("Wallet HTTP provider closed")
	})
	return nil
}
