package walletprovider

import (
	"context"
	"strings"
	"time"

	"wallet_connector/internal/app/port"
)

const defaultPollInterval = time.Second

type requester interface {
	Request(ctx context.Context, method string, params []any, result any) error
}

// Poller turns eth_accounts / eth_chainId polling into accountsChanged / chainChanged
// events for endpoints that cannot push notifications.
type Poller struct {
	source   requester
	hub      *EventHub
	interval time.Duration
	logger   port.Logger

	primed       bool
	lastAccounts []string
	lastChainID  string
}

// NewPoller creates a poller emitting into hub.
func NewPoller(source requester, hub *EventHub, interval time.Duration, logger port.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		source:   source,
		hub:      hub,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Debug("Wallet event poller started", "interval", p.interval.String())
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Wallet event poller stopped")
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one observation. The first successful observation only records state.
func (p *Poller) Poll(ctx context.Context) {
	var accounts []string
	if err := p.source.Request(ctx, port.MethodAccounts, nil, &accounts); err != nil {
		if ctx.Err() == nil {
			p.logger.Debug("Polling eth_accounts failed", "error", err)
		}
		return
	}
	var chainID string
	if err := p.source.Request(ctx, port.MethodChainID, nil, &chainID); err != nil {
		if ctx.Err() == nil {
			p.logger.Debug("Polling eth_chainId failed", "error", err)
		}
		return
	}

	if !p.primed {
		p.primed = true
		p.lastAccounts = accounts
		p.lastChainID = chainID
		return
	}

	if !sameAccounts(p.lastAccounts, accounts) {
		p.lastAccounts = accounts
		p.logger.Debug("Accounts changed", "accounts", accounts)
		p.hub.EmitAccountsChanged(accounts)
	}
	if !strings.EqualFold(p.lastChainID, chainID) {
		p.lastChainID = chainID
		p.logger.Debug("Chain changed", "chainId", chainID)
		p.hub.EmitChainChanged(chainID)
	}
}

func sameAccounts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
