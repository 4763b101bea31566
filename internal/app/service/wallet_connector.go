package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/domain/entity"
	"wallet_connector/internal/pkg/flash"
	"wallet_connector/internal/pkg/metrics"
	"wallet_connector/internal/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	defaultWalletName     = "Core Wallet"
	defaultBannerDuration = 5 * time.Second
	defaultCopyConfirm    = 1500 * time.Millisecond
)

var allStates = []string{
	entity.StateDisconnected.String(),
	entity.StateConnecting.String(),
	entity.StateConnected.String(),
	entity.StateWrongNetwork.String(),
	entity.StateFailed.String(),
}

// ConnectorOptions holds the display settings of the connector.
type ConnectorOptions struct {
	WalletName     string        // shown when no provider is detected
	BannerDuration time.Duration // error banner auto-dismiss
	CopyConfirm    time.Duration // how long "Copied!" replaces the address
}

// connectorState is everything the connector knows besides transient flashes.
type connectorState struct {
	view    entity.WalletView
	session bool // set by a connect on the accepted chain, cleared by an empty accountsChanged
}

// WalletConnectorImpl implements port.WalletConnector.
type WalletConnectorImpl struct {
	provider        port.WalletProvider
	clipboard       port.Clipboard
	network         entity.NetworkDefinition
	expectedChainID string
	opts            ConnectorOptions
	logger          port.Logger
	metrics         *metrics.Metrics
	flash           *flash.Store

	mu           sync.Mutex
	state        connectorState
	connectGroup singleflight.Group

	baseCtx context.Context
	cancel  context.CancelFunc
	subs    []port.Subscription
}

// NewWalletConnector creates the connector and subscribes to provider events.
// provider may be nil when no wallet was detected.
func NewWalletConnector(
	provider port.WalletProvider,
	clipboard port.Clipboard,
	network entity.NetworkDefinition,
	opts ConnectorOptions,
	l port.Logger,
	m *metrics.Metrics,
) port.WalletConnector {
	if opts.WalletName == "" {
		opts.WalletName = defaultWalletName
	}
	if opts.BannerDuration <= 0 {
		opts.BannerDuration = defaultBannerDuration
	}
	if opts.CopyConfirm <= 0 {
		opts.CopyConfirm = defaultCopyConfirm
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &WalletConnectorImpl{
		provider:        provider,
		clipboard:       clipboard,
		network:         network,
		expectedChainID: utils.ChainIDHex(network.ChainID),
		opts:            opts,
		logger:          l.With("component", "wallet_connector"),
		metrics:         m,
		flash:           flash.NewStore(time.Minute),
		state:           connectorState{view: entity.NewDisconnectedView()},
		baseCtx:         ctx,
		cancel:          cancel,
	}
	c.metrics.SetState(entity.StateDisconnected.String(), allStates)

	if provider != nil {
		c.subs = append(c.subs,
			provider.OnAccountsChanged(c.OnAccountsChanged),
			provider.OnChainChanged(c.OnChainChanged),
		)
	}
	c.logger.Info("Wallet connector initialized",
		"network", network.Name, "expectedChainId", c.expectedChainID, "providerPresent", provider != nil)
	return c
}

// Network returns the accepted network.
func (c *WalletConnectorImpl) Network() entity.NetworkDefinition {
	return c.network
}

// View returns the current display model, including unexpired flashes.
func (c *WalletConnectorImpl) View() entity.WalletView {
	c.mu.Lock()
	v := c.state.view
	c.mu.Unlock()

	if msg, ok := c.flash.Get(slotBanner); ok {
		v.Banner = msg
		v.BannerVisible = true
	}
	if v.AddressFull != "" {
		if msg, ok := c.flash.Get(slotCopied); ok {
			v.Address = msg
		}
	}
	return v
}

// Close unsubscribes from provider events and cancels in-flight event handling.
func (c *WalletConnectorImpl) Close() {
	c.cancel()
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// Connect requests accounts and checks the active chain. Overlapping calls share one
// attempt. A connected wallet is left as is, like the disabled button on the page.
func (c *WalletConnectorImpl) Connect(ctx context.Context) (entity.WalletView, error) {
	_, err, shared := c.connectGroup.Do("connect", func() (any, error) {
		return nil, c.connect(ctx)
	})
	if shared {
		c.logger.Debug("Connect call joined an attempt already in flight")
	}
	return c.View(), err
}

func (c *WalletConnectorImpl) connect(ctx context.Context) error {
	log := c.logger.With("attempt", uuid.NewString())

	if c.provider == nil {
		c.showBanner(fmt.Sprintf(msgProviderMissing, c.opts.WalletName, c.opts.WalletName))
		c.metrics.ObserveConnect(entity.KindProviderMissing.String())
		log.Warn("Connect requested but no wallet provider is present")
		return entity.ErrProviderMissing
	}

	c.mu.Lock()
	alreadyConnected := c.state.view.State == entity.StateConnected
	c.mu.Unlock()
	if alreadyConnected {
		log.Debug("Wallet already connected, nothing to do")
		return nil
	}

	c.update(func(v *entity.WalletView) {
		c.setState(v, entity.StateConnecting)
		v.ButtonText = entity.ButtonConnecting
		v.ButtonDisabled = false
	})

	var accounts []string
	if err := c.provider.Request(ctx, port.MethodRequestAccounts, nil, &accounts); err != nil {
		return c.failConnect(log, err)
	}
	if len(accounts) == 0 {
		return c.failConnect(log, entity.ErrNoAccounts)
	}
	address := accounts[0]
	c.update(func(v *entity.WalletView) { setAddress(v, address) })

	var chainID string
	if err := c.provider.Request(ctx, port.MethodChainID, nil, &chainID); err != nil {
		return c.failConnect(log, err)
	}
	log.Info("Connected", "address", address, "chainId", chainID)

	if c.isExpectedChain(chainID) {
		c.update(func(v *entity.WalletView) {
			c.setState(v, entity.StateConnected)
			c.setNetwork(v, true, chainID)
		})
		c.mu.Lock()
		c.state.session = true
		c.mu.Unlock()
		c.refreshBalance(ctx, log, address)
		c.update(func(v *entity.WalletView) {
			v.ButtonText = entity.ButtonConnected
			v.ButtonDisabled = true
		})
		c.metrics.ObserveConnect("connected")
		return nil
	}

	c.update(func(v *entity.WalletView) {
		c.setState(v, entity.StateWrongNetwork)
		c.setNetwork(v, false, chainID)
		v.Balance = entity.Placeholder
		v.ButtonText = entity.ButtonConnect
		v.ButtonDisabled = false
	})
	c.showBanner(fmt.Sprintf(msgSwitchOnConnect, c.network.Name))
	c.metrics.ObserveConnect(entity.KindWrongNetwork.String())
	return fmt.Errorf("active chain %s, expected %s: %w", chainID, c.expectedChainID, entity.ErrWrongNetwork)
}

func (c *WalletConnectorImpl) failConnect(log port.Logger, err error) error {
	kind := entity.ClassifyError(err)
	log.Error("Connection error", "kind", kind.String(), "error", err)

	c.update(func(v *entity.WalletView) {
		c.setState(v, entity.StateFailed)
		v.ButtonText = entity.ButtonConnect
		v.ButtonDisabled = false
	})
	if kind == entity.KindUserRejected {
		c.showBanner(msgUserRejected)
	} else {
		c.showBanner(msgConnectFailed)
	}
	c.metrics.ObserveConnect(kind.String())
	return fmt.Errorf("connect wallet: %w", err)
}

// OnAccountsChanged handles the provider's accountsChanged event.
func (c *WalletConnectorImpl) OnAccountsChanged(accounts []string) {
	if c.provider == nil {
		return
	}
	ctx := c.baseCtx
	c.logger.Info("Account changed", "accounts", accounts)

	if len(accounts) == 0 {
		c.update(func(v *entity.WalletView) {
			*v = entity.NewDisconnectedView()
			c.setState(v, entity.StateDisconnected)
		})
		c.mu.Lock()
		c.state.session = false
		c.mu.Unlock()
		c.flash.Clear(slotCopied)
		c.showBanner(msgWalletDisconnect)
		return
	}

	address := accounts[0]
	c.update(func(v *entity.WalletView) { setAddress(v, address) })

	var chainID string
	if err := c.provider.Request(ctx, port.MethodChainID, nil, &chainID); err != nil {
		c.logger.Warn("Failed to read chain id after account change", "error", err)
		return
	}
	if c.isExpectedChain(chainID) {
		c.refreshBalance(ctx, c.logger, address)
	}
}

// OnChainChanged handles the provider's chainChanged event. It only acts after a connect
// that landed on the accepted chain.
func (c *WalletConnectorImpl) OnChainChanged(chainID string) {
	if c.provider == nil {
		return
	}
	ctx := c.baseCtx
	c.logger.Info("Chain changed", "chainId", chainID)

	c.mu.Lock()
	session := c.state.session
	c.mu.Unlock()
	if !session {
		c.logger.Debug("Ignoring chain change before connect", "chainId", chainID)
		return
	}

	if !c.isExpectedChain(chainID) {
		c.update(func(v *entity.WalletView) {
			c.setState(v, entity.StateWrongNetwork)
			c.setNetwork(v, false, chainID)
			v.Balance = entity.Placeholder
			v.ButtonText = entity.ButtonConnect
			v.ButtonDisabled = false
		})
		c.showBanner(fmt.Sprintf(msgSwitchOnChange, c.network.Name))
		return
	}

	c.update(func(v *entity.WalletView) {
		c.setState(v, entity.StateConnected)
		c.setNetwork(v, true, chainID)
		v.ButtonText = entity.ButtonConnected
		v.ButtonDisabled = true
	})

	var accounts []string
	if err := c.provider.Request(ctx, port.MethodAccounts, nil, &accounts); err != nil {
		c.logger.Warn("Failed to read accounts after chain change", "error", err)
		return
	}
	if len(accounts) > 0 {
		address := accounts[0]
		c.update(func(v *entity.WalletView) { setAddress(v, address) })
		c.refreshBalance(ctx, c.logger, address)
	}
}

// CopyAddress copies the full address and briefly shows "Copied!" in its place.
func (c *WalletConnectorImpl) CopyAddress(ctx context.Context) (bool, error) {
	c.mu.Lock()
	address := c.state.view.AddressFull
	c.mu.Unlock()
	if address == "" {
		return false, nil
	}
	if c.clipboard == nil {
		return false, fmt.Errorf("no clipboard configured")
	}
	if err := c.clipboard.WriteText(ctx, address); err != nil {
		c.logger.Warn("Failed to copy address", "error", err)
		return false, fmt.Errorf("copy address: %w", err)
	}
	c.flash.Show(slotCopied, entity.AddressCopiedText, c.opts.CopyConfirm)
	c.logger.Debug("Address copied", "address", address)
	return true, nil
}

// refreshBalance fetches and displays the native balance of address. The result is
// dropped when the displayed account changed meanwhile.
func (c *WalletConnectorImpl) refreshBalance(ctx context.Context, log port.Logger, address string) {
	var balanceHex string
	err := c.provider.Request(ctx, port.MethodGetBalance, []any{address, "latest"}, &balanceHex)
	text := ""
	if err == nil {
		text, err = utils.FormatNativeBalance(balanceHex, c.network.Decimals, c.network.NativeSymbol)
	}
	c.metrics.ObserveBalance(err)
	if err != nil {
		log.Error("Error fetching balance", "address", address, "error", err)
		text = entity.BalanceErrorText
	}

	c.update(func(v *entity.WalletView) {
		if v.AddressFull != address {
			return
		}
		v.Balance = text
	})
}

func (c *WalletConnectorImpl) isExpectedChain(chainID string) bool {
	return utils.SameChainID(chainID, c.expectedChainID)
}

func (c *WalletConnectorImpl) showBanner(msg string) {
	c.flash.Show(slotBanner, msg, c.opts.BannerDuration)
}

// update applies fn to the view under the lock.
func (c *WalletConnectorImpl) update(fn func(v *entity.WalletView)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state.view)
}

// setState must be called with c.mu held.
func (c *WalletConnectorImpl) setState(v *entity.WalletView, s entity.ConnectionState) {
	v.State = s
	v.Status = s.String()
	v.StatusClass = s.BadgeClass()
	c.metrics.SetState(s.String(), allStates)
}

func (c *WalletConnectorImpl) setNetwork(v *entity.WalletView, correct bool, chainID string) {
	v.NetworkCorrect = correct
	v.ChainID = chainID
	if correct {
		v.Network = c.network.DisplayName
	} else {
		v.Network = entity.NetworkWrongText
	}
}

func setAddress(v *entity.WalletView, address string) {
	v.Address = utils.ShortenAddress(address, entity.Placeholder)
	v.AddressFull = address
}
