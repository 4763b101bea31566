package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wallet_connector/internal/app/port"
	"wallet_connector/internal/domain/entity"
	"wallet_connector/internal/infrastructure/clipboard"
	networkdefinition "wallet_connector/internal/infrastructure/network/definition"
	"wallet_connector/internal/infrastructure/walletprovider"
	"wallet_connector/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

const (
	testAddress  = "0x1234567890abcdef1234567890abcdef12345678"
	otherAddress = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	fujiChainID  = "0xa869"
	mainChainID  = "0xa86a"
	oneAVAX      = "0xde0b6b3a7640000"
)

type requestHandler func(params []any) (any, error)

// fakeWallet answers requests from per-method handlers and emits events through a hub.
type fakeWallet struct {
	*walletprovider.EventHub

	mu       sync.Mutex
	handlers map[string]requestHandler
	calls    map[string]int
}

func newFakeWallet() *fakeWallet {
	w := &fakeWallet{
		EventHub: walletprovider.NewEventHub(),
		handlers: map[string]requestHandler{},
		calls:    map[string]int{},
	}
	w.respond(port.MethodRequestAccounts, []string{testAddress})
	w.respond(port.MethodAccounts, []string{testAddress})
	w.respond(port.MethodChainID, fujiChainID)
	w.respond(port.MethodGetBalance, oneAVAX)
	return w
}

func (w *fakeWallet) respond(method string, result any) {
	w.handle(method, func([]any) (any, error) { return result, nil })
}

func (w *fakeWallet) fail(method string, err error) {
	w.handle(method, func([]any) (any, error) { return nil, err })
}

func (w *fakeWallet) handle(method string, h requestHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[method] = h
}

func (w *fakeWallet) callCount(method string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls[method]
}

func (w *fakeWallet) Request(_ context.Context, method string, params []any, result any) error {
	w.mu.Lock()
	w.calls[method]++
	h, ok := w.handlers[method]
	w.mu.Unlock()
	if !ok {
		return &entity.ProviderError{Method: method, Code: -32601, Message: "method not found"}
	}
	v, err := h(params)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (w *fakeWallet) Close() error { return nil }

func newTestConnector(t *testing.T, provider port.WalletProvider, opts ConnectorOptions) (port.WalletConnector, *clipboard.MemoryClipboard) {
	t.Helper()
	clip := &clipboard.MemoryClipboard{}
	c := NewWalletConnector(provider, clip, networkdefinition.Fuji, opts, logger.NewNop(), nil)
	t.Cleanup(c.Close)
	return c, clip
}

func TestInitialViewIsDisconnected(t *testing.T) {
	c, _ := newTestConnector(t, newFakeWallet(), ConnectorOptions{})
	require.Equal(t, entity.NewDisconnectedView(), c.View())
	require.Equal(t, uint64(43113), c.Network().ChainID)
}

func TestConnectWithoutProvider(t *testing.T) {
	c, _ := newTestConnector(t, nil, ConnectorOptions{})

	view, err := c.Connect(context.Background())
	require.ErrorIs(t, err, entity.ErrProviderMissing)
	require.True(t, view.BannerVisible)
	require.Equal(t, "Core Wallet not detected. Please install Core Wallet extension.", view.Banner)
	require.Equal(t, entity.StateDisconnected, view.State)
	require.Equal(t, entity.ButtonConnect, view.ButtonText)
}

func TestConnectUsesConfiguredWalletName(t *testing.T) {
	c, _ := newTestConnector(t, nil, ConnectorOptions{WalletName: "MetaMask"})
	view, _ := c.Connect(context.Background())
	require.Equal(t, "MetaMask not detected. Please install MetaMask extension.", view.Banner)
}

func TestConnectOnExpectedChain(t *testing.T) {
	w := newFakeWallet()
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	view, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.StateConnected, view.State)
	require.Equal(t, "Connected", view.Status)
	require.Equal(t, entity.BadgeClassConnected, view.StatusClass)
	require.Equal(t, "0x1234...5678", view.Address)
	require.Equal(t, testAddress, view.AddressFull)
	require.Equal(t, "Fuji Testnet", view.Network)
	require.True(t, view.NetworkCorrect)
	require.Equal(t, "1.0000 AVAX", view.Balance)
	require.Equal(t, entity.ButtonConnected, view.ButtonText)
	require.True(t, view.ButtonDisabled)
	require.False(t, view.BannerVisible)
}

func TestConnectAcceptsDecimalChainID(t *testing.T) {
	w := newFakeWallet()
	w.respond(port.MethodChainID, "43113")
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	view, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.StateConnected, view.State)
}

func TestConnectRequestsBalanceOfFirstAccount(t *testing.T) {
	w := newFakeWallet()
	w.respond(port.MethodRequestAccounts, []string{otherAddress, testAddress})
	var gotParams []any
	w.handle(port.MethodGetBalance, func(params []any) (any, error) {
		gotParams = params
		return "0x0", nil
	})
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	view, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, []any{otherAddress, "latest"}, gotParams)
	require.Equal(t, "0.0000 AVAX", view.Balance)
	require.Equal(t, "0xabcd...abcd", view.Address)
}

func TestConnectOnWrongChain(t *testing.T) {
	w := newFakeWallet()
	w.respond(port.MethodChainID, mainChainID)
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	view, err := c.Connect(context.Background())
	require.ErrorIs(t, err, entity.ErrWrongNetwork)
	require.Equal(t, entity.StateWrongNetwork, view.State)
	require.Equal(t, "Wrong Network", view.Status)
	require.Equal(t, entity.BadgeClassDisconnected, view.StatusClass)
	require.Equal(t, entity.NetworkWrongText, view.Network)
	require.False(t, view.NetworkCorrect)
	require.Equal(t, entity.Placeholder, view.Balance)
	require.Equal(t, "0x1234...5678", view.Address)
	require.Equal(t, entity.ButtonConnect, view.ButtonText)
	require.False(t, view.ButtonDisabled)
	require.Equal(t, "Please switch to Avalanche Fuji Testnet in your wallet.", view.Banner)
	require.Zero(t, w.callCount(port.MethodGetBalance))
}

func TestConnectUserRejected(t *testing.T) {
	w := newFakeWallet()
	w.fail(port.MethodRequestAccounts, &entity.ProviderError{
		Method: port.MethodRequestAccounts, Code: entity.CodeUserRejected, Message: "User rejected the request.",
	})
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	view, err := c.Connect(context.Background())
	require.Error(t, err)
	require.Equal(t, entity.KindUserRejected, entity.ClassifyError(err))
	require.Equal(t, entity.StateFailed, view.State)
	require.Equal(t, "Failed", view.Status)
	require.Equal(t, entity.ButtonConnect, view.ButtonText)
	require.False(t, view.ButtonDisabled)
	require.Equal(t, "Connection rejected. Please approve the connection request.", view.Banner)
	require.Equal(t, entity.Placeholder, view.Address)
}

func TestConnectGenericFailure(t *testing.T) {
	cases := map[string]func(w *fakeWallet){
		"accounts error": func(w *fakeWallet) {
			w.fail(port.MethodRequestAccounts, &entity.ProviderError{Code: -32603, Message: "internal"})
		},
		"empty accounts": func(w *fakeWallet) {
			w.respond(port.MethodRequestAccounts, []string{})
		},
		"chain id error": func(w *fakeWallet) {
			w.fail(port.MethodChainID, errors.New("transport closed"))
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			w := newFakeWallet()
			setup(w)
			c, _ := newTestConnector(t, w, ConnectorOptions{})

			view, err := c.Connect(context.Background())
			require.Error(t, err)
			require.Equal(t, entity.StateFailed, view.State)
			require.Equal(t, "Failed to connect wallet. Please try again.", view.Banner)
			require.Equal(t, entity.ButtonConnect, view.ButtonText)
		})
	}
}

func TestConnectBalanceFailureShowsError(t *testing.T) {
	w := newFakeWallet()
	w.fail(port.MethodGetBalance, errors.New("rpc down"))
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	view, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.StateConnected, view.State)
	require.Equal(t, entity.BalanceErrorText, view.Balance)
	require.Equal(t, entity.ButtonConnected, view.ButtonText)
	require.False(t, view.BannerVisible)
}

func TestConnectMalformedBalance(t *testing.T) {
	w := newFakeWallet()
	w.respond(port.MethodGetBalance, "not-hex")
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	view, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.BalanceErrorText, view.Balance)
}

func TestConnectWhenAlreadyConnectedIsNoop(t *testing.T) {
	w := newFakeWallet()
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	_, err := c.Connect(context.Background())
	require.NoError(t, err)
	_, err = c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, w.callCount(port.MethodRequestAccounts))
}

func TestRetryAfterRejection(t *testing.T) {
	w := newFakeWallet()
	w.fail(port.MethodRequestAccounts, &entity.ProviderError{Code: entity.CodeUserRejected, Message: "no"})
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	_, err := c.Connect(context.Background())
	require.Error(t, err)

	w.respond(port.MethodRequestAccounts, []string{testAddress})
	view, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.StateConnected, view.State)
}

func TestOverlappingConnectsShareOneAttempt(t *testing.T) {
	w := newFakeWallet()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	w.handle(port.MethodRequestAccounts, func([]any) (any, error) {
		once.Do(func() { close(entered) })
		<-release
		return []string{testAddress}, nil
	})
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	var wg sync.WaitGroup
	var failures atomic.Int32
	connect := func() {
		defer wg.Done()
		if _, err := c.Connect(context.Background()); err != nil {
			failures.Add(1)
		}
	}

	wg.Add(1)
	go connect()
	<-entered

	// The view stays readable while the wallet prompt is open.
	view := c.View()
	require.Equal(t, entity.StateConnecting, view.State)
	require.Equal(t, entity.ButtonConnecting, view.ButtonText)

	wg.Add(1)
	go connect()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Zero(t, failures.Load())
	require.Equal(t, 1, w.callCount(port.MethodRequestAccounts))
	require.Equal(t, entity.StateConnected, c.View().State)
}

func TestChainChangedBeforeConnectIsIgnored(t *testing.T) {
	w := newFakeWallet()
	c, _ := newTestConnector(t, w, ConnectorOptions{})

	w.EmitChainChanged(mainChainID)
	require.Equal(t, entity.NewDisconnectedView(), c.View())

	w.EmitChainChanged(fujiChainID)
	require.Equal(t, entity.NewDisconnectedView(), c.View())
	require.Zero(t, w.callCount(port.MethodAccounts))
}

func TestChainChangedAfterConnect(t *testing.T) {
	w := newFakeWallet()
	c, _ := newTestConnector(t, w, ConnectorOptions{})
	_, err := c.Connect(context.Background())
	require.NoError(t, err)

	w.EmitChainChanged(mainChainID)
	view := c.View()
	require.Equal(t, entity.StateWrongNetwork, view.State)
	require.Equal(t, entity.NetworkWrongText, view.Network)
	require.Equal(t, entity.Placeholder, view.Balance)
	require.Equal(t, entity.ButtonConnect, view.ButtonText)
	require.False(t, view.ButtonDisabled)
	require.Equal(t, "Please switch to Avalanche Fuji Testnet.", view.Banner)

	w.respond(port.MethodGetBalance, "0x1bc16d674ec80000")
	w.EmitChainChanged(fujiChainID)
	view = c.View()
	require.Equal(t, entity.StateConnected, view.State)
	require.Equal(t, "Fuji Testnet", view.Network)
	require.True(t, view.NetworkCorrect)
	require.Equal(t, "2.0000 AVAX", view.Balance)
	require.Equal(t, entity.ButtonConnected, view.ButtonText)
	require.True(t, view.ButtonDisabled)
	require.Equal(t, 1, w.callCount(port.MethodAccounts))
}

func TestChainChangedIgnoredAfterWrongNetworkConnect(t *testing.T) {
	w := newFakeWallet()
	w.respond(port.MethodChainID, mainChainID)
	c, _ := newTestConnector(t, w, ConnectorOptions{})
	_, err := c.Connect(context.Background())
	require.ErrorIs(t, err, entity.ErrWrongNetwork)
	before := c.View()

	w.EmitChainChanged(fujiChainID)
	after := c.View()
	require.Equal(t, before, after)
	require.Equal(t, entity.StateWrongNetwork, after.State)
	require.Equal(t, entity.Placeholder, after.Balance)
	require.Zero(t, w.callCount(port.MethodAccounts))
	require.Zero(t, w.callCount(port.MethodGetBalance))

	// A new connect on the accepted chain starts the session.
	w.respond(port.MethodChainID, fujiChainID)
	view, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.StateConnected, view.State)
}

func TestAccountsChangedEmptyDisconnects(t *testing.T) {
	w := newFakeWallet()
	c, _ := newTestConnector(t, w, ConnectorOptions{})
	_, err := c.Connect(context.Background())
	require.NoError(t, err)

	w.EmitAccountsChanged(nil)
	view := c.View()
	require.Equal(t, entity.StateDisconnected, view.State)
	require.Equal(t, entity.Placeholder, view.Address)
	require.Empty(t, view.AddressFull)
	require.Equal(t, entity.Placeholder, view.Network)
	require.Equal(t, entity.Placeholder, view.Balance)
	require.Equal(t, entity.ButtonConnect, view.ButtonText)
	require.False(t, view.ButtonDisabled)
	require.Equal(t, "Wallet disconnected.", view.Banner)

	// Chain changes are ignored again until the next connect.
	w.EmitChainChanged(fujiChainID)
	require.Equal(t, entity.StateDisconnected, c.View().State)
}

func TestAccountsChangedSwitchesAccount(t *testing.T) {
	w := newFakeWallet()
	c, _ := newTestConnector(t, w, ConnectorOptions{})
	_, err := c.Connect(context.Background())
	require.NoError(t, err)

	w.handle(port.MethodGetBalance, func(params []any) (any, error) {
		if params[0] == otherAddress {
			return "0x0", nil
		}
		return oneAVAX, nil
	})
	w.EmitAccountsChanged([]string{otherAddress})

	view := c.View()
	require.Equal(t, "0xabcd...abcd", view.Address)
	require.Equal(t, otherAddress, view.AddressFull)
	require.Equal(t, "0.0000 AVAX", view.Balance)
	require.Equal(t, entity.StateConnected, view.State)
}

func TestAccountsChangedOnWrongChainSkipsBalance(t *testing.T) {
	w := newFakeWallet()
	w.respond(port.MethodChainID, mainChainID)
	c, _ := newTestConnector(t, w, ConnectorOptions{})
	_, _ = c.Connect(context.Background())

	w.EmitAccountsChanged([]string{otherAddress})
	view := c.View()
	require.Equal(t, otherAddress, view.AddressFull)
	require.Equal(t, entity.Placeholder, view.Balance)
	require.Zero(t, w.callCount(port.MethodGetBalance))
}

func TestCopyAddress(t *testing.T) {
	w := newFakeWallet()
	c, clip := newTestConnector(t, w, ConnectorOptions{CopyConfirm: 50 * time.Millisecond})

	copied, err := c.CopyAddress(context.Background())
	require.NoError(t, err)
	require.False(t, copied)
	require.Empty(t, clip.Text())

	_, err = c.Connect(context.Background())
	require.NoError(t, err)

	copied, err = c.CopyAddress(context.Background())
	require.NoError(t, err)
	require.True(t, copied)
	require.Equal(t, testAddress, clip.Text())
	require.Equal(t, entity.AddressCopiedText, c.View().Address)

	require.Eventually(t, func() bool {
		return c.View().Address == "0x1234...5678"
	}, time.Second, 10*time.Millisecond)
}

type failingClipboard struct{}

func (failingClipboard) WriteText(context.Context, string) error {
	return errors.New("clipboard unavailable")
}

func TestCopyAddressClipboardFailure(t *testing.T) {
	w := newFakeWallet()
	c := NewWalletConnector(w, failingClipboard{}, networkdefinition.Fuji, ConnectorOptions{}, logger.NewNop(), nil)
	defer c.Close()
	_, err := c.Connect(context.Background())
	require.NoError(t, err)

	copied, err := c.CopyAddress(context.Background())
	require.Error(t, err)
	require.False(t, copied)
	require.Equal(t, "0x1234...5678", c.View().Address)
}

func TestBannerExpires(t *testing.T) {
	c, _ := newTestConnector(t, nil, ConnectorOptions{BannerDuration: 50 * time.Millisecond})

	view, _ := c.Connect(context.Background())
	require.True(t, view.BannerVisible)

	require.Eventually(t, func() bool {
		v := c.View()
		return !v.BannerVisible && v.Banner == ""
	}, time.Second, 10*time.Millisecond)
}

func TestLaterBannerReplacesEarlier(t *testing.T) {
	w := newFakeWallet()
	w.respond(port.MethodChainID, mainChainID)
	c, _ := newTestConnector(t, w, ConnectorOptions{})
	_, _ = c.Connect(context.Background())

	w.EmitAccountsChanged([]string{})
	require.Equal(t, "Wallet disconnected.", c.View().Banner)
}

func TestCloseStopsEventHandling(t *testing.T) {
	w := newFakeWallet()
	c, _ := newTestConnector(t, w, ConnectorOptions{})
	_, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, w.Len())

	c.Close()
	require.Zero(t, w.Len())

	w.EmitAccountsChanged(nil)
	require.Equal(t, entity.StateConnected, c.View().State)
}

func TestEventsWithoutProviderAreIgnored(t *testing.T) {
	c, _ := newTestConnector(t, nil, ConnectorOptions{})
	c.OnAccountsChanged([]string{testAddress})
	c.OnChainChanged(fujiChainID)
	require.Equal(t, entity.NewDisconnectedView(), c.View())
}

func TestBalanceUsesNetworkDecimals(t *testing.T) {
	network := networkdefinition.Fuji
	network.Decimals = 6
	network.NativeSymbol = "TST"

	w := newFakeWallet()
	w.respond(port.MethodGetBalance, "0x1e8480") // 2_000_000
	c := NewWalletConnector(w, &clipboard.MemoryClipboard{}, network, ConnectorOptions{}, logger.NewNop(), nil)
	defer c.Close()

	view, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2.0000 TST", view.Balance)
}
