package port

import (
	"context"

	"wallet_connector/internal/domain/entity"
)

// WalletConnector is the controller behind the wallet card.
type WalletConnector interface {
	// Connect requests accounts and verifies the active chain.
	Connect(ctx context.Context) (entity.WalletView, error)

	// OnAccountsChanged applies an accountsChanged notification. An empty list disconnects.
	OnAccountsChanged(accounts []string)

	// OnChainChanged applies a chainChanged notification. It is ignored until a connect
	// has succeeded on the accepted chain.
	OnChainChanged(chainID string)

	// CopyAddress copies the full connected address. It reports false when no address is set.
	CopyAddress(ctx context.Context) (bool, error)

	// View returns the current display model.
	View() entity.WalletView

	// Network returns the accepted network.
	Network() entity.NetworkDefinition

	// Close unsubscribes from provider events.
	Close()
}
