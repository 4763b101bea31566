package port

import "context"

// Provider request methods consumed by the connector.
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainID         = "eth_chainId"
	MethodGetBalance      = "eth_getBalance"
)

// Provider events.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// Subscription is a registered event handler. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// WalletProvider is the wallet's EIP-1193 style surface: request/response calls plus
// account and chain change notifications.
type WalletProvider interface {
	// Request performs a provider call and decodes its result into result (a pointer).
	// Failures reported by the wallet are returned as *entity.ProviderError.
	Request(ctx context.Context, method string, params []any, result any) error

	// OnAccountsChanged registers a handler for the accountsChanged event.
	OnAccountsChanged(handler func(accounts []string)) Subscription

	// OnChainChanged registers a handler for the chainChanged event.
	OnChainChanged(handler func(chainID string)) Subscription

	// Close releases the connection to the wallet and stops event delivery.
	Close() error
}
