package walletprovider

import (
	"sync"

	"wallet_connector/internal/app/port"
)

// EventHub keeps the accountsChanged and chainChanged handlers of a provider.
// Handlers run on the emitting goroutine in registration order.
type EventHub struct {
	mu       sync.Mutex
	nextID   uint64
	accounts []accountsHandler
	chains   []chainHandler
}

type accountsHandler struct {
	id uint64
	fn func([]string)
}

type chainHandler struct {
	id uint64
	fn func(string)
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{}
}

// OnAccountsChanged registers handler for accountsChanged.
func (h *EventHub) OnAccountsChanged(handler func(accounts []string)) port.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.accounts = append(h.accounts, accountsHandler{id: id, fn: handler})
	return &subscription{unsubscribe: func() { h.removeAccounts(id) }}
}

// OnChainChanged registers handler for chainChanged.
func (h *EventHub) OnChainChanged(handler func(chainID string)) port.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.chains = append(h.chains, chainHandler{id: id, fn: handler})
	return &subscription{unsubscribe: func() { h.removeChain(id) }}
}

// EmitAccountsChanged delivers accounts to every registered handler.
func (h *EventHub) EmitAccountsChanged(accounts []string) {
	h.mu.Lock()
	handlers := make([]accountsHandler, len(h.accounts))
	copy(handlers, h.accounts)
	h.mu.Unlock()

	for _, handler := range handlers {
		// Каждому обработчику своя копия среза.
		cp := make([]string, len(accounts))
		copy(cp, accounts)
		handler.fn(cp)
	}
}

// EmitChainChanged delivers chainID to every registered handler.
func (h *EventHub) EmitChainChanged(chainID string) {
	h.mu.Lock()
	handlers := make([]chainHandler, len(h.chains))
	copy(handlers, h.chains)
	h.mu.Unlock()

	for _, handler := range handlers {
		handler.fn(chainID)
	}
}

// Len returns the number of registered handlers.
func (h *EventHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.accounts) + len(h.chains)
}

func (h *EventHub) removeAccounts(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, handler := range h.accounts {
		if handler.id == id {
			h.accounts = append(h.accounts[:i:i], h.accounts[i+1:]...)
			return
		}
	}
}

func (h *EventHub) removeChain(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, handler := range h.chains {
		if handler.id == id {
			h.chains = append(h.chains[:i:i], h.chains[i+1:]...)
			return
		}
	}
}

type subscription struct {
	once        sync.Once
	unsubscribe func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.unsubscribe)
}
