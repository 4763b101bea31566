package clipboard

import (
	"context"
	"fmt"
	"sync"

	"wallet_connector/internal/app/port"

	sysclipboard "github.com/atotto/clipboard"
)

// Kinds accepted in configuration.
const (
	KindMemory = "memory"
	KindSystem = "system"
)

// New returns the clipboard for kind. Unknown kinds fall back to memory.
func New(kind string) port.Clipboard {
	if kind == KindSystem {
		return SystemClipboard{}
	}
	return &MemoryClipboard{}
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteText implements port.Clipboard.
func (SystemClipboard) WriteText(_ context.Context, text string) error {
	if sysclipboard.Unsupported {
		return fmt.Errorf("system clipboard is not available on this host")
	}
	if err := sysclipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write system clipboard: %w", err)
	}
	return nil
}

// MemoryClipboard keeps the last copied text in memory.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// WriteText implements port.Clipboard.
func (c *MemoryClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	return nil
}

// Text returns the last copied text.
func (c *MemoryClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}
