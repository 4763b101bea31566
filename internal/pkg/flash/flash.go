// Package flash keeps short-lived display messages such as error banners and copy
// confirmations. A message disappears once its duration has elapsed.
package flash

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Store holds flash messages keyed by slot.
type Store struct {
	c *cache.Cache
}

// NewStore creates a store that purges expired messages every cleanupInterval.
// A non-positive interval disables the janitor; expired messages are still hidden on read.
func NewStore(cleanupInterval time.Duration) *Store {
	if cleanupInterval <= 0 {
		cleanupInterval = -1
	}
	return &Store{c: cache.New(cache.NoExpiration, cleanupInterval)}
}

// Show displays msg in slot for d, replacing whatever the slot held.
func (s *Store) Show(slot, msg string, d time.Duration) {
	if d <= 0 {
		s.c.Delete(slot)
		return
	}
	s.c.Set(slot, msg, d)
}

// Get returns the message in slot if it has not expired.
func (s *Store) Get(slot string) (string, bool) {
	v, ok := s.c.Get(slot)
	if !ok {
		return "", false
	}
	msg, ok := v.(string)
	return msg, ok
}

// Clear removes the message in slot.
func (s *Store) Clear(slot string) {
	s.c.Delete(slot)
}
