// Package keyring holds API credentials for the REST client. It supports
// multiple key pairs with manual rotation and guarantees that key material
// is masked in any string representation.
package keyring

import (
	"fmt"
	"sync"
	"time"

	"mbx/pkg/core"
)

// Entry is a single credential pair tracked by the ring.
type Entry struct {
	// ID names the entry for enable/disable bookkeeping.
	ID string
	// Credentials is the key pair used for signing and the API key header.
	Credentials core.Credentials
	// Disabled removes the entry from rotation without deleting it.
	Disabled bool
	// LastUsed is the last time the entry was handed out for a request.
	LastUsed time.Time
}

// String returns a masked representation safe for logging.
func (e *Entry) String() string {
	return fmt.Sprintf("Entry{ID:%s, Key:%s}", e.ID, core.MaskKey(e.Credentials.APIKey))
}

// Ring is a thread-safe set of credential entries. A nil or empty ring is
// valid and represents an unauthenticated client.
type Ring struct {
	mu      sync.RWMutex
	entries []*Entry
	current int
}

// New builds a ring from the given entries. Entries are copied so callers
// cannot mutate ring state afterwards.
func New(entries ...*Entry) *Ring {
	copied := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		dup := *e
		copied = append(copied, &dup)
	}
	return &Ring{entries: copied}
}

// FromCredentials builds a single-entry ring, or an empty ring when creds
// is nil.
func FromCredentials(creds *core.Credentials) *Ring {
	if creds == nil {
		return New()
	}
	return New(&Entry{ID: "default", Credentials: *creds})
}

// Current returns the active entry, skipping disabled ones, or nil when no
// usable entry exists.
func (r *Ring) Current() *Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := 0; i < len(r.entries); i++ {
		idx := (r.current + i) % len(r.entries)
		if !r.entries[idx].Disabled {
			return r.entries[idx]
		}
	}
	return nil
}

// Rotate advances to the next enabled entry.
func (r *Ring) Rotate() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return
	}
	start := r.current
	for {
		r.current = (r.current + 1) % len(r.entries)
		if !r.entries[r.current].Disabled || r.current == start {
			return
		}
	}
}

// MarkUsed records the time the current entry was used.
func (r *Ring) MarkUsed() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) > 0 {
		r.entries[r.current].LastUsed = time.Now()
	}
}

// Disable removes the named entry from rotation.
func (r *Ring) Disable(id string) {
	r.setDisabled(id, true)
}

// Enable returns the named entry to rotation.
func (r *Ring) Enable(id string) {
	r.setDisabled(id, false)
}

func (r *Ring) setDisabled(id string, disabled bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ID == id {
			e.Disabled = disabled
			return
		}
	}
}

// Len returns the number of entries, enabled or not.
func (r *Ring) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
