// Package account keeps the signed-in Weibo account for a daemon session.
package account

import (
	"context"
	"sync"

	"github.com/matheus3301/weibo/internal/weibo"
)

// Store persists the account row.
type Store interface {
	SaveAccount(ctx context.Context, a *weibo.Account) error
	LoadAccount(ctx context.Context) (*weibo.Account, error)
	DeleteAccount(ctx context.Context) error
}

// Holder is the session's account, shared by every component that issues
// authenticated requests. It implements weibo.AccountSaver.
type Holder struct {
	mu    sync.RWMutex
	acct  *weibo.Account
	store Store
}

// NewHolder creates an empty holder backed by s.
func NewHolder(s Store) *Holder {
	return &Holder{store: s}
}

// Load reads the persisted account into memory.
func (h *Holder) Load(ctx context.Context) (*weibo.Account, error) {
	a, err := h.store.LoadAccount(ctx)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.acct = a
	h.mu.Unlock()
	return a.Clone(), nil
}

// Get returns a copy of the current account, or an empty one when nobody
// has signed in. Never nil.
func (h *Holder) Get() *weibo.Account {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.acct == nil {
		return &weibo.Account{}
	}
	return h.acct.Clone()
}

// LoggedIn reports whether the held account has a live token.
func (h *Holder) LoggedIn() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.acct.IsLoggedIn()
}

// SaveAccount persists a and makes it current.
func (h *Holder) SaveAccount(ctx context.Context, a *weibo.Account) error {
	if err := h.store.SaveAccount(ctx, a); err != nil {
		return err
	}
	h.mu.Lock()
	h.acct = a.Clone()
	h.mu.Unlock()
	return nil
}

// Clear forgets the account in memory and on disk.
func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.acct = nil
	h.mu.Unlock()
	return h.store.DeleteAccount(ctx)
}
