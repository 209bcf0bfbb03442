// Package remind polls the unread-status counter.
package remind

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/store"
	"github.com/matheus3301/weibo/internal/weibo"
	"go.uber.org/zap"
)

// Counter is the unread-count call of the API client.
type Counter interface {
	UnreadCount(ctx context.Context, acct *weibo.Account) (count int, ok bool)
}

// Poller periodically fetches the unread count for the session account.
type Poller struct {
	counter  Counter
	account  func() *weibo.Account
	db       *store.DB
	bus      *bus.Bus
	interval time.Duration
	logger   *zap.Logger

	// Gauge, when set, receives every known count.
	Gauge func(n int)

	mu     sync.RWMutex
	last   int
	known  bool
	cancel context.CancelFunc
}

// NewPoller creates a poller. account is called before every poll so a new
// login is picked up without restarting.
func NewPoller(counter Counter, account func() *weibo.Account, db *store.DB, b *bus.Bus, interval time.Duration, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		counter:  counter,
		account:  account,
		db:       db,
		bus:      b,
		interval: interval,
		logger:   logger,
	}
}

// Start restores the last stored count and begins polling.
func (p *Poller) Start(ctx context.Context) {
	if n, ok, err := p.db.GetInt(store.KeyUnreadCount); err == nil && ok {
		p.set(n)
	}
	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)
}

// Stop stops polling.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Poller) loop(ctx context.Context) {
	p.Poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.Poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Poll performs one unread check. Accounts without a uid are skipped
// entirely: nothing is stored or published.
func (p *Poller) Poll(ctx context.Context) {
	count, ok := p.counter.UnreadCount(ctx, p.account())
	if !ok {
		return
	}
	p.set(count)
	if err := p.db.SetState(store.KeyUnreadCount, strconv.Itoa(count)); err != nil {
		p.logger.Warn("failed to store unread count", zap.Error(err))
	}
	p.bus.Emit(bus.KindUnread, bus.UnreadPayload{Count: count})
}

// Unread returns the last count and whether one has ever been observed.
func (p *Poller) Unread() (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.known
}

// Reset forgets the last count, e.g. after the timeline was refreshed.
func (p *Poller) Reset() {
	p.set(0)
	_ = p.db.SetState(store.KeyUnreadCount, "0")
}

func (p *Poller) set(n int) {
	p.mu.Lock()
	p.last, p.known = n, true
	p.mu.Unlock()
	if p.Gauge != nil {
		p.Gauge(n)
	}
}
