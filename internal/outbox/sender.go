package outbox

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"time"

	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/store"
	"github.com/matheus3301/weibo/internal/weibo"
	"go.uber.org/zap"
)

// DefaultInterval is how often the outbox is polled when nobody calls Notify.
const DefaultInterval = 2 * time.Second

// Poster publishes one status, with an optional picture.
//
//go:generate mockgen -source=sender.go -destination=mocks/poster.go -package=mocks
type Poster interface {
	Post(ctx context.Context, text string, img image.Image) (serverID string, err error)
}

// Sender drains the outbox and posts queued statuses.
type Sender struct {
	db     *store.DB
	poster Poster
	bus    *bus.Bus
	logger *zap.Logger

	// Ready gates each drain; nil means always ready.
	Ready func() bool
	// Report receives the outcome of every post attempt.
	Report func(err error)
	// Count is called with "sent" or "failed" after each attempt.
	Count func(result string)

	mu       sync.Mutex // one drain or discard at a time
	interval time.Duration
	wake     chan struct{}
	cancel   context.CancelFunc
}

// NewSender creates a new outbox sender.
func NewSender(db *store.DB, poster Poster, b *bus.Bus, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		db:       db,
		poster:   poster,
		bus:      b,
		logger:   logger,
		interval: DefaultInterval,
		wake:     make(chan struct{}, 1),
	}
}

// Start requeues interrupted posts and begins polling the outbox.
func (s *Sender) Start(ctx context.Context) {
	if n, err := s.db.ResetSendingOutbox(); err != nil {
		s.logger.Error("failed to reset interrupted posts", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("requeued interrupted posts", zap.Int64("count", n))
	}
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
}

// Stop stops the sender loop.
func (s *Sender) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Notify wakes the loop so a freshly queued post goes out without waiting
// for the next tick.
func (s *Sender) Notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Sender) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processPending(ctx)
		case <-s.wake:
			s.processPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Discard fails every queued post with reason, e.g. on logout so nothing
// goes out under the next account. A drain in progress finishes first.
func (s *Sender) Discard(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.db.FailQueuedOutbox(reason)
	if err != nil {
		s.logger.Error("failed to discard queued posts", zap.Error(err))
		return
	}
	for _, id := range ids {
		if s.Count != nil {
			s.Count(store.OutboxFailed)
		}
		s.bus.Emit(bus.KindPostFailed, bus.PostPayload{ClientID: id, Error: reason})
	}
	if len(ids) > 0 {
		s.logger.Info("discarded queued posts", zap.Int("count", len(ids)), zap.String("reason", reason))
	}
}

func (s *Sender) processPending(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Ready != nil && !s.Ready() {
		return
	}
	pending, err := s.db.PendingOutbox()
	if err != nil {
		s.logger.Error("failed to read outbox", zap.Error(err))
		return
	}

	for _, entry := range pending {
		if ctx.Err() != nil {
			return
		}
		if !s.send(ctx, entry) {
			// Token expired: leave the rest queued until the next login.
			return
		}
	}
}

// send posts one entry. It returns false when draining should stop.
func (s *Sender) send(ctx context.Context, entry store.OutboxEntry) bool {
	log := s.logger.With(zap.String("client_id", entry.ClientID))
	if err := s.db.MarkOutboxSending(entry.ClientID); err != nil {
		log.Error("failed to mark sending", zap.Error(err))
		return true
	}

	var img image.Image
	if entry.ImagePath != "" {
		var err error
		img, err = LoadImage(entry.ImagePath)
		if err != nil {
			s.fail(entry, err)
			return true
		}
	}

	serverID, err := s.poster.Post(ctx, entry.Text, img)
	if s.Report != nil {
		s.Report(err)
	}
	if err != nil {
		if weibo.IsTokenExpired(err) || errors.Is(err, weibo.ErrNotLoggedIn) {
			log.Warn("post deferred until re-login", zap.Error(err))
			_ = s.db.RequeueOutbox(entry.ClientID, err.Error())
			return false
		}
		s.fail(entry, err)
		return true
	}

	if err := s.db.MarkOutboxSent(entry.ClientID, serverID); err != nil {
		log.Error("failed to mark sent", zap.Error(err))
	}
	if s.Count != nil {
		s.Count(store.OutboxSent)
	}
	log.Info("status posted", zap.String("server_id", serverID), zap.Bool("picture", img != nil))
	s.bus.Emit(bus.KindPostAck, bus.PostPayload{ClientID: entry.ClientID, ServerID: serverID})
	return true
}

func (s *Sender) fail(entry store.OutboxEntry, err error) {
	s.logger.Error("failed to post status", zap.Error(err), zap.String("client_id", entry.ClientID))
	_ = s.db.MarkOutboxFailed(entry.ClientID, err.Error())
	if s.Count != nil {
		s.Count(store.OutboxFailed)
	}
	s.bus.Emit(bus.KindPostFailed, bus.PostPayload{ClientID: entry.ClientID, Error: err.Error()})
}

// LoadImage decodes a PNG, JPEG or GIF file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open picture: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode picture %s: %w", path, err)
	}
	return img, nil
}
