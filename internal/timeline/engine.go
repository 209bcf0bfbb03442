package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/store"
	"github.com/matheus3301/weibo/internal/weibo"
	"go.uber.org/zap"
)

// KindCached is published after a fetched page has been written to the cache.
const KindCached = "timeline.cached"

// DefaultKeep is how many statuses the cache retains.
const DefaultKeep = 500

// CachedPayload reports one ingested page.
type CachedPayload struct {
	Count    int
	NewestID int64
	OldestID int64
}

// Engine handles idempotent ingestion of fetched statuses into the store.
// It subscribes to "timeline.*" events on the bus and processes them.
type Engine struct {
	db     *store.DB
	bus    *bus.Bus
	cursor *Cursor
	logger *zap.Logger
	keep   int
	cancel context.CancelFunc
}

// NewEngine creates a new timeline engine.
func NewEngine(db *store.DB, b *bus.Bus, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		db:     db,
		bus:    b,
		cursor: NewCursor(db),
		logger: logger,
		keep:   DefaultKeep,
	}
}

// Cursor returns the engine's cursor tracker.
func (e *Engine) Cursor() *Cursor {
	return e.cursor
}

// Start subscribes to fetched timeline pages on the bus.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	ch, unsub := e.bus.Subscribe("timeline.", 64)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				e.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the engine.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) handleEvent(evt bus.Event) {
	if evt.Kind != bus.KindTimeline {
		return
	}
	page, ok := evt.Payload.(bus.TimelinePayload)
	if !ok {
		return
	}
	n, err := e.IngestPage(page.Statuses)
	if err != nil {
		e.logger.Error("failed to ingest timeline page", zap.Error(err), zap.Int("count", len(page.Statuses)))
		return
	}
	e.logger.Debug("timeline page ingested", zap.Int("statuses", n))
}

// IngestPage writes a page of raw status objects in one transaction.
// Items that do not decode or carry no id are skipped.
func (e *Engine) IngestPage(raws [][]byte) (int, error) {
	if len(raws) == 0 {
		return 0, nil
	}

	tx, err := e.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixMilli()
	var (
		count          int
		newest, oldest int64
	)
	for _, raw := range raws {
		s, err := weibo.DecodeStatus(raw)
		if err != nil || s.ID == 0 {
			e.logger.Warn("skipping undecodable status", zap.Error(err))
			continue
		}
		var created int64
		if t := s.Created(); !t.IsZero() {
			created = t.UnixMilli()
		}
		cs := &store.CachedStatus{ID: s.ID, ScreenName: s.ScreenName(), Raw: raw, CreatedAt: created, FetchedAt: now}
		if err := store.UpsertStatus(tx, cs); err != nil {
			return 0, fmt.Errorf("upsert status %d: %w", s.ID, err)
		}
		count++
		if s.ID > newest {
			newest = s.ID
		}
		if oldest == 0 || s.ID < oldest {
			oldest = s.ID
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit page: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if pruned, err := e.db.PruneStatuses(e.keep); err != nil {
		e.logger.Warn("failed to prune cache", zap.Error(err))
	} else if pruned > 0 {
		e.logger.Debug("cache pruned", zap.Int64("removed", pruned))
	}

	e.bus.Emit(KindCached, CachedPayload{Count: count, NewestID: newest, OldestID: oldest})
	return count, nil
}
