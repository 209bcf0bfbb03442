package api

import (
	"context"
	"encoding/json"

	"github.com/matheus3301/weibo/internal/account"
	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/status"
	"github.com/matheus3301/weibo/internal/store"
	"github.com/matheus3301/weibo/internal/timeline"
	"github.com/matheus3301/weibo/internal/weibo"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// StatusLister is the home-timeline call of the API client.
type StatusLister interface {
	StatusList(ctx context.Context, acct *weibo.Account, sinceID, maxID int64) ([]weibo.Dict, error)
}

// TimelineService implements the TimelineService gRPC service.
type TimelineService struct {
	lister  StatusLister
	holder  *account.Holder
	machine *status.Machine
	db      *store.DB
	cursor  *timeline.Cursor
	bus     *bus.Bus
	logger  *zap.Logger

	// Report receives every StatusList outcome.
	Report Reporter
	// OnRefresh runs after a successful top-of-timeline fetch.
	OnRefresh func()
}

// NewTimelineService creates a new timeline service.
func NewTimelineService(lister StatusLister, holder *account.Holder, machine *status.Machine, db *store.DB, cursor *timeline.Cursor, b *bus.Bus, logger *zap.Logger) *TimelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineService{
		lister:  lister,
		holder:  holder,
		machine: machine,
		db:      db,
		cursor:  cursor,
		bus:     b,
		logger:  logger,
	}
}

// FetchStatuses loads one page from the API and hands it to the cache engine.
func (s *TimelineService) FetchStatuses(ctx context.Context, req *rpc.FetchStatusesRequest) (*rpc.FetchStatusesResponse, error) {
	if err := requireServing(s.machine); err != nil {
		return nil, err
	}
	if req.SinceID < 0 || req.MaxID < 0 {
		return nil, grpcstatus.Error(codes.InvalidArgument, "ids must not be negative")
	}

	list, err := s.lister.StatusList(ctx, s.holder.Get(), req.SinceID, req.MaxID)
	s.Report.report(err)
	if err != nil {
		s.logger.Warn("home timeline failed", zap.Int64("since_id", req.SinceID), zap.Int64("max_id", req.MaxID), zap.Error(err))
		return nil, toStatus("home timeline", err)
	}

	resp := &rpc.FetchStatusesResponse{Present: list != nil, Statuses: []json.RawMessage{}}
	page := make([][]byte, 0, len(list))
	for _, d := range list {
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, grpcstatus.Errorf(codes.Internal, "encode status: %v", err)
		}
		resp.Statuses = append(resp.Statuses, raw)
		page = append(page, raw)
	}

	if len(page) > 0 {
		s.bus.Emit(bus.KindTimeline, bus.TimelinePayload{Statuses: page})
	}
	if req.MaxID == 0 && s.OnRefresh != nil {
		s.OnRefresh()
	}
	return resp, nil
}

// ListCached returns cached statuses, newest first, for offline display.
func (s *TimelineService) ListCached(_ context.Context, req *rpc.ListCachedRequest) (*rpc.ListCachedResponse, error) {
	cached, err := s.db.ListStatuses(req.Limit)
	if err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "list cached: %v", err)
	}
	resp := &rpc.ListCachedResponse{Statuses: make([]json.RawMessage, 0, len(cached))}
	for _, c := range cached {
		resp.Statuses = append(resp.Statuses, json.RawMessage(c.Raw))
	}
	if s.cursor != nil {
		resp.NewestID, resp.OldestID, _ = s.cursor.Range()
	}
	return resp, nil
}
