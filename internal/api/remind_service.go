package api

import (
	"context"

	"github.com/matheus3301/weibo/internal/rpc"
)

// UnreadSource reports the last known unread count.
type UnreadSource interface {
	Unread() (count int, known bool)
}

// RemindService implements the RemindService gRPC service.
type RemindService struct {
	src UnreadSource
}

// NewRemindService creates a new remind service.
func NewRemindService(src UnreadSource) *RemindService {
	return &RemindService{src: src}
}

func (s *RemindService) GetUnread(_ context.Context, _ *rpc.GetUnreadRequest) (*rpc.GetUnreadResponse, error) {
	n, known := s.src.Unread()
	return &rpc.GetUnreadResponse{Count: n, Known: known}, nil
}
