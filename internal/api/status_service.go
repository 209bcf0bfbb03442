package api

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/status"
	"github.com/matheus3301/weibo/internal/store"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// StatusService implements the StatusService gRPC service.
type StatusService struct {
	db      *store.DB
	machine *status.Machine
	logger  *zap.Logger

	// Queued is called after a post is written to the outbox.
	Queued func()
}

// NewStatusService creates a new status service backed by the outbox.
func NewStatusService(db *store.DB, machine *status.Machine, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{db: db, machine: machine, logger: logger}
}

// Post queues a status. Text is passed through as-is; the API decides what
// it accepts.
func (s *StatusService) Post(_ context.Context, req *rpc.PostRequest) (*rpc.PostResponse, error) {
	if err := requireServing(s.machine); err != nil {
		return nil, err
	}
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		clientID = uuid.NewString()
	}
	if req.ImagePath != "" {
		info, err := os.Stat(req.ImagePath)
		if err != nil {
			return nil, grpcstatus.Errorf(codes.InvalidArgument, "picture: %v", err)
		}
		if info.IsDir() {
			return nil, grpcstatus.Errorf(codes.InvalidArgument, "picture %s is a directory", req.ImagePath)
		}
	}

	existing, err := s.db.GetOutbox(clientID)
	if err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "lookup outbox: %v", err)
	}
	if existing != nil {
		return nil, grpcstatus.Errorf(codes.AlreadyExists, "post %s already queued", clientID)
	}

	if err := s.db.QueueOutbox(clientID, req.Text, req.ImagePath); err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "queue post: %v", err)
	}
	s.logger.Info("post queued", zap.String("client_id", clientID), zap.Bool("picture", req.ImagePath != ""))
	if s.Queued != nil {
		s.Queued()
	}
	return &rpc.PostResponse{ClientID: clientID, Queued: true}, nil
}

func (s *StatusService) GetPost(_ context.Context, req *rpc.GetPostRequest) (*rpc.GetPostResponse, error) {
	e, err := s.db.GetOutbox(req.ClientID)
	if err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "get post: %v", err)
	}
	if e == nil {
		return nil, grpcstatus.Errorf(codes.NotFound, "post %q not found", req.ClientID)
	}
	return &rpc.GetPostResponse{
		ClientID: e.ClientID,
		Status:   e.Status,
		ServerID: e.ServerID,
		Error:    e.ErrorMessage,
	}, nil
}
