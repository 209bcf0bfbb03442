package daemon

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/matheus3301/weibo/internal/api"
	"github.com/matheus3301/weibo/internal/metrics"
	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server manages the gRPC server lifecycle for a session daemon.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	socketPath string
	logger     *zap.Logger
}

// Services groups the gRPC service implementations served by the daemon.
type Services struct {
	fx.In

	Session  *api.SessionService
	Timeline *api.TimelineService
	Status   *api.StatusService
	Remind   *api.RemindService
	Events   *api.EventService
}

// NewServer creates a gRPC server bound to the session's Unix domain socket.
func NewServer(p Params, logger *zap.Logger, collector *metrics.Collector, svc Services) (*Server, error) {
	socketPath := p.SocketPath
	if socketPath == "" {
		socketPath = session.SocketPath(p.SessionName)
	}

	// Clean stale socket if it exists.
	if _, err := os.Stat(socketPath); err == nil {
		_ = os.Remove(socketPath)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen unix socket: %w", err)
	}

	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}

	unary := []grpc.UnaryServerInterceptor{UnaryRecover(logger), UnaryLogging(logger)}
	var stream []grpc.StreamServerInterceptor
	if collector != nil {
		unary = append([]grpc.UnaryServerInterceptor{collector.GRPC.UnaryServerInterceptor()}, unary...)
		stream = append(stream, collector.GRPC.StreamServerInterceptor())
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	)
	rpc.RegisterSessionServiceServer(srv, svc.Session)
	rpc.RegisterTimelineServiceServer(srv, svc.Timeline)
	rpc.RegisterStatusServiceServer(srv, svc.Status)
	rpc.RegisterRemindServiceServer(srv, svc.Remind)
	rpc.RegisterEventServiceServer(srv, svc.Events)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	if collector != nil {
		collector.GRPC.InitializeMetrics(srv)
	}

	return &Server{
		grpcServer: srv,
		health:     hs,
		listener:   listener,
		socketPath: socketPath,
		logger:     logger,
	}, nil
}

// Start begins serving gRPC requests. Blocks until stopped.
func (s *Server) Start() error {
	s.logger.Info("gRPC server starting", zap.String("socket", s.socketPath))
	return s.grpcServer.Serve(s.listener)
}

// Stop performs a graceful shutdown and removes the socket file.
func (s *Server) Stop(_ context.Context) {
	s.logger.Info("gRPC server stopping")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	_ = os.Remove(s.socketPath)
}
