package client

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/weibo/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Client wraps gRPC connections to the daemon.
type Client struct {
	conn     *grpc.ClientConn
	Health   healthpb.HealthClient
	Session  rpc.SessionServiceClient
	Timeline rpc.TimelineServiceClient
	Status   rpc.StatusServiceClient
	Remind   rpc.RemindServiceClient
	Events   rpc.EventServiceClient
}

// New dials the daemon's Unix domain socket and returns typed service clients.
func New(socketPath string) (*Client, error) {
	conn, err := grpc.NewClient(
		"unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial daemon: %w", err)
	}
	return FromConn(conn), nil
}

// FromConn builds a Client on an existing connection, which it then owns.
func FromConn(conn *grpc.ClientConn) *Client {
	return &Client{
		conn:     conn,
		Health:   healthpb.NewHealthClient(conn),
		Session:  rpc.NewSessionServiceClient(conn),
		Timeline: rpc.NewTimelineServiceClient(conn),
		Status:   rpc.NewStatusServiceClient(conn),
		Remind:   rpc.NewRemindServiceClient(conn),
		Events:   rpc.NewEventServiceClient(conn),
	}
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Probe reports whether a daemon answers health checks on socketPath.
func Probe(socketPath string, timeout time.Duration) bool {
	c, err := New(socketPath)
	if err != nil {
		return false
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	resp, err := c.Health.Check(ctx, &healthpb.HealthCheckRequest{})
	return err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING
}

// WaitReady probes until the daemon answers or timeout elapses.
func WaitReady(socketPath string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if Probe(socketPath, 2*time.Second) {
			return true
		}
		time.Sleep(300 * time.Millisecond)
	}
	return false
}
