package client

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestProbe(t *testing.T) {
	dir, err := os.MkdirTemp("/tmp", "wbc-*")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(dir) }()
	socketPath := filepath.Join(dir, "d.sock")

	assert.False(t, Probe(socketPath, 200*time.Millisecond))

	lis, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	assert.True(t, WaitReady(socketPath, 3*time.Second))

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	assert.False(t, Probe(socketPath, time.Second))
}
