package daemon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/weibo.v1.TimelineService/FetchStatuses"}

func TestUnaryLoggingUsesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := UnaryLogging(zap.New(core))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDKey, "rid-1"))
	resp, err := interceptor(ctx, "req", testInfo, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "rid-1", fields["request_id"])
	assert.Equal(t, testInfo.FullMethod, fields["method"])
	assert.Equal(t, "OK", fields["code"])
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
}

func TestUnaryLoggingGeneratesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := UnaryLogging(zap.New(core))

	_, err := interceptor(context.Background(), nil, testInfo, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Internal, "boom")
	})
	require.Error(t, err)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.NotEmpty(t, entry.ContextMap()["request_id"])
	assert.Equal(t, "Internal", entry.ContextMap()["code"])
}

func TestUnaryRecover(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := UnaryRecover(zap.New(core))

	resp, err := interceptor(context.Background(), nil, testInfo, func(context.Context, any) (any, error) {
		panic("kaboom")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())

	_, err = interceptor(context.Background(), nil, testInfo, func(context.Context, any) (any, error) {
		return nil, errors.New("plain")
	})
	assert.EqualError(t, err, "plain")
}
