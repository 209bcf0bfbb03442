package daemon

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDKey is the metadata key carrying a caller-chosen request id.
const RequestIDKey = "x-request-id"

// UnaryLogging writes one line per unary call with method, code and duration.
// The request id comes from metadata, or a fresh UUID.
func UnaryLogging(base *zap.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = zap.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		var rid string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" {
				rid = v[0]
			}
		}
		if rid == "" {
			rid = uuid.NewString()
		}

		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("dur", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unknown {
			base.Error("grpc", append(fields, zap.Error(err))...)
		} else {
			base.Debug("grpc", fields...)
		}
		return resp, err
	}
}

// UnaryRecover turns a handler panic into codes.Internal.
func UnaryRecover(base *zap.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = zap.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				base.Error("panic recovered",
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				resp, err = nil, status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}
