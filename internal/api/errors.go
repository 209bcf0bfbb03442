package api

import (
	"context"
	"errors"

	"github.com/matheus3301/weibo/internal/status"
	"github.com/matheus3301/weibo/internal/weibo"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// Reporter receives the outcome of every API call made on behalf of a client.
type Reporter func(err error)

func (r Reporter) report(err error) {
	if r != nil {
		r(err)
	}
}

// toStatus maps a request-layer error onto a gRPC status.
func toStatus(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return grpcstatus.Errorf(codes.Canceled, "%s: %v", op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return grpcstatus.Errorf(codes.DeadlineExceeded, "%s: %v", op, err)
	case errors.Is(err, weibo.ErrNotLoggedIn), weibo.IsTokenExpired(err):
		return grpcstatus.Errorf(codes.Unauthenticated, "%s: %v", op, err)
	}
	var apiErr *weibo.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return grpcstatus.Errorf(codes.FailedPrecondition, "%s: %v", op, err)
		}
	}
	return grpcstatus.Errorf(codes.Unavailable, "%s: %v", op, err)
}

// requireServing rejects calls that need a signed-in session.
func requireServing(m *status.Machine) error {
	if s := m.Current(); !status.CanServe(s) {
		return grpcstatus.Errorf(codes.FailedPrecondition, "session is %s", s)
	}
	return nil
}
