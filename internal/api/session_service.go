package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/matheus3301/weibo/internal/account"
	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/status"
	"github.com/matheus3301/weibo/internal/store"
	"github.com/matheus3301/weibo/internal/weibo"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// Authorizer is the OAuth part of the API client.
type Authorizer interface {
	AuthorizeURL() string
	LoadAccessToken(ctx context.Context, acct *weibo.Account, code string, saver weibo.AccountSaver) (bool, error)
}

// SessionService implements the SessionService gRPC service.
type SessionService struct {
	sessionName string
	redirectURI string
	startedAt   time.Time
	machine     *status.Machine
	auth        Authorizer
	holder      *account.Holder
	db          *store.DB
	logger      *zap.Logger

	// OnLogin runs after a successful code exchange; OnLogout after logout.
	OnLogin  func()
	OnLogout func()
}

// NewSessionService creates a new session service.
func NewSessionService(sessionName, redirectURI string, machine *status.Machine, auth Authorizer, holder *account.Holder, db *store.DB, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessionName: sessionName,
		redirectURI: redirectURI,
		startedAt:   time.Now(),
		machine:     machine,
		auth:        auth,
		holder:      holder,
		db:          db,
		logger:      logger,
	}
}

func (s *SessionService) GetStatus(_ context.Context, _ *rpc.GetStatusRequest) (*rpc.GetStatusResponse, error) {
	current := s.machine.Current()
	resp := &rpc.GetStatusResponse{
		Session:  s.sessionName,
		Status:   string(current),
		UptimeMs: time.Since(s.startedAt).Milliseconds(),
	}

	if s.holder != nil {
		acct := s.holder.Get()
		resp.LoggedIn = acct.IsLoggedIn()
		resp.UID = acct.UID
		resp.ScreenName = acct.ScreenName
		resp.AvatarLarge = acct.AvatarLarge
		if !acct.ExpiresAt.IsZero() {
			resp.ExpiresAtMs = acct.ExpiresAt.UnixMilli()
		}
	}

	if s.db != nil {
		if n, err := s.db.CountStatuses(); err == nil {
			resp.CachedStatuses = n
		}
		if pending, err := s.db.PendingOutbox(); err == nil {
			resp.PendingPosts = len(pending)
		}
	}
	return resp, nil
}

func (s *SessionService) GetAuthorizeURL(_ context.Context, _ *rpc.GetAuthorizeURLRequest) (*rpc.GetAuthorizeURLResponse, error) {
	if s.auth == nil {
		return nil, grpcstatus.Error(codes.Unavailable, "client not initialized")
	}
	return &rpc.GetAuthorizeURLResponse{URL: s.auth.AuthorizeURL(), RedirectURI: s.redirectURI}, nil
}

// ExchangeCode runs the two-stage login. It always answers: a missing uid
// is reported in the response rather than leaving the caller waiting.
func (s *SessionService) ExchangeCode(ctx context.Context, req *rpc.ExchangeCodeRequest) (*rpc.ExchangeCodeResponse, error) {
	if s.auth == nil {
		return nil, grpcstatus.Error(codes.Unavailable, "client not initialized")
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, grpcstatus.Error(codes.InvalidArgument, "code is required")
	}
	wasServing := status.CanServe(s.machine.Current())
	if err := s.beginAuthorizing(); err != nil {
		return nil, err
	}

	acct := s.holder.Get()
	ok, err := s.auth.LoadAccessToken(ctx, acct, code, s.holder)

	resp := &rpc.ExchangeCodeResponse{Success: ok, ScreenName: acct.ScreenName}
	if err != nil {
		resp.Error = err.Error()
		resp.NoUID = errors.Is(err, weibo.ErrNoUID)
	}

	switch {
	case ok && s.holder.LoggedIn():
		_ = s.machine.Transition(status.Ready)
		s.logger.Info("signed in", zap.String("uid", acct.UID), zap.String("screen_name", acct.ScreenName))
		if s.OnLogin != nil {
			s.OnLogin()
		}
	case wasServing && s.holder.LoggedIn():
		// Nothing was rolled back, so the previous token still works.
		_ = s.machine.Transition(status.Ready)
		s.logger.Warn("re-authorization failed, keeping current account", zap.String("uid", acct.UID), zap.Error(err))
	default:
		_ = s.machine.Transition(status.AuthRequired)
		s.logger.Warn("sign-in failed", zap.Bool("token_ok", ok), zap.Error(err))
	}
	return resp, nil
}

// beginAuthorizing moves AUTH_REQUIRED to AUTHORIZING. A session that is
// already signed in may re-authorize: it first drops to AUTH_REQUIRED.
func (s *SessionService) beginAuthorizing() error {
	switch cur := s.machine.Current(); cur {
	case status.AuthRequired:
	case status.Ready, status.Degraded:
		if err := s.machine.Transition(status.AuthRequired); err != nil {
			return grpcstatus.Errorf(codes.FailedPrecondition, "%v", err)
		}
	default:
		return grpcstatus.Errorf(codes.FailedPrecondition, "cannot authorize while %s", cur)
	}
	if err := s.machine.TransitionFrom(status.AuthRequired, status.Authorizing); err != nil {
		return grpcstatus.Errorf(codes.Aborted, "%v", err)
	}
	return nil
}

func (s *SessionService) Logout(ctx context.Context, _ *rpc.LogoutRequest) (*rpc.LogoutResponse, error) {
	if s.holder == nil {
		return nil, grpcstatus.Error(codes.Unavailable, "account store not initialized")
	}
	if err := s.holder.Clear(ctx); err != nil {
		return nil, grpcstatus.Errorf(codes.Internal, "logout: %v", err)
	}
	if err := s.machine.Ensure(status.AuthRequired); err != nil {
		s.logger.Warn("logout transition", zap.Error(err))
	}
	if s.OnLogout != nil {
		s.OnLogout()
	}
	s.logger.Info("signed out")
	return &rpc.LogoutResponse{Success: true}, nil
}
