package model

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/tui/client"
	"github.com/matheus3301/weibo/internal/weibo"
)

// ErrNoStatuses is returned when the timeline response had no statuses list.
var ErrNoStatuses = errors.New("timeline response has no statuses")

// ViewModel caches daemon state for the views and wraps the calls they make.
type ViewModel struct {
	mu sync.RWMutex

	client        *client.Client
	SessionStatus *rpc.GetStatusResponse
	unread        int
	unreadKnown   bool

	refreshCh chan struct{}
}

// NewViewModel creates a new view model connected to the daemon client.
func NewViewModel(c *client.Client) *ViewModel {
	return &ViewModel{
		client:    c,
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// LoadSessionStatus fetches current session status.
func (vm *ViewModel) LoadSessionStatus(ctx context.Context) error {
	resp, err := vm.client.Session.GetStatus(ctx, &rpc.GetStatusRequest{})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.SessionStatus = resp
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// GetSessionStatus returns a snapshot of session status.
func (vm *ViewModel) GetSessionStatus() *rpc.GetStatusResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.SessionStatus
}

// LoadUnread fetches the unread count.
func (vm *ViewModel) LoadUnread(ctx context.Context) error {
	resp, err := vm.client.Remind.GetUnread(ctx, &rpc.GetUnreadRequest{})
	if err != nil {
		return err
	}
	vm.SetUnread(resp.Count, resp.Known)
	return nil
}

// SetUnread records an unread count pushed by the daemon.
func (vm *ViewModel) SetUnread(n int, known bool) {
	vm.mu.Lock()
	vm.unread, vm.unreadKnown = n, known
	vm.mu.Unlock()
	vm.signalRefresh()
}

// Unread returns the last unread count and whether it is known.
func (vm *ViewModel) Unread() (int, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.unread, vm.unreadKnown
}

// FetchStatuses implements Fetcher over the daemon's timeline service.
func (vm *ViewModel) FetchStatuses(ctx context.Context, sinceID, maxID int64) ([]*weibo.Status, error) {
	resp, err := vm.client.Timeline.FetchStatuses(ctx, &rpc.FetchStatusesRequest{SinceID: sinceID, MaxID: maxID})
	if err != nil {
		return nil, err
	}
	if !resp.Present {
		return nil, ErrNoStatuses
	}
	return decodeAll(resp.Statuses), nil
}

// LoadCached returns up to limit statuses from the daemon's cache.
func (vm *ViewModel) LoadCached(ctx context.Context, limit int) ([]*weibo.Status, error) {
	resp, err := vm.client.Timeline.ListCached(ctx, &rpc.ListCachedRequest{Limit: limit})
	if err != nil {
		return nil, err
	}
	return decodeAll(resp.Statuses), nil
}

func decodeAll(raws []json.RawMessage) []*weibo.Status {
	out := make([]*weibo.Status, 0, len(raws))
	for _, raw := range raws {
		s, err := weibo.DecodeStatus(raw)
		if err != nil || s.ID == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// AuthorizeURL returns the sign-in page and the redirect it ends on.
func (vm *ViewModel) AuthorizeURL(ctx context.Context) (*rpc.GetAuthorizeURLResponse, error) {
	return vm.client.Session.GetAuthorizeURL(ctx, &rpc.GetAuthorizeURLRequest{})
}

// ExchangeCode completes sign-in with the code from the redirect.
func (vm *ViewModel) ExchangeCode(ctx context.Context, code string) (*rpc.ExchangeCodeResponse, error) {
	resp, err := vm.client.Session.ExchangeCode(ctx, &rpc.ExchangeCodeRequest{Code: code})
	if err != nil {
		return nil, err
	}
	_ = vm.LoadSessionStatus(ctx)
	return resp, nil
}

// Logout signs the session out.
func (vm *ViewModel) Logout(ctx context.Context) error {
	if _, err := vm.client.Session.Logout(ctx, &rpc.LogoutRequest{}); err != nil {
		return err
	}
	vm.SetUnread(0, false)
	return vm.LoadSessionStatus(ctx)
}

// Post queues a status and returns its client id.
func (vm *ViewModel) Post(ctx context.Context, text, imagePath string) (string, error) {
	resp, err := vm.client.Status.Post(ctx, &rpc.PostRequest{
		ClientID:  uuid.NewString(),
		Text:      text,
		ImagePath: imagePath,
	})
	if err != nil {
		return "", err
	}
	return resp.ClientID, nil
}

// WatchEvents streams daemon events into fn until ctx ends or the stream
// breaks.
func (vm *ViewModel) WatchEvents(ctx context.Context, fn func(*rpc.Event), namespaces ...string) error {
	stream, err := vm.client.Events.WatchEvents(ctx, &rpc.WatchEventsRequest{Namespaces: namespaces})
	if err != nil {
		return err
	}
	for {
		evt, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(evt)
	}
}
