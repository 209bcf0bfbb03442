package daemon

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/matheus3301/weibo/internal/account"
	"github.com/matheus3301/weibo/internal/status"
	"github.com/matheus3301/weibo/internal/weibo"
	"go.uber.org/zap"
)

// apiReporter moves the state machine according to API call outcomes:
// an expired token requires a new login, other failures degrade a ready
// session, and the next success recovers it.
func apiReporter(m *status.Machine, logger *zap.Logger) func(err error) {
	return func(err error) {
		cur := m.Current()
		switch {
		case err == nil:
			if cur == status.Degraded {
				_ = m.Transition(status.Ready)
			}
		case errors.Is(err, context.Canceled):
		case weibo.IsTokenExpired(err), errors.Is(err, weibo.ErrNotLoggedIn):
			if status.CanServe(cur) {
				logger.Warn("access token rejected, login required", zap.Error(err))
				_ = m.Transition(status.AuthRequired)
			}
		default:
			if cur == status.Ready {
				logger.Warn("api degraded", zap.Error(err))
				_ = m.Transition(status.Degraded)
			}
		}
	}
}

// poster adapts the API client to outbox.Poster for the session account.
type poster struct {
	client *weibo.Client
	holder *account.Holder
}

func (p *poster) Post(ctx context.Context, text string, img image.Image) (string, error) {
	d, err := p.client.PostStatus(ctx, p.holder.Get(), text, img)
	if err != nil {
		return "", err
	}
	if id, ok := d["idstr"].(string); ok && id != "" {
		return id, nil
	}
	if id, ok := d["id"]; ok && id != nil {
		return fmt.Sprint(id), nil
	}
	return "", nil
}
