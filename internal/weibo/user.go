package weibo

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// LoadUserInfo fetches the profile of the signed-in user.
//
// When the account has no uid nothing is requested and found is false. Any
// failure after that yields an empty, non-nil Dict.
func (c *Client) LoadUserInfo(ctx context.Context, acct *Account) (info Dict, found bool) {
	if acct == nil || acct.UID == "" {
		return nil, false
	}

	params := url.Values{"uid": {acct.UID}}
	dict, err := c.tokenRequest(ctx, acct, http.MethodGet, EndpointUserShow, c.cfg.Endpoints.UserShow, params, nil)
	if err != nil {
		c.logger.Warn("load user info failed", zap.String("uid", acct.UID), zap.Error(err))
		return Dict{}, true
	}
	return dict, true
}
