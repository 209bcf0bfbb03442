package weibo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// UnreadCount returns the number of unread home timeline statuses.
//
// It is meant to run on a timer, so failures are not reported: a failed or
// malformed response yields (0, true). When the account has no uid nothing is
// requested and ok is false; callers should then do nothing at all.
func (c *Client) UnreadCount(ctx context.Context, acct *Account) (count int, ok bool) {
	if acct == nil || acct.UID == "" {
		return 0, false
	}

	params := url.Values{"uid": {acct.UID}}
	dict, err := c.tokenRequest(ctx, acct, http.MethodGet, EndpointUnreadCount, c.cfg.Endpoints.UnreadCount, params, nil)
	if err != nil {
		c.logger.Debug("unread count failed", zap.Error(err))
		return 0, true
	}

	num, isNum := dict["status"].(json.Number)
	if !isNum {
		return 0, true
	}
	n, err := num.Int64()
	if err != nil {
		return 0, true
	}
	return int(n), true
}
