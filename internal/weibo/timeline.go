package weibo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// StatusList loads the signed-in user's home timeline.
//
// sinceID returns statuses newer than it; maxID returns statuses with id at
// most maxID-1, so the boundary item the caller already holds is not fetched
// twice. Zero means unbounded for both. Ids travel as decimal strings.
//
// The returned slice is nil when the response has no usable "statuses" array,
// and empty but non-nil when the server returned zero items. It may be nil
// together with a nil error.
func (c *Client) StatusList(ctx context.Context, acct *Account, sinceID, maxID int64) ([]Dict, error) {
	params := url.Values{
		"since_id": {strconv.FormatInt(sinceID, 10)},
		"max_id":   {strconv.FormatInt(upperBound(maxID), 10)},
	}

	dict, err := c.tokenRequest(ctx, acct, http.MethodGet, EndpointHomeTimeline, c.cfg.Endpoints.HomeTimeline, params, nil)
	return extractStatuses(dict), err
}

// upperBound excludes the boundary item from a max_id query.
func upperBound(maxID int64) int64 {
	if maxID > 0 {
		return maxID - 1
	}
	return 0
}

func extractStatuses(d Dict) []Dict {
	raw, ok := d["statuses"].([]any)
	if !ok {
		return nil
	}
	list := make([]Dict, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		list = append(list, m)
	}
	return list
}
