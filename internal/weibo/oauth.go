package weibo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// AuthorizeURL returns the page the user signs in on. Weibo redirects to the
// configured redirect URI with a "code" query parameter.
func (c *Client) AuthorizeURL() string {
	params := url.Values{
		"client_id":    {c.cfg.AppKey},
		"redirect_uri": {c.cfg.RedirectURI},
	}
	return c.cfg.Endpoints.Authorize + "?" + params.Encode()
}

// LoadAccessToken exchanges an authorization code for an access token.
//
// The exchange runs in two stages. The token response, or an empty object when
// the request failed, is merged into acct; nothing is rolled back. User info
// is then always loaded, merged, and the account persisted through saver.
//
// ok reports whether the token exchange itself succeeded, so it can be true
// while user info silently failed. When no uid is known after the first stage
// the flow returns ok false and an error wrapping ErrNoUID without saving.
// A nil acct returns ErrNotLoggedIn without any request.
func (c *Client) LoadAccessToken(ctx context.Context, acct *Account, code string, saver AccountSaver) (ok bool, err error) {
	if acct == nil {
		return false, ErrNotLoggedIn
	}
	params := url.Values{
		"client_id":     {c.cfg.AppKey},
		"client_secret": {c.cfg.AppSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {c.cfg.RedirectURI},
	}

	dict, tokenErr := c.request(ctx, http.MethodPost, EndpointAccessToken, c.cfg.Endpoints.AccessToken, params, nil)
	if dict == nil {
		dict = Dict{}
	}
	acct.Merge(dict)

	info, found := c.LoadUserInfo(ctx, acct)
	if !found {
		return false, errors.Join(ErrNoUID, tokenErr)
	}
	acct.Merge(info)

	if saver != nil {
		if err := saver.SaveAccount(ctx, acct); err != nil {
			return tokenErr == nil, errors.Join(fmt.Errorf("save account: %w", err), tokenErr)
		}
	}

	c.logger.Info("account loaded",
		zap.String("uid", acct.UID),
		zap.String("screen_name", acct.ScreenName),
		zap.Bool("token_ok", tokenErr == nil))
	return tokenErr == nil, tokenErr
}
