package weibo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	saved []Account
	err   error
}

func (s *recordingSaver) SaveAccount(_ context.Context, acct *Account) error {
	s.saved = append(s.saved, *acct)
	return s.err
}

// oauthHandler serves the token and user endpoints with configurable outcomes.
func oauthHandler(t *testing.T, tokenStatus, userStatus int) (http.HandlerFunc, *[]string) {
	var paths []string
	return func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/oauth2/access_token":
			if !assert.NoError(t, r.ParseForm()) {
				return
			}
			assert.Equal(t, url.Values{
				"client_id":     {"app-key"},
				"client_secret": {"app-secret"},
				"grant_type":    {"authorization_code"},
				"code":          {"the-code"},
				"redirect_uri":  {"https://example.com/callback"},
			}, r.PostForm)
			assert.Empty(t, r.URL.Query().Get("access_token"), "token exchange is unauthenticated")
			if tokenStatus != http.StatusOK {
				writeJSON(w, tokenStatus, map[string]any{"error": "invalid_grant", "error_code": 21325})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": "new-token",
				"uid":          "2002",
				"expires_in":   157679999,
			})
		case "/2/users/show.json":
			if userStatus != http.StatusOK {
				writeJSON(w, userStatus, map[string]any{"error": "down"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"id":           2002,
				"screen_name":  "bob",
				"avatar_large": "https://img/bob.jpg",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, &paths
}

func TestLoadAccessToken(t *testing.T) {
	h, paths := oauthHandler(t, http.StatusOK, http.StatusOK)
	c, _ := newTestClient(t, h)
	saver := &recordingSaver{}
	acct := &Account{}

	ok, err := c.LoadAccessToken(context.Background(), acct, "the-code", saver)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "2002", acct.UID)
	assert.Equal(t, "new-token", acct.AccessToken)
	assert.Equal(t, "bob", acct.ScreenName)
	assert.Equal(t, "https://img/bob.jpg", acct.AvatarLarge)
	assert.True(t, acct.IsLoggedIn())

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "bob", saver.saved[0].ScreenName)
	assert.Equal(t, []string{"/oauth2/access_token", "/2/users/show.json"}, *paths)
}

// Regression: a failed exchange with no prior uid used to leave the completion
// hanging forever. It must now resolve with ErrNoUID and save nothing.
func TestLoadAccessTokenFailureWithoutUIDResolves(t *testing.T) {
	h, paths := oauthHandler(t, http.StatusBadRequest, http.StatusOK)
	c, _ := newTestClient(t, h)
	saver := &recordingSaver{}
	acct := &Account{}

	ok, err := c.LoadAccessToken(context.Background(), acct, "the-code", saver)
	assert.False(t, ok)
	require.ErrorIs(t, err, ErrNoUID)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr, "the exchange failure is reported too")
	assert.Empty(t, saver.saved)
	assert.Equal(t, []string{"/oauth2/access_token"}, *paths)
}

func TestLoadAccessTokenFailureKeepsExistingFields(t *testing.T) {
	h, paths := oauthHandler(t, http.StatusBadRequest, http.StatusOK)
	c, _ := newTestClient(t, h)
	saver := &recordingSaver{}
	acct := &Account{UID: "2002", AccessToken: "old-token"}

	ok, err := c.LoadAccessToken(context.Background(), acct, "the-code", saver)
	assert.False(t, ok, "completion carries the exchange outcome")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoUID)

	assert.Equal(t, "old-token", acct.AccessToken, "fields are left, not erased")
	assert.Equal(t, "bob", acct.ScreenName)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, []string{"/oauth2/access_token", "/2/users/show.json"}, *paths)
}

func TestLoadAccessTokenUserInfoFailureStillSucceeds(t *testing.T) {
	h, _ := oauthHandler(t, http.StatusOK, http.StatusInternalServerError)
	c, _ := newTestClient(t, h)
	saver := &recordingSaver{}
	acct := &Account{}

	ok, err := c.LoadAccessToken(context.Background(), acct, "the-code", saver)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new-token", acct.AccessToken)
	assert.Empty(t, acct.ScreenName)
	require.Len(t, saver.saved, 1)
}

func TestLoadAccessTokenSaveError(t *testing.T) {
	h, _ := oauthHandler(t, http.StatusOK, http.StatusOK)
	c, _ := newTestClient(t, h)
	diskFull := errors.New("disk full")
	saver := &recordingSaver{err: diskFull}

	ok, err := c.LoadAccessToken(context.Background(), &Account{}, "the-code", saver)
	assert.True(t, ok)
	assert.ErrorIs(t, err, diskFull)
}

func TestLoadAccessTokenNilAccount(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })
	saver := &recordingSaver{}

	ok, err := c.LoadAccessToken(context.Background(), nil, "the-code", saver)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, hits.Load())
	assert.Nil(t, saver.saved)
}

func TestAuthorizeURL(t *testing.T) {
	c, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	u, err := url.Parse(c.AuthorizeURL())
	require.NoError(t, err)
	assert.Equal(t, ts.URL+"/oauth2/authorize", u.Scheme+"://"+u.Host+u.Path)
	assert.Equal(t, "app-key", u.Query().Get("client_id"))
	assert.Equal(t, "https://example.com/callback", u.Query().Get("redirect_uri"))
}
