package weibo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// testServer routes every endpoint to one handler and counts requests.
type testServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *testServer) {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	c := NewClient(Config{
		AppKey:      "app-key",
		AppSecret:   "app-secret",
		RedirectURI: "https://example.com/callback",
		Endpoints: Endpoints{
			HomeTimeline: ts.URL + "/2/statuses/home_timeline.json",
			UnreadCount:  ts.URL + "/2/remind/unread_count.json",
			Update:       ts.URL + "/2/statuses/update.json",
			Upload:       ts.URL + "/2/statuses/upload.json",
			UserShow:     ts.URL + "/2/users/show.json",
			AccessToken:  ts.URL + "/oauth2/access_token",
			Authorize:    ts.URL + "/oauth2/authorize",
		},
		HTTPClient: ts.Client(),
		RateLimit:  rate.Inf,
	})
	return c, ts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func loggedIn() *Account {
	return &Account{UID: "1001", AccessToken: "tok"}
}

func TestTokenRequestAttachesAccessToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		writeJSON(w, http.StatusOK, map[string]any{"statuses": []any{}})
	})

	_, err := c.StatusList(context.Background(), loggedIn(), 0, 0)
	require.NoError(t, err)
}

func TestTokenRequestWithoutTokenSkipsNetwork(t *testing.T) {
	c, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	_, err := c.StatusList(context.Background(), &Account{UID: "1"}, 0, 0)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, ts.hits.Load())
}

func TestAPIErrorFromBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":      "expired_token",
			"error_code": 21327,
			"request":    "/2/statuses/home_timeline.json",
		})
	})

	_, err := c.StatusList(context.Background(), loggedIn(), 0, 0)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 21327, apiErr.Code)
	assert.Equal(t, "expired_token", apiErr.Message)
	assert.True(t, IsTokenExpired(err))
}

func TestMetricsHookCalledPerRequest(t *testing.T) {
	var calls []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": 1})
	})
	c.cfg.MetricsHook = func(endpoint string, success bool, _ time.Duration) {
		assert.True(t, success)
		calls = append(calls, endpoint)
	}

	_, ok := c.UnreadCount(context.Background(), loggedIn())
	require.True(t, ok)
	assert.Equal(t, []string{EndpointUnreadCount}, calls)
}

func TestNonObjectResponseIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []int{1, 2})
	})

	list, err := c.StatusList(context.Background(), loggedIn(), 0, 0)
	assert.Error(t, err)
	assert.Nil(t, list)
}

func TestDefaultEndpointsFillGaps(t *testing.T) {
	c := NewClient(Config{Endpoints: Endpoints{HomeTimeline: "http://local/timeline"}})
	ep := c.Endpoints()
	assert.Equal(t, "http://local/timeline", ep.HomeTimeline)
	assert.Equal(t, defaultUploadURL, ep.Upload)
	assert.Equal(t, defaultAccessTokenURL, ep.AccessToken)
}
