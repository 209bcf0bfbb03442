package weibo

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnreadCountNoUIDIsNoop(t *testing.T) {
	c, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": 3})
	})

	count, ok := c.UnreadCount(context.Background(), &Account{AccessToken: "tok"})
	assert.False(t, ok)
	assert.Zero(t, count)
	assert.Zero(t, ts.hits.Load(), "no request may be issued without a uid")

	_, ok = c.UnreadCount(context.Background(), nil)
	assert.False(t, ok)
}

func TestUnreadCount(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		want   int
	}{
		{"count", http.StatusOK, map[string]any{"status": 7, "follower": 1}, 7},
		{"missing", http.StatusOK, map[string]any{"follower": 1}, 0},
		{"malformed", http.StatusOK, map[string]any{"status": "7"}, 0},
		{"server error", http.StatusBadGateway, map[string]any{"error": "x"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/2/remind/unread_count.json", r.URL.Path)
				assert.Equal(t, "1001", r.URL.Query().Get("uid"))
				writeJSON(w, tt.status, tt.body)
			})

			count, ok := c.UnreadCount(context.Background(), loggedIn())
			assert.True(t, ok, "failures are silent but still answered")
			assert.Equal(t, tt.want, count)
		})
	}
}
