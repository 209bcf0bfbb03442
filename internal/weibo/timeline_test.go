package weibo

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusListCursors(t *testing.T) {
	tests := []struct {
		name      string
		sinceID   int64
		maxID     int64
		wantSince string
		wantMax   string
	}{
		{"unbounded", 0, 0, "0", "0"},
		{"refresh", 4990000000000001, 0, "4990000000000001", "0"},
		{"load more excludes boundary", 0, 4990000000000001, "0", "4990000000000000"},
		{"max one", 0, 1, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/2/statuses/home_timeline.json", r.URL.Path)
				assert.Equal(t, tt.wantSince, r.URL.Query().Get("since_id"))
				assert.Equal(t, tt.wantMax, r.URL.Query().Get("max_id"))
				writeJSON(w, http.StatusOK, map[string]any{"statuses": []any{}})
			})

			_, err := c.StatusList(context.Background(), loggedIn(), tt.sinceID, tt.maxID)
			require.NoError(t, err)
		})
	}
}

func TestStatusListAbsentVersusEmpty(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]any
		wantNil   bool
		wantCount int
	}{
		{"missing field", map[string]any{"total_number": 0}, true, 0},
		{"wrong shape", map[string]any{"statuses": "nope"}, true, 0},
		{"non-object element", map[string]any{"statuses": []any{1}}, true, 0},
		{"empty", map[string]any{"statuses": []any{}}, false, 0},
		{"two items", map[string]any{"statuses": []any{
			map[string]any{"id": 2, "text": "b"},
			map[string]any{"id": 1, "text": "a"},
		}}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			})

			list, err := c.StatusList(context.Background(), loggedIn(), 0, 0)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, list)
				return
			}
			require.NotNil(t, list)
			assert.Len(t, list, tt.wantCount)
		})
	}
}

func TestStatusListPreservesLargeIDs(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"statuses":[{"id":4990123456789012345,"text":"hi"}]}`))
	})

	list, err := c.StatusList(context.Background(), loggedIn(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	s, err := ParseStatus(list[0])
	require.NoError(t, err)
	assert.Equal(t, int64(4990123456789012345), s.ID)
}

func TestStatusListFailureIsAbsent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "boom"})
	})

	list, err := c.StatusList(context.Background(), loggedIn(), 0, 0)
	assert.Error(t, err)
	assert.Nil(t, list)
}
