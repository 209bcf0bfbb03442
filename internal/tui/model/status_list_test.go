package model

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/matheus3301/weibo/internal/weibo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchCall struct{ since, max int64 }

type fakeFetcher struct {
	mu    sync.Mutex
	pages [][]*weibo.Status
	err   error
	calls []fetchCall
}

func (f *fakeFetcher) FetchStatuses(_ context.Context, sinceID, maxID int64) ([]*weibo.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fetchCall{sinceID, maxID})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return []*weibo.Status{}, nil
	}
	p := f.pages[0]
	f.pages = f.pages[1:]
	return p, nil
}

func (f *fakeFetcher) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

func ids(l *StatusListViewModel) []int64 {
	var out []int64
	for _, r := range l.Rows() {
		out = append(out, r.ID())
	}
	return out
}

func TestLoadStatusPrependsAndAppends(t *testing.T) {
	f := &fakeFetcher{pages: [][]*weibo.Status{
		{original(30, "c"), original(20, "b")},
		{original(50, "e"), original(40, "d")},
		{original(10, "a")},
	}}
	l := NewStatusListViewModel(f)
	ctx := context.Background()

	ok, should := l.LoadStatus(ctx, false)
	require.True(t, ok)
	assert.True(t, should)

	ok, should = l.LoadStatus(ctx, false)
	require.True(t, ok)
	assert.True(t, should)

	ok, should = l.LoadStatus(ctx, true)
	require.True(t, ok)
	assert.True(t, should)

	assert.Equal(t, []int64{50, 40, 30, 20, 10}, ids(l))
	assert.Equal(t, []fetchCall{{0, 0}, {30, 0}, {0, 20}}, f.Calls())
}

func TestLoadStatusFailureLeavesRows(t *testing.T) {
	f := &fakeFetcher{pages: [][]*weibo.Status{{original(1, "a")}}}
	l := NewStatusListViewModel(f)
	ok, _ := l.LoadStatus(context.Background(), false)
	require.True(t, ok)

	f.err = errors.New("offline")
	ok, should := l.LoadStatus(context.Background(), false)
	assert.False(t, ok)
	assert.False(t, should)
	assert.Equal(t, []int64{1}, ids(l))
}

func TestLoadStatusEmptyRefreshStillRefreshes(t *testing.T) {
	l := NewStatusListViewModel(&fakeFetcher{})
	ok, should := l.LoadStatus(context.Background(), false)
	assert.True(t, ok)
	assert.True(t, should)
	assert.Equal(t, 0, l.Len())
}

func TestLoadMoreStopsAfterThreeEmptyPages(t *testing.T) {
	f := &fakeFetcher{pages: [][]*weibo.Status{{original(5, "x")}}}
	l := NewStatusListViewModel(f)
	ctx := context.Background()
	_, _ = l.LoadStatus(ctx, false)

	for i := 0; i < maxEmptyPullups; i++ {
		ok, should := l.LoadStatus(ctx, true)
		assert.True(t, ok)
		assert.False(t, should)
	}
	require.Len(t, f.Calls(), 4)

	ok, should := l.LoadStatus(ctx, true)
	assert.True(t, ok)
	assert.False(t, should)
	assert.Len(t, f.Calls(), 4, "no request after three empty pages")

	// Refreshing is unaffected.
	ok, _ = l.LoadStatus(ctx, false)
	assert.True(t, ok)
	assert.Len(t, f.Calls(), 5)
}

func TestLoadStatusCancelledContext(t *testing.T) {
	f := &fakeFetcher{pages: [][]*weibo.Status{{original(1, "a")}}}
	l := NewStatusListViewModel(f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, should := l.LoadStatus(ctx, false)
	assert.False(t, ok)
	assert.False(t, should)
	assert.Equal(t, 0, l.Len())
}

func TestSeedAndWidth(t *testing.T) {
	l := NewStatusListViewModel(&fakeFetcher{})
	assert.True(t, l.Seed([]*weibo.Status{original(2, "bb"), nil, original(1, "a")}))
	assert.False(t, l.Seed([]*weibo.Status{original(3, "c")}))
	assert.Equal(t, []int64{2, 1}, ids(l))

	l.SetWidth(1)
	assert.Equal(t, 1, l.Width())
	assert.Greater(t, l.At(0).RowHeight(), 4)
	assert.Nil(t, l.At(5))

	l.Reset()
	assert.Equal(t, 0, l.Len())
}
