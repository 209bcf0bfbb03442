package remind

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/store"
	"github.com/matheus3301/weibo/internal/weibo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	count int
	calls atomic.Int32
}

// UnreadCount mirrors the client: no uid means no call and ok == false.
func (f *fakeCounter) UnreadCount(_ context.Context, acct *weibo.Account) (int, bool) {
	if acct == nil || acct.UID == "" {
		return 0, false
	}
	f.calls.Add(1)
	return f.count, true
}

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	_, err = db.Migrate()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPollPublishesCount(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	ch, unsub := b.Subscribe("remind.", 4)
	defer unsub()

	var gauge int
	fc := &fakeCounter{count: 7}
	p := NewPoller(fc, func() *weibo.Account { return &weibo.Account{UID: "1", AccessToken: "t"} }, db, b, time.Hour, nil)
	p.Gauge = func(n int) { gauge = n }

	p.Poll(context.Background())

	n, known := p.Unread()
	assert.True(t, known)
	assert.Equal(t, 7, n)
	assert.Equal(t, 7, gauge)

	stored, ok, err := db.GetInt(store.KeyUnreadCount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, stored)

	select {
	case evt := <-ch:
		assert.Equal(t, bus.UnreadPayload{Count: 7}, evt.Payload)
	case <-time.After(time.Second):
		t.Fatal("no remind.unread event")
	}
}

func TestPollWithoutUIDIsNoop(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	ch, unsub := b.Subscribe("remind.", 4)
	defer unsub()

	p := NewPoller(&fakeCounter{count: 3}, func() *weibo.Account { return &weibo.Account{} }, db, b, time.Hour, nil)
	p.Poll(context.Background())

	_, known := p.Unread()
	assert.False(t, known)
	_, ok, err := db.GetInt(store.KeyUnreadCount)
	require.NoError(t, err)
	assert.False(t, ok)

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartRestoresStoredCount(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SetState(store.KeyUnreadCount, "12"))

	p := NewPoller(&fakeCounter{}, func() *weibo.Account { return &weibo.Account{} }, db, bus.New(), time.Hour, nil)
	p.Start(context.Background())
	defer p.Stop()

	n, known := p.Unread()
	assert.True(t, known)
	assert.Equal(t, 12, n)
}

func TestLoopPollsImmediately(t *testing.T) {
	db := testDB(t)
	fc := &fakeCounter{count: 1}
	p := NewPoller(fc, func() *weibo.Account { return &weibo.Account{UID: "1", AccessToken: "t"} }, db, bus.New(), time.Hour, nil)
	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return fc.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestReset(t *testing.T) {
	db := testDB(t)
	p := NewPoller(&fakeCounter{count: 5}, func() *weibo.Account { return &weibo.Account{UID: "1", AccessToken: "t"} }, db, bus.New(), time.Hour, nil)
	p.Poll(context.Background())
	p.Reset()

	n, _ := p.Unread()
	assert.Equal(t, 0, n)
	stored, _, _ := db.GetInt(store.KeyUnreadCount)
	assert.Equal(t, 0, stored)
}
