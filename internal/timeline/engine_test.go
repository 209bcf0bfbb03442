package timeline

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/store"
	"go.uber.org/zap"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func rawStatus(id int64, name string) []byte {
	return []byte(fmt.Sprintf(`{"id":%d,"text":"hi %d","created_at":"Tue May 31 17:46:55 +0800 2011","user":{"id":1,"screen_name":%q}}`, id, id, name))
}

func TestIngestPage(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	e := NewEngine(db, b, nil)

	ch, unsub := b.Subscribe(KindCached, 10)
	defer unsub()

	n, err := e.IngestPage([][]byte{
		rawStatus(4000000000000000002, "alice"),
		rawStatus(4000000000000000001, "bob"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("ingested %d, want 2", n)
	}

	list, err := db.ListStatuses(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d cached, want 2", len(list))
	}
	if list[0].ID != 4000000000000000002 || list[0].ScreenName != "alice" {
		t.Errorf("first = %+v", list[0])
	}
	if list[0].CreatedAt == 0 {
		t.Error("created_at not parsed")
	}

	select {
	case evt := <-ch:
		p := evt.Payload.(CachedPayload)
		if p.Count != 2 || p.NewestID != 4000000000000000002 || p.OldestID != 4000000000000000001 {
			t.Errorf("payload = %+v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for cached event")
	}

	newest, oldest, err := e.Cursor().Range()
	if err != nil {
		t.Fatal(err)
	}
	if newest != 4000000000000000002 || oldest != 4000000000000000001 {
		t.Errorf("range = %d..%d", oldest, newest)
	}
}

func TestIngestPageIdempotent(t *testing.T) {
	db := testDB(t)
	e := NewEngine(db, bus.New(), nil)

	page := [][]byte{rawStatus(10, "a"), rawStatus(11, "b")}
	for i := 0; i < 2; i++ {
		if _, err := e.IngestPage(page); err != nil {
			t.Fatal(err)
		}
	}
	n, err := db.CountStatuses()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestIngestPageSkipsBadItems(t *testing.T) {
	db := testDB(t)
	e := NewEngine(db, bus.New(), nil)

	n, err := e.IngestPage([][]byte{
		[]byte(`not json`),
		[]byte(`{"text":"no id"}`),
		rawStatus(7, "ok"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("ingested %d, want 1", n)
	}
}

func TestIngestPagePrunes(t *testing.T) {
	db := testDB(t)
	e := NewEngine(db, bus.New(), nil)
	e.keep = 3

	var page [][]byte
	for id := int64(1); id <= 5; id++ {
		page = append(page, rawStatus(id, "x"))
	}
	if _, err := e.IngestPage(page); err != nil {
		t.Fatal(err)
	}
	list, err := db.ListStatuses(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[2].ID != 3 {
		t.Errorf("kept %d statuses, oldest %d", len(list), list[len(list)-1].ID)
	}
}

func TestCursorFollowsPrunedCache(t *testing.T) {
	db := testDB(t)
	e := NewEngine(db, bus.New(), nil)
	e.keep = 3

	var page [][]byte
	for id := int64(1); id <= 5; id++ {
		page = append(page, rawStatus(id, "x"))
	}
	if _, err := e.IngestPage(page); err != nil {
		t.Fatal(err)
	}

	// Ids 1 and 2 were pruned; the range must not point at them.
	newest, oldest, err := e.Cursor().Range()
	if err != nil {
		t.Fatal(err)
	}
	if newest != 5 || oldest != 3 {
		t.Errorf("range = %d..%d, want 3..5", oldest, newest)
	}

	if err := e.Cursor().Reset(); err != nil {
		t.Fatal(err)
	}
	newest, oldest, _ = e.Cursor().Range()
	if newest != 0 || oldest != 0 {
		t.Errorf("after reset = %d..%d", oldest, newest)
	}
	n, err := db.CountStatuses()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("after reset %d statuses cached, want 0", n)
	}
}

// TestEngineBusSubscription verifies the fetch→bus→cache decoupling.
func TestEngineBusSubscription(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	logger, _ := zap.NewDevelopment()
	e := NewEngine(db, b, logger)

	e.Start(context.Background())
	defer e.Stop()

	b.Emit(bus.KindTimeline, bus.TimelinePayload{Statuses: [][]byte{rawStatus(99, "bus")}})

	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := db.CountStatuses()
		if err != nil {
			t.Fatal(err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("got %d cached statuses, want 1 (bus subscription)", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
