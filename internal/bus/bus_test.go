package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	b.Emit(KindStatusChanged, "test")

	select {
	case evt := <-ch:
		if evt.Kind != KindStatusChanged {
			t.Errorf("got kind %q, want %s", evt.Kind, KindStatusChanged)
		}
		if evt.Timestamp.IsZero() {
			t.Error("Emit did not stamp the event")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("remind.", 10)
	defer unsub()

	b.Emit(KindStatusChanged, nil)
	b.Emit(KindUnread, UnreadPayload{Count: 4})

	select {
	case evt := <-ch:
		if evt.Kind != KindUnread {
			t.Errorf("got kind %q, want %s", evt.Kind, KindUnread)
		}
		if p, ok := evt.Payload.(UnreadPayload); !ok || p.Count != 4 {
			t.Errorf("payload = %#v", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStatusNamespaceMatchesPostEvents(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("status.", 10)
	defer unsub()

	b.Emit(KindPostAck, PostPayload{ClientID: "c1"})
	b.Emit(KindPostFailed, PostPayload{ClientID: "c2", Error: "x"})

	for _, want := range []string{KindPostAck, KindPostFailed} {
		select {
		case evt := <-ch:
			if evt.Kind != want {
				t.Errorf("got %q, want %q", evt.Kind, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %s", want)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("session.", 10)
	unsub()

	b.Emit(KindStatusChanged, nil)

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("timeline.", 1)
	defer unsub()

	b.Publish(Event{Kind: KindTimeline, Payload: "one"})
	b.Publish(Event{Kind: KindTimeline, Payload: "two"})

	evt := <-ch
	if evt.Payload != "one" {
		t.Errorf("got %v, want one", evt.Payload)
	}
	if b.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", b.Dropped())
	}
}

func TestSubscribeAny(t *testing.T) {
	b := New()
	ch, unsub := b.SubscribeAny([]string{"remind.", "session."}, 10)
	defer unsub()

	b.Emit(KindTimeline, nil)
	b.Emit(KindUnread, nil)
	b.Emit(KindPostAck, nil)
	b.Emit(KindStatusChanged, nil)

	var got []string
	for len(got) < 2 {
		select {
		case evt := <-ch:
			got = append(got, evt.Kind)
		case <-time.After(time.Second):
			t.Fatalf("got %v, want two events", got)
		}
	}
	if got[0] != KindUnread || got[1] != KindStatusChanged {
		t.Errorf("got %v", got)
	}
	select {
	case evt := <-ch:
		t.Errorf("unexpected event %s", evt.Kind)
	default:
	}
}
