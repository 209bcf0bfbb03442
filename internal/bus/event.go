package bus

import "time"

// Event kinds published by the daemon.
const (
	KindStatusChanged = "session.status_changed"
	KindTimeline      = "timeline.fetched"
	KindUnread        = "remind.unread"
	KindPostAck       = "status.post_ack"
	KindPostFailed    = "status.post_failed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// TimelinePayload carries one fetched page of raw status objects.
type TimelinePayload struct {
	Statuses [][]byte
}

// UnreadPayload carries the latest unread count.
type UnreadPayload struct {
	Count int
}

// PostPayload reports the outcome of one outbox post.
type PostPayload struct {
	ClientID string
	ServerID string
	Error    string
}
