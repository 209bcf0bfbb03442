package store

// CachedStatus is a timeline item kept for offline display.
type CachedStatus struct {
	ID         int64
	ScreenName string
	Raw        []byte // the status object as returned by the API
	CreatedAt  int64  // unix ms, 0 when unparseable
	FetchedAt  int64  // unix ms
}

// Outbox statuses.
const (
	OutboxQueued  = "queued"
	OutboxSending = "sending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxEntry is a status waiting to be posted.
type OutboxEntry struct {
	ID           int64
	ClientID     string
	Text         string
	ImagePath    string // empty for text-only posts
	Status       string
	ErrorMessage string
	ServerID     string
}
