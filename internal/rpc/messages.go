package rpc

import "encoding/json"

// Session states as reported by GetStatus.
const (
	StateBooting      = "BOOTING"
	StateAuthRequired = "AUTH_REQUIRED"
	StateAuthorizing  = "AUTHORIZING"
	StateReady        = "READY"
	StateDegraded     = "DEGRADED"
	StateError        = "ERROR"
)

type GetStatusRequest struct{}

type GetStatusResponse struct {
	Session        string `json:"session"`
	Status         string `json:"status"`
	UptimeMs       int64  `json:"uptime_ms"`
	LoggedIn       bool   `json:"logged_in"`
	UID            string `json:"uid,omitempty"`
	ScreenName     string `json:"screen_name,omitempty"`
	AvatarLarge    string `json:"avatar_large,omitempty"`
	ExpiresAtMs    int64  `json:"expires_at_ms,omitempty"`
	CachedStatuses int    `json:"cached_statuses"`
	PendingPosts   int    `json:"pending_posts"`
}

type GetAuthorizeURLRequest struct{}

type GetAuthorizeURLResponse struct {
	URL         string `json:"url"`
	RedirectURI string `json:"redirect_uri"`
}

type ExchangeCodeRequest struct {
	Code string `json:"code"`
}

// ExchangeCodeResponse reports the outcome of the OAuth code exchange.
// Success mirrors the token stage; NoUID is set when the flow stopped
// because no user id was available.
type ExchangeCodeResponse struct {
	Success    bool   `json:"success"`
	NoUID      bool   `json:"no_uid,omitempty"`
	ScreenName string `json:"screen_name,omitempty"`
	Error      string `json:"error,omitempty"`
}

type LogoutRequest struct{}

type LogoutResponse struct {
	Success bool `json:"success"`
}

// FetchStatusesRequest asks for one home-timeline page. Zero ids mean
// "no bound".
type FetchStatusesRequest struct {
	SinceID int64 `json:"since_id,omitempty"`
	MaxID   int64 `json:"max_id,omitempty"`
}

// FetchStatusesResponse carries raw status objects. Present is false when
// the API answered without a usable statuses array.
type FetchStatusesResponse struct {
	Statuses []json.RawMessage `json:"statuses"`
	Present  bool              `json:"present"`
}

type ListCachedRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListCachedResponse struct {
	Statuses []json.RawMessage `json:"statuses"`
	NewestID int64             `json:"newest_id,omitempty"`
	OldestID int64             `json:"oldest_id,omitempty"`
}

type PostRequest struct {
	ClientID  string `json:"client_id"`
	Text      string `json:"text"`
	ImagePath string `json:"image_path,omitempty"`
}

type PostResponse struct {
	ClientID string `json:"client_id"`
	Queued   bool   `json:"queued"`
}

type GetPostRequest struct {
	ClientID string `json:"client_id"`
}

type GetPostResponse struct {
	ClientID string `json:"client_id"`
	Status   string `json:"status"`
	ServerID string `json:"server_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type GetUnreadRequest struct{}

// GetUnreadResponse is the last unread count. Known is false until the
// daemon has completed one unread check.
type GetUnreadResponse struct {
	Count int  `json:"count"`
	Known bool `json:"known"`
}

// WatchEventsRequest subscribes to bus events whose kind starts with one
// of the namespaces. An empty list means all events.
type WatchEventsRequest struct {
	Namespaces []string `json:"namespaces,omitempty"`
}

// Event is one bus event relayed to a client.
type Event struct {
	ID           string          `json:"id"`
	Session      string          `json:"session"`
	Kind         string          `json:"kind"`
	OccurredAtMs int64           `json:"occurred_at_ms"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}
