package weibo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"
)

// Account is the signed-in user: credentials from the token exchange plus the
// display fields loaded from user info.
type Account struct {
	UID         string
	AccessToken string
	ExpiresIn   int64 // seconds, as returned by the token endpoint
	ExpiresAt   time.Time
	ScreenName  string
	AvatarLarge string
}

// AccountSaver persists an account after a successful login.
type AccountSaver interface {
	SaveAccount(ctx context.Context, acct *Account) error
}

// Merge copies the known account fields present in d onto a. Keys that are
// absent leave the existing value untouched.
func (a *Account) Merge(d Dict) {
	a.mergeAt(d, time.Now())
}

func (a *Account) mergeAt(d Dict, now time.Time) {
	if v, ok := stringValue(d["uid"]); ok {
		a.UID = v
	}
	if v, ok := stringValue(d["access_token"]); ok {
		a.AccessToken = v
	}
	if v, ok := int64Value(d["expires_in"]); ok {
		a.ExpiresIn = v
		a.ExpiresAt = now.Add(time.Duration(v) * time.Second)
	}
	if v, ok := stringValue(d["screen_name"]); ok {
		a.ScreenName = v
	}
	if v, ok := stringValue(d["avatar_large"]); ok {
		a.AvatarLarge = v
	}
}

// IsLoggedIn reports whether the account holds a token that has not expired.
func (a *Account) IsLoggedIn() bool {
	if a == nil || a.AccessToken == "" {
		return false
	}
	return a.ExpiresAt.IsZero() || time.Now().Before(a.ExpiresAt)
}

// Clone returns a copy safe to hand to another goroutine.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

func int64Value(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case float64:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	}
	return 0, false
}
