package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// SessionData holds session information for display.
type SessionData struct {
	Session string
	Account string
	UID     string
	Status  string
	Cached  int
	Pending int
	Unread  int
	// UnreadKnown is false until the daemon has checked once.
	UnreadKnown bool
	Uptime      time.Duration
}

// SessionInfo displays session metadata in the header.
type SessionInfo struct {
	*tview.TextView
	theme *Theme
}

// NewSessionInfo creates a new session info panel.
func NewSessionInfo(theme *Theme) *SessionInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &SessionInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the session info.
func (si *SessionInfo) Update(data *SessionData) {
	si.Clear()
	if data == nil {
		return
	}

	fgColor := colorName(si.theme.FgColor)
	counterColor := colorName(si.theme.CounterColor)

	account := "-"
	if data.Account != "" {
		account = "@" + data.Account
	}
	uid := data.UID
	if uid == "" {
		uid = "-"
	}
	unread := "-"
	if data.UnreadKnown {
		unread = fmt.Sprint(data.Unread)
	}

	text := fmt.Sprintf(
		"[%s::b]Session:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Account:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]UID:[-:-:-]     [%s]%s[-]\n"+
			"[%s::b]Status:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Cached:[-:-:-]  [%s]%d[-]  [%s::b]Queued:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Unread:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Uptime:[-:-:-]  [%s]%s[-]",
		fgColor, counterColor, tview.Escape(data.Session),
		fgColor, counterColor, tview.Escape(account),
		fgColor, counterColor, uid,
		fgColor, counterColor, data.Status,
		fgColor, counterColor, data.Cached, fgColor, counterColor, data.Pending,
		fgColor, counterColor, unread,
		fgColor, counterColor, formatDuration(data.Uptime),
	)

	_, _ = fmt.Fprint(si, text)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
