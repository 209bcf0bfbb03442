package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar displays the session, its state, the account and the unread badge.
type StatusBar struct {
	*tview.TextView
	theme      *ui.Theme
	session    string
	status     string
	screenName string
	unread     int
	known      bool
	pending    int
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv, theme: theme}
}

// SetSession updates the session name display.
func (sb *StatusBar) SetSession(name string) {
	sb.session = name
	sb.render()
}

// SetStatus updates the session state display.
func (sb *StatusBar) SetStatus(status string) {
	sb.status = status
	sb.render()
}

// SetAccount updates the signed-in account name.
func (sb *StatusBar) SetAccount(screenName string) {
	sb.screenName = screenName
	sb.render()
}

// SetUnread updates the unread badge. Unknown counts show no badge.
func (sb *StatusBar) SetUnread(n int, known bool) {
	sb.unread, sb.known = n, known
	sb.render()
}

// SetPending updates the number of queued posts.
func (sb *StatusBar) SetPending(n int) {
	sb.pending = n
	sb.render()
}

// Text returns the rendered line without color tags.
func (sb *StatusBar) Text() string {
	return sb.GetText(true)
}

func (sb *StatusBar) render() {
	sb.Clear()

	account := "-"
	if sb.screenName != "" {
		account = "@" + sb.screenName
	}

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", tview.Escape(sb.session), sb.status, tview.Escape(account))
	if sb.known && sb.unread > 0 {
		line += fmt.Sprintf(" | [%s::b]%d unread[-:-:-]", colorNameFromTheme(sb.theme.UnreadColor), sb.unread)
	}
	if sb.pending > 0 {
		line += fmt.Sprintf(" | %d queued", sb.pending)
	}
	line += " | " + time.Now().Format("15:04")

	_, _ = fmt.Fprint(sb, line)
}
