package ui

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rivo/tview"
	"google.golang.org/grpc/status"
)

// FlashLevel is the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// flashTTL is how long a message of each level stays on the bar.
var flashTTL = [...]time.Duration{
	FlashInfo: 5 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  10 * time.Second,
}

// FlashMessage is one notification.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

func (m FlashMessage) live(now time.Time) bool {
	return m.Text != "" && now.Before(m.Expires)
}

// FlashModel holds the latest notification and broadcasts each new one on
// Watch. Slow watchers miss messages rather than block callers.
type FlashModel struct {
	mu      sync.RWMutex
	current FlashMessage
	watchCh chan FlashMessage
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{watchCh: make(chan FlashMessage, 8)}
}

// Info flashes msg at info level.
func (f *FlashModel) Info(msg string) { f.set(msg, FlashInfo) }

// Warn flashes msg at warn level.
func (f *FlashModel) Warn(msg string) { f.set(msg, FlashWarn) }

// Err flashes err. Errors from the daemon show their status message without
// the gRPC code prefix.
func (f *FlashModel) Err(err error) { f.set(errorText(err), FlashErr) }

// Clear drops the current message.
func (f *FlashModel) Clear() { f.set("", FlashInfo) }

func errorText(err error) string {
	if err == nil {
		return ""
	}
	var se interface{ GRPCStatus() *status.Status }
	if !errors.As(err, &se) {
		return err.Error()
	}
	msg := se.GRPCStatus().Message()
	// A wrapped status reads "op: rpc error: code = ... desc = msg".
	if op, _, found := strings.Cut(err.Error(), ": rpc error:"); found {
		return op + ": " + msg
	}
	return msg
}

func (f *FlashModel) set(text string, level FlashLevel) {
	m := FlashMessage{Text: text, Level: level, Expires: time.Now().Add(flashTTL[level])}
	f.mu.Lock()
	f.current = m
	f.mu.Unlock()
	select {
	case f.watchCh <- m:
	default:
	}
}

// Get returns the live message text, or "".
func (f *FlashModel) Get() string {
	if m := f.GetMessage(); m != nil {
		return m.Text
	}
	return ""
}

// GetMessage returns the live message, or nil when there is none.
func (f *FlashModel) GetMessage() *FlashMessage {
	f.mu.RLock()
	m := f.current
	f.mu.RUnlock()
	if !m.live(time.Now()) {
		return nil
	}
	return &m
}

// Watch returns a channel that receives flash messages.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar is the UI component that displays flash notifications.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders a flash message on the bar.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}

	color, icon := colorName(fb.theme.FlashInfoColor), "ℹ"
	switch msg.Level {
	case FlashWarn:
		color, icon = colorName(fb.theme.FlashWarnColor), "!"
	case FlashErr:
		color, icon = colorName(fb.theme.FlashErrColor), "✗"
	}
	_, _ = fmt.Fprintf(fb, " [%s::b]%s[-:-:-] [%s]%s[-]", color, icon, color, tview.Escape(msg.Text))
}
