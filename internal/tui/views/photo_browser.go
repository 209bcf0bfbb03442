package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/rivo/tview"
)

// BrowsePhotos asks the app to open the photo browser. ImageViews are the
// on-screen placeholders of the pictures, one per URL.
type BrowsePhotos struct {
	SelectedIndex int
	URLs          []string
	ImageViews    []tview.Primitive
}

// Valid reports whether the message can be shown.
func (m BrowsePhotos) Valid() bool {
	return len(m.URLs) > 0 && m.SelectedIndex >= 0 && m.SelectedIndex < len(m.URLs)
}

// PhotoBrowser pages through the pictures of one status.
type PhotoBrowser struct {
	*tview.Flex
	theme    *ui.Theme
	strip    *tview.Flex
	detail   *tview.TextView
	msg      BrowsePhotos
	selected int
	onOpen   func(url string)
}

// NewPhotoBrowser creates an empty photo browser.
func NewPhotoBrowser(theme *ui.Theme) *PhotoBrowser {
	detail := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	detail.SetBackgroundColor(theme.BgColor)
	detail.SetTextColor(theme.FgColor)

	strip := tview.NewFlex().SetDirection(tview.FlexRow)
	strip.SetBackgroundColor(theme.BgColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(detail, 0, 1, true).
		AddItem(strip, 0, 1, false)
	flex.SetBorder(true)
	flex.SetBorderColor(theme.BorderColor)
	flex.SetBackgroundColor(theme.BgColor)
	flex.SetTitleColor(theme.TitleColor)

	pb := &PhotoBrowser{
		Flex:   flex,
		theme:  theme,
		strip:  strip,
		detail: detail,
	}

	flex.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch {
		case ev.Key() == tcell.KeyRight, ev.Key() == tcell.KeyRune && (ev.Rune() == 'l' || ev.Rune() == 'n'):
			pb.Step(1)
			return nil
		case ev.Key() == tcell.KeyLeft, ev.Key() == tcell.KeyRune && (ev.Rune() == 'h' || ev.Rune() == 'N'):
			pb.Step(-1)
			return nil
		case ev.Key() == tcell.KeyEnter:
			if pb.onOpen != nil && pb.msg.Valid() {
				pb.onOpen(pb.msg.URLs[pb.selected])
			}
			return nil
		}
		return ev
	})
	return pb
}

// Name implements Component.
func (pb *PhotoBrowser) Name() string { return "Photos" }

// Init implements Component.
func (pb *PhotoBrowser) Init() {}

// Start implements Component.
func (pb *PhotoBrowser) Start() {}

// Stop implements Component.
func (pb *PhotoBrowser) Stop() {}

// Hints implements Component.
func (pb *PhotoBrowser) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "←/→", Description: "Previous/next"},
		{Key: "Enter", Description: "Open in browser"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnOpen sets the callback for opening the current picture.
func (pb *PhotoBrowser) SetOnOpen(fn func(url string)) { pb.onOpen = fn }

// Show loads msg. Invalid messages are ignored and false is returned.
func (pb *PhotoBrowser) Show(msg BrowsePhotos) bool {
	if !msg.Valid() {
		return false
	}
	pb.msg = msg
	pb.selected = msg.SelectedIndex

	pb.strip.Clear()
	for _, v := range msg.ImageViews {
		if v != nil {
			pb.strip.AddItem(v, 1, 0, false)
		}
	}
	pb.render()
	return true
}

// Selected returns the index of the current picture.
func (pb *PhotoBrowser) Selected() int { return pb.selected }

// Step moves the selection by delta, wrapping around.
func (pb *PhotoBrowser) Step(delta int) {
	n := len(pb.msg.URLs)
	if n == 0 {
		return
	}
	pb.selected = ((pb.selected+delta)%n + n) % n
	pb.render()
}

func (pb *PhotoBrowser) render() {
	n := len(pb.msg.URLs)
	pb.SetTitle(fmt.Sprintf(" Photo %d/%d ", pb.selected+1, n))

	pb.detail.Clear()
	_, _ = fmt.Fprintf(pb.detail, "\n\n[%s::b]%s[-:-:-]\n\n[::d]Enter opens it in the system browser",
		colorNameFromTheme(pb.theme.CounterColor), tview.Escape(pb.msg.URLs[pb.selected]))

	for i, v := range pb.msg.ImageViews {
		tv, ok := v.(*tview.TextView)
		if !ok {
			continue
		}
		if i == pb.selected {
			tv.SetBackgroundColor(pb.theme.TableCursorBg)
			tv.SetTextColor(pb.theme.TableCursorFg)
		} else {
			tv.SetBackgroundColor(pb.theme.BgColor)
			tv.SetTextColor(pb.theme.FgColor)
		}
	}
}
