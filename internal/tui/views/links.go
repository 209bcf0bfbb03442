package views

import (
	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/rivo/tview"
)

// LinkList lets the user pick one of the links of a status.
type LinkList struct {
	*tview.List
	theme  *ui.Theme
	links  []string
	onOpen func(url string)
}

// NewLinkList creates an empty link list.
func NewLinkList(theme *ui.Theme) *LinkList {
	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true)
	list.SetBorderColor(theme.BorderColor)
	list.SetBackgroundColor(theme.BgColor)
	list.SetMainTextColor(theme.FgColor)
	list.SetSelectedTextColor(theme.TableCursorFg)
	list.SetSelectedBackgroundColor(theme.TableCursorBg)
	list.SetTitle(" Links ")
	list.SetTitleColor(theme.TitleColor)

	ll := &LinkList{List: list, theme: theme}
	list.SetSelectedFunc(func(i int, _ string, _ string, _ rune) {
		if ll.onOpen != nil && i >= 0 && i < len(ll.links) {
			ll.onOpen(ll.links[i])
		}
	})
	return ll
}

// Name implements Component.
func (ll *LinkList) Name() string { return "Links" }

// Init implements Component.
func (ll *LinkList) Init() {}

// Start implements Component.
func (ll *LinkList) Start() {}

// Stop implements Component.
func (ll *LinkList) Stop() {}

// Hints implements Component.
func (ll *LinkList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open in browser"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnOpen sets the callback for a chosen link.
func (ll *LinkList) SetOnOpen(fn func(url string)) { ll.onOpen = fn }

// Update replaces the links. It returns false when there are none.
func (ll *LinkList) Update(links []string) bool {
	ll.Clear()
	ll.links = append([]string(nil), links...)
	for i, l := range ll.links {
		shortcut := rune(0)
		if i < 9 {
			shortcut = rune('1' + i)
		}
		ll.AddItem(tview.Escape(l), "", shortcut, nil)
	}
	return len(ll.links) > 0
}
