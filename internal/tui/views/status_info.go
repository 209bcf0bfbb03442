package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/weibo/internal/tui/model"
	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusInfo displays one status in full.
type StatusInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewStatusInfo creates a new status detail view.
func NewStatusInfo(theme *ui.Theme) *StatusInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Status ")
	tv.SetTitleColor(theme.TitleColor)

	return &StatusInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (si *StatusInfo) Name() string { return "Status" }

// Init implements Component.
func (si *StatusInfo) Init() {}

// Start implements Component.
func (si *StatusInfo) Start() {}

// Stop implements Component.
func (si *StatusInfo) Stop() {}

// Hints implements Component.
func (si *StatusInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: "p", Description: "Photos"},
		{Key: "o", Description: "Links"},
	}
}

// Update renders vm.
func (si *StatusInfo) Update(vm *model.StatusViewModel) {
	si.Clear()
	si.ScrollToBeginning()
	if vm == nil {
		return
	}

	fg := colorNameFromTheme(si.theme.FgColor)
	ct := colorNameFromTheme(si.theme.CounterColor)
	s := vm.Status

	created := "-"
	if t := s.Created(); !t.IsZero() {
		created = t.Local().Format("2006-01-02 15:04:05")
	}
	source := vm.Source
	if source == "" {
		source = "-"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n [%s::b]Author:[-:-:-]   [%s]%s[-]\n", fg, ct, tview.Escape(vm.Author))
	fmt.Fprintf(&b, " [%s::b]ID:[-:-:-]       [%s]%d[-]\n", fg, ct, s.ID)
	fmt.Fprintf(&b, " [%s::b]Posted:[-:-:-]   [%s]%s[-]\n", fg, ct, created)
	fmt.Fprintf(&b, " [%s::b]Source:[-:-:-]   [%s]%s[-]\n", fg, ct, tview.Escape(source))
	fmt.Fprintf(&b, " [%s::b]Counts:[-:-:-]   [%s]%d reposts, %d comments, %d likes[-]\n\n",
		fg, ct, s.RepostsCount, s.CommentsCount, s.AttitudesCount)
	fmt.Fprintf(&b, " %s\n", tview.Escape(vm.Text))
	if vm.RetweetText != "" {
		fmt.Fprintf(&b, "\n [%s]│ %s[-]\n", ct, tview.Escape(vm.RetweetText))
	}
	if len(vm.Pictures) > 0 {
		fmt.Fprintf(&b, "\n [%s::b]Pictures:[-:-:-]\n", fg)
		for i, u := range vm.Pictures {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, tview.Escape(u))
		}
	}
	if len(vm.Links) > 0 {
		fmt.Fprintf(&b, "\n [%s::b]Links:[-:-:-]\n", fg)
		for i, u := range vm.Links {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, tview.Escape(u))
		}
	}

	_, _ = fmt.Fprint(si, b.String())
	si.SetTitle(fmt.Sprintf(" %s ", tview.Escape(vm.Author)))
}
