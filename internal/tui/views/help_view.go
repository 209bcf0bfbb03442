package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Init implements Component.
func (hv *HelpView) Init() {}

// Start implements Component.
func (hv *HelpView) Start() {}

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	kc := colorNameFromTheme(hv.theme.MenuKeyColor)
	hc := colorNameFromTheme(hv.theme.TitleColor)

	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Global", [][2]string{
			{":", "Command mode"}, {"/", "Filter the timeline"},
			{"?", "Help"}, {"Esc", "Back"},
			{"q", "Quit"}, {"Ctrl-C", "Quit immediately"},
		}},
		{"Home timeline", [][2]string{
			{"r", "Refresh (newer statuses)"}, {"l / End", "Load more (older statuses)"},
			{"j / k", "Next / previous status"}, {"g", "Back to the newest"},
			{"Enter", "Status details"}, {"p", "Browse the pictures"},
			{"o", "Open a link"}, {"c", "Compose"},
			{"t", "Toggle the title details"},
		}},
		{"Photo browser", [][2]string{
			{"← / →", "Previous / next picture"}, {"Enter", "Open in browser"},
		}},
		{"Commands", [][2]string{
			{":refresh", "Refresh"}, {":more", "Load more"},
			{":post <text>", "Post a status right away"}, {":compose", "Open the composer"},
			{":login", "Sign in"}, {":logout", "Sign out"},
			{":help", "Show this help"}, {":quit", "Quit"},
		}},
	}

	var b strings.Builder
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n  [%s::b]%s[-:-:-]\n\n", hc, sec.title)
		for _, k := range sec.keys {
			fmt.Fprintf(&b, "  [%s]%-14s[-:-:-] %s\n", kc, tview.Escape(k[0]), k[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
