package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo displays the ASCII art logo and a state line under it.
type Logo struct {
	*tview.TextView
	theme *Theme
	state string
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(1, 0, 1, 0)

	l := &Logo{
		TextView: tv,
		theme:    theme,
	}
	l.render()
	return l
}

// SetState shows the daemon state under the logo.
func (l *Logo) SetState(state string) {
	if state == l.state {
		return
	}
	l.state = state
	l.render()
}

// stateColor maps a daemon state to a dot color.
func (l *Logo) stateColor() string {
	switch l.state {
	case "READY":
		return "green"
	case "DEGRADED", "AUTHORIZING":
		return colorName(l.theme.FlashWarnColor)
	case "ERROR", "AUTH_REQUIRED":
		return colorName(l.theme.FlashErrColor)
	}
	return colorName(l.theme.FgColor)
}

func (l *Logo) render() {
	l.Clear()
	title := colorName(l.theme.TitleColor)
	tagline := fmt.Sprintf("[%s]Terminal Weibo[-:-:-]", colorName(l.theme.FgColor))
	if l.state != "" {
		tagline = fmt.Sprintf("[%s]●[-] [%s]%s[-:-:-]", l.stateColor(), colorName(l.theme.FgColor), l.state)
	}

	_, _ = fmt.Fprintf(l, "[%[1]s::b] ╦ ╦╔═╗╦╔╗ ╔═╗[-:-:-]\n[%[1]s::b] ║║║║╣ ║╠╩╗║ ║[-:-:-]\n[%[1]s::b] ╚╩╝╚═╝╩╚═╝╚═╝[-:-:-]\n%[2]s",
		title, tagline)
}
