package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

const menuRows = 6

// MenuHint is one key shortcut shown in the menu. Numeric hints get their
// own color.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool
}

// Menu displays keyboard shortcut hints in columns of up to six rows.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders menu hints column by column.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, m.layout(hints))
}

func (m *Menu) layout(hints []MenuHint) string {
	keyColor := colorName(m.theme.MenuKeyColor)
	numColor := colorName(m.theme.NumericKeyColor)

	width := 0
	for _, h := range hints {
		if w := len(h.Key) + len(h.Description) + 3; w > width {
			width = w
		}
	}

	rows := make([]strings.Builder, menuRows)
	for i, h := range hints {
		kc := keyColor
		if h.Numeric {
			kc = numColor
		}
		cell := fmt.Sprintf("<%s> %s", h.Key, h.Description)
		pad := strings.Repeat(" ", width-len(cell)+1)
		fmt.Fprintf(&rows[i%menuRows], "[%s::b]<%s>[-:-:-] %s%s", kc, tview.Escape(h.Key), h.Description, pad)
	}

	var b strings.Builder
	for i := range rows {
		if rows[i].Len() == 0 {
			break
		}
		b.WriteString(strings.TrimRight(rows[i].String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
