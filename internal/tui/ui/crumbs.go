package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Crumbs is a breadcrumb bar showing the page stack. A page may carry a
// count, drawn next to its name.
type Crumbs struct {
	*tview.TextView
	theme  *Theme
	root   string
	counts map[string]int
	stack  []string
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
		counts:   make(map[string]int),
	}
}

// SetRoot sets a label drawn before the first crumb, usually the session.
func (c *Crumbs) SetRoot(label string) {
	c.root = label
	c.render()
}

// SetCount attaches n to the crumb of page name. Negative n removes it.
func (c *Crumbs) SetCount(name string, n int) {
	if n < 0 {
		delete(c.counts, name)
	} else {
		c.counts[name] = n
	}
	c.render()
}

// Update renders the breadcrumb trail from the page stack.
func (c *Crumbs) Update(stack []string) {
	c.stack = append(c.stack[:0], stack...)
	c.render()
}

func (c *Crumbs) render() {
	c.Clear()
	if len(c.stack) == 0 {
		return
	}

	var parts []string
	if c.root != "" {
		parts = append(parts, fmt.Sprintf("[%s::b]%s[-:-:-]", colorName(c.theme.TitleColor), tview.Escape(c.root)))
	}
	for i, name := range c.stack {
		label := name
		if n, ok := c.counts[name]; ok {
			label = fmt.Sprintf("%s(%d)", name, n)
		}
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(c.stack)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		parts = append(parts, fmt.Sprintf("[%s:%s:%s] %s [-:-:-]", colorName(fg), colorName(bg), attr, label))
	}
	_, _ = fmt.Fprint(c, " "+strings.Join(parts, " > "))
}

// colorName returns a tview-compatible color name string.
func colorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
