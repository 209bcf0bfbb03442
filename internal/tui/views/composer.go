package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/rivo/tview"
)

// Composer is the page for writing a new status.
type Composer struct {
	*tview.Flex
	theme  *ui.Theme
	text   *tview.TextArea
	image  *tview.InputField
	hint   *tview.TextView
	onSend func(text, imagePath string)
	focus  func(p tview.Primitive)
}

// NewComposer creates a new status composer.
func NewComposer(theme *ui.Theme) *Composer {
	text := tview.NewTextArea().
		SetPlaceholder("What's happening?")
	text.SetBorder(true)
	text.SetBorderColor(theme.BorderColor)
	text.SetBackgroundColor(theme.BgColor)
	text.SetTitle(" New status ")
	text.SetTitleColor(theme.TitleColor)

	image := tview.NewInputField().
		SetLabel(" Image: ").
		SetPlaceholder("optional path to a PNG, JPEG or GIF").
		SetFieldWidth(0)
	image.SetBackgroundColor(theme.BgColor)
	image.SetFieldBackgroundColor(theme.BgColor)
	image.SetFieldTextColor(theme.FgColor)
	image.SetLabelColor(theme.MenuKeyColor)

	hint := tview.NewTextView().SetDynamicColors(true)
	hint.SetBackgroundColor(theme.BgColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(text, 0, 1, true).
		AddItem(image, 1, 0, false).
		AddItem(hint, 1, 0, false)

	c := &Composer{
		Flex:  flex,
		theme: theme,
		text:  text,
		image: image,
		hint:  hint,
	}

	kc := colorNameFromTheme(theme.MenuKeyColor)
	_, _ = fmt.Fprintf(hint, " [%s]Ctrl-S[-] send  [%s]Tab[-] switch field  [%s]Esc[-] cancel", kc, kc, kc)

	flex.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Key() {
		case tcell.KeyCtrlS:
			c.submit()
			return nil
		case tcell.KeyTab, tcell.KeyBacktab:
			c.switchField()
			return nil
		}
		return ev
	})
	return c
}

// Name implements Component.
func (c *Composer) Name() string { return "Compose" }

// Init implements Component.
func (c *Composer) Init() {}

// Start implements Component.
func (c *Composer) Start() {}

// Stop implements Component.
func (c *Composer) Stop() {}

// Hints implements Component.
func (c *Composer) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Ctrl-S", Description: "Send"},
		{Key: "Tab", Description: "Switch field"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// SetOnSend sets the callback when a status is submitted.
func (c *Composer) SetOnSend(fn func(text, imagePath string)) {
	c.onSend = fn
}

// SetFocusFunc sets how the composer moves focus between its fields.
func (c *Composer) SetFocusFunc(fn func(p tview.Primitive)) {
	c.focus = fn
}

// TextArea returns the text input, for focusing.
func (c *Composer) TextArea() *tview.TextArea { return c.text }

// Reset clears both fields.
func (c *Composer) Reset() {
	c.text.SetText("", false)
	c.image.SetText("")
}

func (c *Composer) submit() {
	text := strings.TrimSpace(c.text.GetText())
	if text == "" || c.onSend == nil {
		return
	}
	c.onSend(text, strings.TrimSpace(c.image.GetText()))
	c.Reset()
}

func (c *Composer) switchField() {
	if c.focus == nil {
		return
	}
	if c.text.HasFocus() {
		c.focus(c.image)
		return
	}
	c.focus(c.text)
}
