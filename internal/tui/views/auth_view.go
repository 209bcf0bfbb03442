package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/rivo/tview"
)

// AuthView shows the sign-in URL as text and QR code and takes the
// authorization code from the redirect.
type AuthView struct {
	*tview.Flex
	theme  *ui.Theme
	info   *tview.TextView
	input  *tview.InputField
	onCode func(code string)
}

// NewAuthView creates a new auth view.
func NewAuthView(theme *ui.Theme) *AuthView {
	info := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	info.SetBackgroundColor(theme.BgColor)
	info.SetTextColor(theme.FgColor)

	input := tview.NewInputField().
		SetLabel(" Code: ").
		SetFieldWidth(0)
	input.SetBorder(true)
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(info, 0, 1, false).
		AddItem(input, 3, 0, true)
	flex.SetBorder(true)
	flex.SetBorderColor(theme.BorderColor)
	flex.SetBackgroundColor(theme.BgColor)
	flex.SetTitle(" Sign in to Weibo ")
	flex.SetTitleColor(theme.TitleColor)

	av := &AuthView{
		Flex:  flex,
		theme: theme,
		info:  info,
		input: input,
	}

	input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		code := ExtractCode(input.GetText())
		if code != "" && av.onCode != nil {
			av.onCode(code)
		}
	})
	return av
}

// Name implements Component.
func (av *AuthView) Name() string { return "Auth" }

// Init implements Component.
func (av *AuthView) Init() {}

// Start implements Component.
func (av *AuthView) Start() {}

// Stop implements Component.
func (av *AuthView) Stop() {}

// Hints implements Component.
func (av *AuthView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Submit code"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnCode sets the callback receiving the entered code.
func (av *AuthView) SetOnCode(fn func(code string)) { av.onCode = fn }

// Input returns the code field, for focusing.
func (av *AuthView) Input() *tview.InputField { return av.input }

// ShowURL renders the authorize URL and its QR code.
func (av *AuthView) ShowURL(authURL, redirectURI string) {
	av.info.Clear()
	av.input.SetText("")
	_, _ = fmt.Fprintf(av.info,
		"\n  Open this page and sign in:\n\n  [%s]%s[-]\n\n%s\n  [::d]You will land on %s?code=...\n  Paste the code, or the whole address, below.",
		colorNameFromTheme(av.theme.CounterColor), tview.Escape(authURL),
		renderQR(authURL), tview.Escape(redirectURI))
}

// ShowMessage displays a status message above the code field.
func (av *AuthView) ShowMessage(msg string) {
	av.info.Clear()
	_, _ = fmt.Fprintf(av.info, "\n\n%s", tview.Escape(msg))
}

// ExtractCode accepts either a bare code or a redirect URL carrying one.
func ExtractCode(input string) string {
	input = strings.TrimSpace(input)
	i := strings.Index(input, "code=")
	if i < 0 {
		return input
	}
	code := input[i+len("code="):]
	if j := strings.IndexAny(code, "&#"); j >= 0 {
		code = code[:j]
	}
	return code
}

// renderQR converts a string to a compact ASCII QR code using Unicode
// half-block characters. Two bitmap rows become one terminal line.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	var sb strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		sb.WriteString("  ")
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bot := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
