package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/weibo/internal/tui/model"
	"github.com/matheus3301/weibo/internal/tui/ui"
	"github.com/rivo/tview"
)

// rowRenderer turns one layout line of a status into a table cell.
type rowRenderer func(theme *ui.Theme, line model.Line) *tview.TableCell

// renderers maps a row's ReuseID to the renderer for its lines.
var renderers = map[string]rowRenderer{
	model.ReuseOriginal:  renderOriginal,
	model.ReuseRetweeted: renderRetweeted,
}

// HomeView is the home timeline. Each status spans RowHeight table rows;
// the cursor always rests on a status's first row.
type HomeView struct {
	*tview.Table
	theme *ui.Theme
	list  *model.StatusListViewModel

	filter  string
	visible []int // list indices currently shown
	starts  []int // first table row of each visible status
	owner   []int // table row -> position in visible

	screenName string
	titleOpen  bool
	unread     int
	loading    bool
	width      int

	onLast   func()
	onSelect func(vm *model.StatusViewModel)
}

// NewHomeView creates the home timeline table over list.
func NewHomeView(theme *ui.Theme, list *model.StatusListViewModel) *HomeView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	hv := &HomeView{
		Table: table,
		theme: theme,
		list:  list,
	}

	table.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch {
		case ev.Key() == tcell.KeyDown, ev.Key() == tcell.KeyRune && ev.Rune() == 'j':
			hv.move(1)
			return nil
		case ev.Key() == tcell.KeyUp, ev.Key() == tcell.KeyRune && ev.Rune() == 'k':
			hv.move(-1)
			return nil
		case ev.Key() == tcell.KeyHome, ev.Key() == tcell.KeyRune && ev.Rune() == 'g':
			hv.selectPos(0)
			return nil
		}
		return ev
	})
	table.SetSelectedFunc(func(row, _ int) {
		if vm := hv.Selected(); vm != nil && hv.onSelect != nil {
			hv.onSelect(vm)
		}
	})

	hv.updateTitle()
	return hv
}

// Name implements Component.
func (hv *HomeView) Name() string { return "Home" }

// Init implements Component.
func (hv *HomeView) Init() {}

// Start implements Component.
func (hv *HomeView) Start() {}

// Stop implements Component.
func (hv *HomeView) Stop() {}

// Hints implements Component.
func (hv *HomeView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "r", Description: "Refresh"},
		{Key: "l", Description: "Load more"},
		{Key: "Enter", Description: "Details"},
		{Key: "p", Description: "Photos"},
		{Key: "o", Description: "Links"},
		{Key: "c", Description: "Compose"},
		{Key: "/", Description: "Filter"},
		{Key: "?", Description: "Help"},
	}
}

// SetOnLast sets the callback fired when the cursor reaches the last status.
func (hv *HomeView) SetOnLast(fn func()) { hv.onLast = fn }

// SetOnSelect sets the callback for Enter on a status.
func (hv *HomeView) SetOnSelect(fn func(vm *model.StatusViewModel)) { hv.onSelect = fn }

// SetScreenName sets the account name shown in the title.
func (hv *HomeView) SetScreenName(name string) {
	hv.screenName = name
	hv.updateTitle()
}

// ToggleTitle flips the expanded state of the title, which then also shows
// the row count and filter.
func (hv *HomeView) ToggleTitle() {
	hv.titleOpen = !hv.titleOpen
	hv.updateTitle()
}

// SetUnread sets the unread badge.
func (hv *HomeView) SetUnread(n int) {
	hv.unread = n
	hv.updateTitle()
}

// SetLoading shows or hides the loading marker.
func (hv *HomeView) SetLoading(on bool) {
	hv.loading = on
	hv.updateTitle()
}

// SetFilter shows only statuses whose text contains filter.
func (hv *HomeView) SetFilter(filter string) {
	hv.filter = filter
	hv.Reload()
}

// ClearFilter clears the active filter.
func (hv *HomeView) ClearFilter() {
	hv.SetFilter("")
}

// Draw lays rows out again when the width changed.
func (hv *HomeView) Draw(screen tcell.Screen) {
	_, _, w, _ := hv.GetInnerRect()
	if w > 2 && w != hv.width {
		hv.width = w
		hv.list.SetWidth(w - 2)
		hv.Reload()
	}
	hv.Table.Draw(screen)
}

// Reload re-renders all rows, keeping the selected status when possible.
func (hv *HomeView) Reload() {
	var keep int64
	if vm := hv.Selected(); vm != nil {
		keep = vm.ID()
	}

	hv.Clear()
	hv.visible = hv.visible[:0]
	hv.starts = hv.starts[:0]
	hv.owner = hv.owner[:0]

	width := hv.list.Width()
	row := 0
	for i, vm := range hv.list.Rows() {
		if hv.filter != "" && !matches(vm, hv.filter) {
			continue
		}
		render := renderers[vm.ReuseID()]
		pos := len(hv.visible)
		hv.visible = append(hv.visible, i)
		hv.starts = append(hv.starts, row)
		for _, line := range vm.Layout(width) {
			hv.SetCell(row, 0, render(hv.theme, line).SetExpansion(1))
			hv.owner = append(hv.owner, pos)
			row++
		}
	}

	hv.updateTitle()
	if len(hv.visible) == 0 {
		return
	}
	for pos, i := range hv.visible {
		if vm := hv.list.At(i); vm != nil && vm.ID() == keep {
			hv.Select(hv.starts[pos], 0)
			return
		}
	}
	hv.Select(hv.starts[0], 0)
}

// ScrollToTop selects the newest status.
func (hv *HomeView) ScrollToTop() {
	hv.selectPos(0)
}

// Selected returns the status under the cursor, or nil.
func (hv *HomeView) Selected() *model.StatusViewModel {
	pos := hv.selectedPos()
	if pos < 0 {
		return nil
	}
	return hv.list.At(hv.visible[pos])
}

// Photos builds the photo browser hand-off for the selected status.
func (hv *HomeView) Photos() (BrowsePhotos, bool) {
	vm := hv.Selected()
	if vm == nil || len(vm.Pictures) == 0 {
		return BrowsePhotos{}, false
	}
	msg := BrowsePhotos{URLs: append([]string(nil), vm.Pictures...)}
	for i, u := range vm.Pictures {
		tv := tview.NewTextView().SetDynamicColors(true)
		tv.SetBackgroundColor(hv.theme.BgColor)
		tv.SetTextColor(hv.theme.FgColor)
		_, _ = fmt.Fprintf(tv, "[%d] %s", i+1, tview.Escape(u))
		msg.ImageViews = append(msg.ImageViews, tv)
	}
	return msg, true
}

func (hv *HomeView) selectedPos() int {
	row, _ := hv.GetSelection()
	if row < 0 || row >= len(hv.owner) {
		return -1
	}
	return hv.owner[row]
}

func (hv *HomeView) move(delta int) {
	pos := hv.selectedPos()
	if pos < 0 {
		hv.selectPos(0)
		return
	}
	hv.selectPos(pos + delta)
}

func (hv *HomeView) selectPos(pos int) {
	if len(hv.starts) == 0 {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(hv.starts) {
		pos = len(hv.starts) - 1
	}
	hv.Select(hv.starts[pos], 0)
	if pos == len(hv.starts)-1 && hv.filter == "" && hv.onLast != nil {
		hv.onLast()
	}
}

func (hv *HomeView) updateTitle() {
	name := hv.screenName
	if name == "" {
		name = "Home"
	} else {
		name = "@" + name
	}
	arrow := "▾"
	if hv.titleOpen {
		arrow = "▴"
	}
	title := fmt.Sprintf(" %s %s ", tview.Escape(name), arrow)
	if hv.titleOpen {
		title += fmt.Sprintf("(%d) ", len(hv.visible))
		if hv.filter != "" {
			title += fmt.Sprintf("filter: %s ", tview.Escape(hv.filter))
		}
	}
	if hv.unread > 0 {
		title += fmt.Sprintf("[%s::b]%d new[-:-:-] ", colorNameFromTheme(hv.theme.CounterColor), hv.unread)
	}
	if hv.loading {
		title += "~ "
	}
	hv.SetTitle(title)
}

func matches(vm *model.StatusViewModel, filter string) bool {
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(vm.Text), f) ||
		strings.Contains(strings.ToLower(vm.Author), f) ||
		strings.Contains(strings.ToLower(vm.RetweetText), f)
}

func renderOriginal(theme *ui.Theme, line model.Line) *tview.TableCell {
	cell := tview.NewTableCell(" " + tview.Escape(line.Text)).SetTextColor(theme.FgColor)
	switch line.Kind {
	case model.LineHeader:
		cell.SetTextColor(theme.TableHeaderFg).SetAttributes(tcell.AttrBold)
	case model.LinePictures:
		cell.SetTextColor(theme.PictureColor)
	case model.LineToolbar:
		cell.SetTextColor(theme.ToolbarColor)
	case model.LineSeparator:
		cell.SetTextColor(theme.SeparatorColor)
	}
	return cell
}

func renderRetweeted(theme *ui.Theme, line model.Line) *tview.TableCell {
	if line.Kind != model.LineRetweet {
		return renderOriginal(theme, line)
	}
	return tview.NewTableCell(" │ " + tview.Escape(line.Text)).
		SetTextColor(theme.RetweetColor)
}

func colorNameFromTheme(c interface{ Hex() int32 }) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
