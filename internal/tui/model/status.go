package model

import (
	"fmt"

	"github.com/matheus3301/weibo/internal/weibo"
)

// Reuse identifiers select the row renderer for a status.
const (
	ReuseOriginal  = "original"
	ReuseRetweeted = "retweeted"
)

// retweetIndent is the left margin of the embedded retweet block.
const retweetIndent = 2

// StatusViewModel holds the display-ready form of one status. Text is cleaned
// once at construction; the row height is cached per width.
type StatusViewModel struct {
	Status *weibo.Status

	Author      string
	Text        string
	Source      string
	RetweetText string
	Pictures    []string
	Links       []string

	width     int
	rowHeight int
}

// NewStatusViewModel prepares s for display at the given width.
func NewStatusViewModel(s *weibo.Status, width int) *StatusViewModel {
	vm := &StatusViewModel{
		Status: s,
		Author: CleanText(s.ScreenName()),
		Text:   CleanText(s.Text),
		Source: CleanText(s.Source),
	}

	pics := s.PicURLs
	if rt := s.RetweetedStatus; rt != nil {
		name := CleanText(rt.ScreenName())
		if name == "" {
			vm.RetweetText = CleanText(rt.Text)
		} else {
			vm.RetweetText = fmt.Sprintf("@%s: %s", name, CleanText(rt.Text))
		}
		if len(rt.PicURLs) > 0 {
			pics = rt.PicURLs
		}
	}
	for _, p := range pics {
		if u := p.LargeURL(); u != "" {
			vm.Pictures = append(vm.Pictures, u)
		}
	}
	vm.Links = Links(vm.Text + "\n" + vm.RetweetText)

	vm.SetWidth(width)
	return vm
}

// ID is the status id.
func (vm *StatusViewModel) ID() int64 {
	return vm.Status.ID
}

// ReuseID selects the row layout: statuses that embed a retweet use a
// different renderer than original ones.
func (vm *StatusViewModel) ReuseID() string {
	if vm.Status.RetweetedStatus != nil {
		return ReuseRetweeted
	}
	return ReuseOriginal
}

// SetWidth recomputes the row height when the available width changes.
func (vm *StatusViewModel) SetWidth(width int) {
	if width < 1 {
		width = 1
	}
	if width == vm.width && vm.rowHeight > 0 {
		return
	}
	vm.width = width
	vm.rowHeight = len(vm.Layout(width))
}

// RowHeight is the number of terminal lines the row occupies.
func (vm *StatusViewModel) RowHeight() int {
	return vm.rowHeight
}

// Line kinds produced by Layout.
const (
	LineHeader = iota
	LineText
	LineRetweet
	LinePictures
	LineToolbar
	LineSeparator
)

// Line is one rendered terminal line of a row.
type Line struct {
	Kind int
	Text string
}

// Layout returns the lines of the row at width: header, wrapped text, the
// retweet block, a picture line, the toolbar and a blank separator.
func (vm *StatusViewModel) Layout(width int) []Line {
	if width < 1 {
		width = 1
	}
	lines := []Line{{Kind: LineHeader, Text: vm.header()}}
	for _, l := range Wrap(vm.Text, width) {
		lines = append(lines, Line{Kind: LineText, Text: l})
	}
	if vm.ReuseID() == ReuseRetweeted {
		inner := width - retweetIndent
		for _, l := range Wrap(vm.RetweetText, inner) {
			lines = append(lines, Line{Kind: LineRetweet, Text: l})
		}
		lines = append(lines, Line{Kind: LineRetweet})
	}
	if len(vm.Pictures) > 0 {
		lines = append(lines, Line{Kind: LinePictures, Text: fmt.Sprintf("[%d picture(s), p to view]", len(vm.Pictures))})
	}
	lines = append(lines,
		Line{Kind: LineToolbar, Text: vm.toolbar()},
		Line{Kind: LineSeparator},
	)
	return lines
}

func (vm *StatusViewModel) header() string {
	h := vm.Author
	if h == "" {
		h = "unknown"
	}
	if t := vm.Status.Created(); !t.IsZero() {
		h += "  " + t.Local().Format("01-02 15:04")
	}
	if vm.Source != "" {
		h += "  via " + vm.Source
	}
	return h
}

func (vm *StatusViewModel) toolbar() string {
	s := vm.Status
	return fmt.Sprintf("reposts %d  comments %d  likes %d", s.RepostsCount, s.CommentsCount, s.AttitudesCount)
}
