package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Component is a page of the app. Init runs once; Start and Stop run as
// the page comes to the top of the stack and leaves it. Hints feed the menu.
type Component interface {
	Name() string
	Init()
	Start()
	Stop()
	Hints() []MenuHint
}

// Pages shows one tview page at a time, the top of a navigation stack.
// Every change to the stack is reported to the OnChange callback.
type Pages struct {
	*tview.Pages
	stack    []string
	onChange func(stack []string)
}

// NewPages returns an empty page stack.
func NewPages() *Pages {
	return &Pages{Pages: tview.NewPages()}
}

// SetOnChange sets the stack change callback.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push shows name on top of the stack. Pushing the current page does nothing.
func (p *Pages) Push(name string) {
	if p.Current() == name {
		return
	}
	p.hideTop()
	p.stack = append(p.stack, name)
	p.show(name)
}

// Pop drops the top page and returns its name, or "" on an empty stack.
func (p *Pages) Pop() string {
	top := p.Current()
	if top == "" {
		return ""
	}
	p.hideTop()
	p.stack = p.stack[:len(p.stack)-1]
	if cur := p.Current(); cur != "" {
		p.show(cur)
	} else {
		p.notify()
	}
	return top
}

// PopTo pops pages until name is on top. It does nothing when name is not
// on the stack.
func (p *Pages) PopTo(name string) {
	i := slices.Index(p.stack, name)
	if i < 0 || i == len(p.stack)-1 {
		return
	}
	p.hideTop()
	p.stack = p.stack[:i+1]
	p.show(name)
}

// Reset replaces the whole stack with name.
func (p *Pages) Reset(name string) {
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = []string{name}
	p.show(name)
}

// Current returns the page on top, or "".
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Contains reports whether name is anywhere on the stack.
func (p *Pages) Contains(name string) bool {
	return slices.Contains(p.stack, name)
}

// Stack returns a copy of the stack, bottom first.
func (p *Pages) Stack() []string {
	return slices.Clone(p.stack)
}

// Depth returns the stack size.
func (p *Pages) Depth() int {
	return len(p.stack)
}

func (p *Pages) hideTop() {
	if cur := p.Current(); cur != "" {
		p.HidePage(cur)
	}
}

func (p *Pages) show(name string) {
	p.ShowPage(name)
	p.SendToFront(name)
	p.notify()
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
