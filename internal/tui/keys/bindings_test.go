package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	var got []string
	r.AddGlobal("quit", &Action{Key: tcell.KeyRune, Rune: 'q', Description: "q:quit", Visible: true,
		Handler: func() { got = append(got, "quit") }})
	r.AddView("home", "more", &Action{Key: tcell.KeyRune, Rune: 'l', Alt: []tcell.Key{tcell.KeyEnd},
		Description: "l:more", Visible: true, Handler: func() { got = append(got, "more") }})
	r.AddView("home", "refresh", &Action{Key: tcell.KeyRune, Rune: 'r', Description: "r:refresh",
		Handler: func() { got = append(got, "refresh") }})

	assert.True(t, r.HandleEvent("home", tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone)))
	assert.True(t, r.HandleEvent("home", tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone)))
	assert.True(t, r.HandleEvent("home", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, r.HandleEvent("help", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))
	assert.Equal(t, []string{"more", "more", "quit"}, got)

	assert.Equal(t, []string{"l:more", "q:quit"}, r.Hints("home"))
	assert.Equal(t, []string{"q:quit"}, r.Hints("help"))
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.AddGlobal("x", &Action{Key: tcell.KeyRune, Rune: 'x', Handler: func() { calls-- }})
	r.AddGlobal("x", &Action{Key: tcell.KeyRune, Rune: 'x', Handler: func() { calls++ }})
	r.HandleEvent("any", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	assert.Equal(t, 1, calls)
}
