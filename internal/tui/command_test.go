package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"refresh", Command{Name: "refresh"}},
		{"  :R  ", Command{Name: "refresh"}},
		{"post  hello weibo ", Command{Name: "post", Args: "hello weibo"}},
		{"q", Command{Name: "quit"}},
		{"auth", Command{Name: "login"}},
		{"filter 猫", Command{Name: "filter", Args: "猫"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.input))
		})
	}
}
