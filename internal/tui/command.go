package tui

import "strings"

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// commandAliases maps short forms to command names.
var commandAliases = map[string]string{
	"q":    "quit",
	"r":    "refresh",
	"c":    "compose",
	"h":    "help",
	"auth": "login",
}

// ParseCommand parses a command string. A leading ':' is optional; aliases
// resolve to the full command name.
func ParseCommand(input string) Command {
	input = strings.TrimPrefix(strings.TrimSpace(input), ":")
	name, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	cmd := Command{Name: strings.ToLower(name), Args: strings.TrimSpace(args)}
	if full, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = full
	}
	return cmd
}
