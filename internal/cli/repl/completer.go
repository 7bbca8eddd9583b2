package repl

import (
	"sort"
	"strings"
)

// Completer suggests commands for a typed prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer over the given command lines, for
// example "employee list".
func NewCompleter(commands ...string) *Completer {
	c := &Completer{commands: append([]string(nil), commands...)}
	c.commands = append(c.commands, builtins...)
	sort.Strings(c.commands)
	return c
}

// Complete returns every command starting with prefix.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.TrimLeft(prefix, " ")
	var out []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}

// Known reports whether word is the first word of a command.
func (c *Completer) Known(word string) bool {
	for _, cmd := range c.commands {
		if w, _, _ := strings.Cut(cmd, " "); w == word {
			return true
		}
	}
	return false
}
