package repl

import (
	"slices"
	"strings"
)

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the corex-cli command set.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"token", "token info",
			"account", "account new", "account list",
			"balance", "history",
			"transfer", "mint", "register", "faucet",
			"profile", "profile show", "profile set",
			"admin", "admin checkpoint",
			"version",
		},
	}
}

// Commands returns the known command lines.
func (c *Completer) Commands() []string {
	return slices.Clone(c.commands)
}

// IsCommand reports whether name is a known top-level command.
func (c *Completer) IsCommand(name string) bool {
	return slices.Contains(c.commands, name) && !strings.Contains(name, " ")
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
