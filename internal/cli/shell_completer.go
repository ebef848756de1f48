package cli

import (
	"strings"

	"github.com/bashhh89/thecustom/internal/command"
)

// shellWords are the first words the shell understands besides slash
// commands.
var shellWords = []string{
	"show", "hours", "rate", "assign", "rates",
	"generate", "history", "reset",
	"use", "clear", "help", "exit", "quit",
}

// completions returns every shell word and slash command starting with
// prefix, ignoring case.
func completions(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	match := func(word string) {
		if strings.HasPrefix(strings.ToLower(word), prefix) {
			out = append(out, word)
		}
	}
	for _, w := range shellWords {
		match(w)
	}
	for _, spec := range command.Commands() {
		match(spec.Name)
	}
	return out
}
