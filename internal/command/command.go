// Package command interprets slash commands that edit a SOW document
// without going through the LLM.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bashhh89/thecustom/internal/domain"
)

var (
	ErrInvalidFormat  = errors.New("invalid command format")
	ErrEmptyArgument  = errors.New("missing command argument")
	ErrInvalidHours   = errors.New("hours must be a positive number")
	ErrInvalidBudget  = errors.New("budget must be a positive number")
	ErrUnknownCommand = errors.New("unknown command")
	ErrScopeNotFound  = errors.New("scope not found")
)

// Result describes what a command changed.
type Result struct {
	Command string
	Message string
	// ScopeID is the scope created or edited, if any.
	ScopeID string
	// NameFallback is set when a scope was matched by name instead of id.
	NameFallback bool
}

// Spec describes one command for help output.
type Spec struct {
	Name        string
	Usage       string
	Description string
	Example     string
}

type handler func(args string, doc *domain.SOWDocument) (Result, error)

var handlers = map[string]handler{
	"/newScope":  newScope,
	"/addRole":   addRole,
	"/setBudget": setBudget,
}

// Commands lists the supported slash commands.
func Commands() []Spec {
	return []Spec{
		{Name: "/newScope", Usage: "/newScope <name>", Description: "Add a new scope to the SOW", Example: "/newScope Website Design"},
		{Name: "/addRole", Usage: "/addRole to <scope> <role> <hours>", Description: "Add a role to a scope", Example: "/addRole to Website Design Designer 40"},
		{Name: "/setBudget", Usage: "/setBudget <amount>", Description: "Set the project budget target", Example: "/setBudget 25000"},
	}
}

// IsCommand reports whether input looks like a slash command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// Interpret applies one slash command to a copy of doc. The input document is
// never modified. The returned document is not reconciled.
func Interpret(input string, doc *domain.SOWDocument) (*domain.SOWDocument, Result, error) {
	input = strings.TrimSpace(input)
	name, args, _ := strings.Cut(input, " ")
	h, ok := handlers[name]
	if !ok {
		return nil, Result{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	out := doc.Clone()
	if out == nil {
		out = &domain.SOWDocument{}
	}
	res, err := h(args, out)
	if err != nil {
		return nil, Result{}, err
	}
	res.Command = name
	return out, res, nil
}
