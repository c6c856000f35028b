package commands

import (
	"context"
	"slices"
)

// Command is a named editor operation.
type Command struct {
	// Names lists the command name first, then aliases.
	Names  []string
	Help   string
	Schema Schema
	// Silent commands are not echoed and their outcome is not reported.
	Silent bool
	// Enabled reports whether the command applies to the current state;
	// nil means always. It runs under the session lock before Run.
	Enabled func(inv *Invocation) bool
	Run     func(ctx context.Context, inv *Invocation) error

	// Source names where the command was registered from; set by the Registry.
	Source string
}

// Name returns the primary name.
func (c *Command) Name() string {
	if len(c.Names) == 0 {
		return ""
	}
	return c.Names[0]
}

// Usage renders the command's argument synopsis.
func (c *Command) Usage() string {
	return c.Schema.Usage(c.Name())
}

func (c *Command) clone() *Command {
	out := *c
	out.Names = slices.Clone(c.Names)
	return &out
}
