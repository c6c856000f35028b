package commands

import "context"

// Source supplies commands and menu contributions to the Registry.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]*Command, []MenuItem, error)
}

// StaticSource is a Source over a fixed list, used for the built-in commands.
type StaticSource struct {
	SourceName string
	Commands   []*Command
	Menu       []MenuItem
}

func (s *StaticSource) Name() string { return s.SourceName }

func (s *StaticSource) Load(context.Context) ([]*Command, []MenuItem, error) {
	return s.Commands, s.Menu, nil
}
