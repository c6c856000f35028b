package scripts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"subedit/internal/commands"
)

// Manifest is the decoded form of one scripts file.
type Manifest struct {
	Commands []CommandSpec `toml:"command"`
	Menu     []MenuSpec    `toml:"menu"`
}

// CommandSpec declares a macro command.
type CommandSpec struct {
	Names  []string `toml:"names"`
	Help   string   `toml:"help"`
	Run    string   `toml:"run"`
	Silent bool     `toml:"silent"`
}

// MenuSpec declares a menu entry.
type MenuSpec struct {
	Label   string `toml:"label"`
	Cmdline string `toml:"cmdline"`
}

// ParseManifest decodes and validates a manifest. Unknown keys are errors.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Manifest{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Manifest{}, err
	}
	if err := m.validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m Manifest) validate() error {
	var errs []error
	for i, c := range m.Commands {
		if len(c.Names) == 0 {
			errs = append(errs, fmt.Errorf("command %d: names is empty", i+1))
		}
		for _, name := range c.Names {
			if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t;") {
				errs = append(errs, fmt.Errorf("command %d: invalid name %q", i+1, name))
			}
		}
		if strings.TrimSpace(c.Run) == "" {
			errs = append(errs, fmt.Errorf("command %d: run is empty", i+1))
		} else if _, err := commands.SplitInvocation(c.Run); err != nil {
			errs = append(errs, fmt.Errorf("command %d: %w", i+1, err))
		}
	}
	for i, item := range m.Menu {
		if strings.TrimSpace(item.Label) == "" || strings.TrimSpace(item.Cmdline) == "" {
			errs = append(errs, fmt.Errorf("menu item %d: label and cmdline are required", i+1))
		}
	}
	return errors.Join(errs...)
}

// Build turns the manifest into registry entries.
func (m Manifest) Build() ([]*commands.Command, []commands.MenuItem) {
	cmds := make([]*commands.Command, 0, len(m.Commands))
	for _, spec := range m.Commands {
		cmds = append(cmds, macro(spec))
	}
	menu := make([]commands.MenuItem, 0, len(m.Menu))
	for _, item := range m.Menu {
		menu = append(menu, commands.MenuItem{Label: item.Label, Cmdline: item.Cmdline})
	}
	return cmds, menu
}

// maxNesting bounds macros that invoke each other.
const maxNesting = 16

type nestingKey struct{}

func macro(spec CommandSpec) *commands.Command {
	help := spec.Help
	if help == "" {
		help = "Runs: " + spec.Run
	}
	line := spec.Run
	return &commands.Command{
		Names:  append([]string(nil), spec.Names...),
		Help:   help,
		Silent: spec.Silent,
		Run: func(ctx context.Context, inv *commands.Invocation) error {
			depth, _ := ctx.Value(nestingKey{}).(int)
			if depth >= maxNesting {
				return fmt.Errorf("%s: macros nested deeper than %d", inv.Name, maxNesting)
			}
			ctx = context.WithValue(ctx, nestingKey{}, depth+1)
			return inv.Env.Run(ctx, line).Err
		},
	}
}
