package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"subedit/internal/logging"
	"subedit/internal/observable"
)

// Registry maps command names to commands.
//
// Reload registers the built-in source first and the external sources in
// order. A later registration of a name replaces an earlier one, so an
// external source can override a built-in command. Commands already
// resolved by a running batch keep their implementation across reloads.
type Registry struct {
	mu         sync.RWMutex
	builtin    Source
	external   []Source
	commands   map[string]*Command
	menu       []MenuItem
	generation uint64
	logger     *slog.Logger

	// Loaded fires after each successful reload with the new generation.
	// Connect observers during setup; it fires on the reloading goroutine.
	Loaded observable.Signal[uint64]
}

// NewRegistry creates an empty registry; call Reload to populate it.
func NewRegistry(logger *slog.Logger, builtin Source, external ...Source) *Registry {
	return &Registry{
		builtin:  builtin,
		external: slices.Clone(external),
		commands: make(map[string]*Command),
		logger:   logging.NewComponentLogger(logger, "registry"),
	}
}

// SetExternal replaces the external sources used by the next Reload.
func (r *Registry) SetExternal(sources ...Source) {
	r.mu.Lock()
	r.external = slices.Clone(sources)
	r.mu.Unlock()
}

// Reload rebuilds the registry from its sources. A failing external source
// is logged and skipped; a failing built-in source fails the reload and
// leaves the registry unchanged.
func (r *Registry) Reload(ctx context.Context) error {
	r.mu.RLock()
	builtin := r.builtin
	external := slices.Clone(r.external)
	r.mu.RUnlock()

	commands := make(map[string]*Command)
	var menu []MenuItem

	if builtin != nil {
		cmds, items, err := loadSource(ctx, builtin)
		if err != nil {
			return fmt.Errorf("load %s commands: %w", builtin.Name(), err)
		}
		r.register(commands, cmds)
		menu = append(menu, items...)
	}
	for _, src := range external {
		cmds, items, err := loadSource(ctx, src)
		if err != nil {
			logging.ErrorWithContext(r.logger, "command source skipped", "command_source_failed",
				logging.String("source", src.Name()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the source and run reload-cmds"),
			)
			continue
		}
		r.register(commands, cmds)
		menu = append(menu, items...)
	}
	sortMenu(menu)

	r.mu.Lock()
	for name, cmd := range r.commands {
		r.logger.Debug("unregistering command", logging.String("name", name), logging.String("source", cmd.Source))
	}
	r.commands = commands
	r.menu = menu
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	r.logger.Info("commands loaded",
		logging.String(logging.FieldEventType, "commands_loaded"),
		logging.Int("names", len(commands)),
		logging.Int("menu_items", len(menu)),
		logging.Uint64("generation", gen),
	)
	r.Loaded.Emit(gen)
	return nil
}

func loadSource(ctx context.Context, src Source) ([]*Command, []MenuItem, error) {
	cmds, items, err := src.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	out := make([]*Command, 0, len(cmds))
	for _, cmd := range cmds {
		if err := validateCommand(cmd); err != nil {
			return nil, nil, err
		}
		c := cmd.clone()
		c.Source = src.Name()
		out = append(out, c)
	}
	menu := make([]MenuItem, len(items))
	for i, item := range items {
		item.Source = src.Name()
		menu[i] = item
	}
	return out, menu, nil
}

func validateCommand(cmd *Command) error {
	if cmd == nil {
		return errors.New("nil command")
	}
	if len(cmd.Names) == 0 {
		return errors.New("command without a name")
	}
	for _, name := range cmd.Names {
		if name == "" {
			return fmt.Errorf("command %v has an empty name", cmd.Names)
		}
	}
	if cmd.Run == nil {
		return fmt.Errorf("command %s has no implementation", cmd.Names[0])
	}
	return nil
}

func (r *Registry) register(into map[string]*Command, cmds []*Command) {
	for _, cmd := range cmds {
		for _, name := range cmd.Names {
			if prev, ok := into[name]; ok {
				r.logger.Debug("command overridden",
					logging.String("name", name),
					logging.String("previous_source", prev.Source),
					logging.String("source", cmd.Source),
				)
			}
			r.logger.Debug("registering command", logging.String("name", name), logging.String("source", cmd.Source))
			into[name] = cmd
		}
	}
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns each distinct registered command once, ordered by primary name.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[*Command]struct{}, len(r.commands))
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		if _, ok := seen[cmd]; ok {
			continue
		}
		seen[cmd] = struct{}{}
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// MenuItems returns the contributed menu entries sorted by display label.
func (r *Registry) MenuItems() []MenuItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.menu)
}

// Generation counts successful reloads.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}
