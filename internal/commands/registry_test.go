package commands

import (
	"context"
	"errors"
	"testing"
)

type failingSource struct{ name string }

func (f failingSource) Name() string { return f.name }

func (f failingSource) Load(context.Context) ([]*Command, []MenuItem, error) {
	return nil, nil, errors.New("manifest is broken")
}

func noop(context.Context, *Invocation) error { return nil }

func TestReloadExternalShadowsBuiltin(t *testing.T) {
	builtin := &StaticSource{SourceName: "builtin", Commands: []*Command{
		{Names: []string{"sub-sort", "sort"}, Help: "builtin sort", Run: noop},
		{Names: []string{"sub-delete"}, Run: noop},
	}}
	external := &StaticSource{SourceName: "user", Commands: []*Command{
		{Names: []string{"sub-sort"}, Help: "user sort", Run: noop},
	}}
	reg := NewRegistry(nil, builtin, external)

	var loaded []uint64
	reg.Loaded.Connect(func(gen uint64) { loaded = append(loaded, gen) })
	if err := reg.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	cmd, ok := reg.Get("sub-sort")
	if !ok || cmd.Help != "user sort" || cmd.Source != "user" {
		t.Fatalf("expected user command to shadow builtin, got %+v", cmd)
	}
	alias, ok := reg.Get("sort")
	if !ok || alias.Help != "builtin sort" {
		t.Fatal("alias of the shadowed builtin should remain")
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 distinct commands, got %d", len(reg.All()))
	}
	if len(loaded) != 1 || loaded[0] != 1 {
		t.Fatalf("unexpected Loaded notifications %v", loaded)
	}
	if builtin.Commands[0].Source != "" {
		t.Fatal("registry must not mutate the source's commands")
	}
}

func TestReloadSkipsFailingExternalSource(t *testing.T) {
	builtin := &StaticSource{SourceName: "builtin", Commands: []*Command{{Names: []string{"a"}, Run: noop}}}
	reg := NewRegistry(nil, builtin, failingSource{name: "broken"}, &StaticSource{
		SourceName: "good",
		Commands:   []*Command{{Names: []string{"b"}, Run: noop}},
	})
	if err := reg.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	for _, name := range []string{"a", "b"} {
		if _, ok := reg.Get(name); !ok {
			t.Fatalf("missing %s", name)
		}
	}
}

func TestReloadFailsOnBrokenBuiltin(t *testing.T) {
	good := &StaticSource{SourceName: "builtin", Commands: []*Command{{Names: []string{"a"}, Run: noop}}}
	reg := NewRegistry(nil, good)
	if err := reg.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	broken := NewRegistry(nil, failingSource{name: "builtin"})
	if err := broken.Reload(context.Background()); err == nil {
		t.Fatal("expected builtin failure to fail the reload")
	}
	if broken.Generation() != 0 {
		t.Fatal("failed reload must not bump the generation")
	}

	invalid := NewRegistry(nil, &StaticSource{SourceName: "builtin", Commands: []*Command{{Names: []string{"x"}}}})
	if err := invalid.Reload(context.Background()); err == nil {
		t.Fatal("expected command without Run to be rejected")
	}
}

func TestMenuItemsSortedByDisplayLabel(t *testing.T) {
	ext := &StaticSource{SourceName: "user", Menu: []MenuItem{
		{Label: "&Zoom", Cmdline: "z"},
		{Label: "Ad&just", Cmdline: "a"},
		{Label: "&Mark", Cmdline: "m"},
	}}
	reg := NewRegistry(nil, &StaticSource{SourceName: "builtin"}, ext)
	if err := reg.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	items := reg.MenuItems()
	want := []string{"Adjust", "Mark", "Zoom"}
	if len(items) != len(want) {
		t.Fatalf("unexpected menu %v", items)
	}
	for i, item := range items {
		if item.DisplayLabel() != want[i] || item.Source != "user" {
			t.Fatalf("item %d: got %+v", i, item)
		}
	}
}

func TestReloadReplacesPreviousGeneration(t *testing.T) {
	src := &StaticSource{SourceName: "builtin", Commands: []*Command{{Names: []string{"old"}, Run: noop}}}
	reg := NewRegistry(nil, src)
	_ = reg.Reload(context.Background())
	src.Commands = []*Command{{Names: []string{"new"}, Run: noop}}
	_ = reg.Reload(context.Background())

	if _, ok := reg.Get("old"); ok {
		t.Fatal("old command should be unregistered")
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "new" {
		t.Fatalf("unexpected names %v", names)
	}
	if reg.Generation() != 2 {
		t.Fatalf("unexpected generation %d", reg.Generation())
	}
}
