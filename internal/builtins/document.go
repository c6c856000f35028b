package builtins

import (
	"context"
	"fmt"

	"subedit/internal/ass"
	"subedit/internal/commands"
)

func styleAdd() *commands.Command {
	return &commands.Command{
		Names: []string{"style-add"},
		Help:  "Adds a style with stock attributes.",
		Schema: commands.Schema{Args: []commands.Arg{
			{Name: "name", Positional: true, Required: true, Help: "style name"},
			{Name: "font", Help: "font name"},
			{Name: "size", Kind: commands.KindFloat, Help: "font size"},
		}},
		Run: func(_ context.Context, inv *commands.Invocation) error {
			fields := ass.DefaultStyleFields(inv.Args.String("name"))
			if inv.Args.Changed("font") {
				fields.FontName = inv.Args.String("font")
			}
			if inv.Args.Changed("size") {
				fields.FontSize = inv.Args.Float("size")
			}
			styles := inv.Env.Subs.Styles()
			_, err := styles.InsertOne(styles.Len(), fields)
			return err
		},
	}
}

func metaSet() *commands.Command {
	return &commands.Command{
		Names: []string{"meta-set"},
		Help:  "Sets a script info value; an empty value removes the key.",
		Schema: commands.Schema{Args: []commands.Arg{
			{Name: "key", Positional: true, Required: true, Help: "script info key"},
			{Name: "value", Positional: true, Required: true, Help: "new value"},
		}},
		Run: func(_ context.Context, inv *commands.Invocation) error {
			key, value := inv.Args.String("key"), inv.Args.String("value")
			if value == "" {
				inv.Env.Subs.Meta().Remove(key)
				return nil
			}
			inv.Env.Subs.Meta().Set(key, value)
			return nil
		},
	}
}

func promptNote() *commands.Command {
	return &commands.Command{
		Names:   []string{"prompt-note"},
		Help:    "Asks for a note and stores it on subtitles.",
		Schema:  commands.Schema{Args: []commands.Arg{targetArg("target", "t")}},
		Enabled: targetNotEmpty("target"),
		Run: func(ctx context.Context, inv *commands.Invocation) error {
			indexes, err := resolveTarget(inv, "target")
			if err != nil {
				return err
			}
			api := inv.Env.Subs
			targets := make([]*ass.Event, len(indexes))
			for i, idx := range indexes {
				targets[i] = api.Events().At(idx)
			}
			initial := ""
			if len(targets) > 0 {
				initial = targets[0].Note()
			}

			note, err := inv.Env.Prompt(ctx, fmt.Sprintf("Note for %d subtitle(s)", len(targets)), initial)
			if err != nil {
				return err
			}
			// The document may have changed while the prompt was open.
			for _, e := range targets {
				if e.Owner() == api.Events() {
					e.SetNote(note)
				}
			}
			return nil
		},
	}
}

func reloadCommands() *commands.Command {
	return &commands.Command{
		Names: []string{"reload-cmds", "reload-plugins"},
		Help:  "Reloads built-in and user commands.",
		Run:   reload,
	}
}

// reloadCommandsSilent is what the scripts watcher submits.
func reloadCommandsSilent() *commands.Command {
	return &commands.Command{
		Names:  []string{"reload-cmds-silent"},
		Help:   "Reloads commands without echoing.",
		Silent: true,
		Run:    reload,
	}
}

func reload(ctx context.Context, inv *commands.Invocation) error {
	return inv.Env.Registry.Reload(ctx)
}
