package builtins

import (
	"context"

	"subedit/internal/ass"
	"subedit/internal/commands"
	"subedit/internal/subs"
)

func fileNew() *commands.Command {
	return &commands.Command{
		Names: []string{"file-new"},
		Help:  "Discards the current document and starts a blank one.",
		Run: func(_ context.Context, inv *commands.Invocation) error {
			inv.Env.Subs.Unload()
			return nil
		},
	}
}

func fileOpen() *commands.Command {
	return &commands.Command{
		Names: []string{"file-open"},
		Help:  "Opens a subtitle document.",
		Schema: commands.Schema{Args: []commands.Arg{
			{Name: "path", Positional: true, Required: true, Help: "document to open"},
		}},
		Run: func(ctx context.Context, inv *commands.Invocation) error {
			path := inv.Args.String("path")
			var file *ass.File
			err := inv.Env.Suspend(ctx, func(context.Context) error {
				var err error
				file, err = subs.ReadFile(path)
				return err
			})
			if err != nil {
				return err
			}
			inv.Env.Subs.Adopt(ctx, path, file)
			return nil
		},
	}
}

func fileSave() *commands.Command {
	return &commands.Command{
		Names: []string{"file-save"},
		Help:  "Saves the document to PATH, or to the path it was opened from.",
		Schema: commands.Schema{Args: []commands.Arg{
			{Name: "path", Positional: true, Help: "destination; becomes the document path"},
		}},
		Run: func(ctx context.Context, inv *commands.Invocation) error {
			path := inv.Args.String("path")
			if path == "" {
				path = inv.Env.Subs.Path()
			}
			if path == "" {
				return commands.Unavailable("document has no path; pass one to file-save")
			}
			return inv.Env.Subs.Save(ctx, path, true)
		},
	}
}
