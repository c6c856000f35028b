package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subedit/internal/app"
	"subedit/internal/commands"
)

type commandInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Source  string   `json:"source"`
	Help    string   `json:"help,omitempty"`
	Usage   string   `json:"usage"`
}

func newCommandsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "commands [NAME]",
		Short: "List available commands or show one command's usage",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, app.Options{NoRecent: true}, func(_ context.Context, a *app.App) error {
				if len(args) == 1 {
					c, ok := a.Registry.Get(args[0])
					if !ok {
						return fmt.Errorf("%w: %s", commands.ErrNotFound, args[0])
					}
					if asJSON {
						return writeJSON(cmd, describeCommand(c))
					}
					out := cmd.OutOrStdout()
					if c.Help != "" {
						fmt.Fprintln(out, c.Help)
						fmt.Fprintln(out)
					}
					fmt.Fprint(out, c.Usage())
					return nil
				}
				if asJSON {
					all := a.Registry.All()
					infos := make([]commandInfo, 0, len(all))
					for _, c := range all {
						infos = append(infos, describeCommand(c))
					}
					return writeJSON(cmd, infos)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCommandTable(a))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func describeCommand(c *commands.Command) commandInfo {
	return commandInfo{
		Name:    c.Name(),
		Aliases: c.Names[1:],
		Source:  c.Source,
		Help:    c.Help,
		Usage:   strings.TrimSpace(c.Usage()),
	}
}

func renderCommandTable(a *app.App) string {
	all := a.Registry.All()
	rows := make([][]string, 0, len(all))
	for _, c := range all {
		rows = append(rows, []string{c.Name(), strings.Join(c.Names[1:], ", "), c.Source, c.Help})
	}
	return renderTable([]string{"Command", "Aliases", "Source", "Help"}, rows, nil)
}
