package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subedit/internal/app"
	"subedit/internal/commands"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		execLines []string
		output    string
		save      bool
		printDoc  bool
	)

	cmd := &cobra.Command{
		Use:   "run [FILE]",
		Short: "Run command invocations against a document",
		Long: "Opens FILE (or a blank document), runs every --exec line in order and\n" +
			"optionally saves the result. Each line may hold several commands\n" +
			"separated by ';'. The first failing line stops the run.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prompter commands.Prompter = commands.NoPrompter{}
			if isTerminal(cmd.InOrStdin()) {
				prompter = newLinePrompter(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr())
			}
			return ctx.withApp(cmd, app.Options{Prompter: prompter}, func(c context.Context, a *app.App) error {
				if len(args) == 1 {
					if err := a.Open(c, args[0]); err != nil {
						return err
					}
				}
				for _, line := range execLines {
					if strings.TrimSpace(line) == "" {
						continue
					}
					res := a.Execute(c, line)
					if !res.OK() {
						return fmt.Errorf("%s: %s: %w", line, res.State(), res.Err)
					}
				}
				switch {
				case output != "":
					if res := a.Executor.ExecuteArgs(c, [][]string{{"file-save", output}}); !res.OK() {
						return res.Err
					}
				case save:
					if res := a.Execute(c, "file-save"); !res.OK() {
						return res.Err
					}
				}
				if printDoc {
					return a.Subs.File().Save(cmd.OutOrStdout())
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%d events, %d selected\n", a.Subs.Events().Len(), len(a.Subs.SelectedIndexes()))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&execLines, "exec", "e", nil, "Invocation line to run (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Save the document to this path")
	cmd.Flags().BoolVar(&save, "save", false, "Save the document back to FILE")
	cmd.Flags().BoolVar(&printDoc, "print", false, "Write the resulting document to stdout")
	cmd.MarkFlagsMutuallyExclusive("output", "save")
	return cmd
}
