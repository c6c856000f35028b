package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subedit/internal/app"
	"subedit/internal/logging"
)

const shellHelp = `Enter command invocations separated by ';'.
  .commands    list commands
  .menu        list menu entries
  .log         show log records added since the last .log
  .log N       show the last N log records
  .quit        leave the shell`

func newShellCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [FILE]",
		Short: "Edit a document interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			interactive := isTerminal(cmd.InOrStdin())
			opts := app.Options{Prompter: newLinePrompter(in, out)}
			return ctx.withApp(cmd, opts, func(c context.Context, a *app.App) error {
				if len(args) == 1 {
					if err := a.Open(c, args[0]); err != nil {
						return err
					}
				}
				if interactive {
					fmt.Fprintln(out, shellHelp)
				}
				sh := &shell{app: a, out: out}
				return sh.run(c, in, interactive)
			})
		},
	}
}

type shell struct {
	app    *app.App
	out    io.Writer
	logSeq uint64
}

func (s *shell) run(ctx context.Context, in *bufio.Reader, interactive bool) error {
	for {
		if interactive {
			fmt.Fprintf(s.out, "subedit (%d)> ", s.app.Subs.Events().Len())
		}
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if quit := s.directive(line); quit {
				return nil
			}
			continue
		}
		res := s.app.Execute(ctx, line)
		if !res.OK() {
			fmt.Fprintf(s.out, "%s: %v\n", res.State(), res.Err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *shell) directive(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".quit", ".exit":
		return true
	case ".commands":
		fmt.Fprintln(s.out, renderCommandTable(s.app))
	case ".menu":
		for _, item := range s.app.Registry.MenuItems() {
			fmt.Fprintf(s.out, "%-24s %s\n", item.DisplayLabel(), item.Cmdline)
		}
	case ".log":
		var events []logging.LogEvent
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n <= 0 {
				fmt.Fprintln(s.out, "usage: .log [N]")
				return false
			}
			events, s.logSeq = s.app.Logs.Tail(n)
		} else {
			events, s.logSeq = s.app.Logs.Since(s.logSeq, 0)
		}
		for _, evt := range events {
			fmt.Fprintln(s.out, formatLogEvent(evt))
		}
	default:
		fmt.Fprintln(s.out, shellHelp)
	}
	return false
}

func formatLogEvent(evt logging.LogEvent) string {
	var b strings.Builder
	b.WriteString(evt.Timestamp.Local().Format("15:04:05"))
	b.WriteByte(' ')
	b.WriteString(evt.Level)
	if evt.Command != "" {
		b.WriteString(" [")
		b.WriteString(evt.Command)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(evt.Message)
	for _, d := range evt.Details {
		b.WriteString(" · ")
		b.WriteString(d.Label)
		b.WriteString(": ")
		b.WriteString(d.Value)
	}
	return b.String()
}
