package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subedit/internal/recent"
)

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var (
		limit    int
		clearAll bool
		remove   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := recent.Open(cfg.Paths.StateDir, cfg.Recent.Limit)
			if err != nil {
				return err
			}
			defer store.Close()

			c := cmd.Context()
			out := cmd.OutOrStdout()
			switch {
			case clearAll:
				if err := store.Clear(c); err != nil {
					return err
				}
				fmt.Fprintln(out, "Recent files cleared")
				return nil
			case remove != "":
				if err := store.Remove(c, remove); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %s\n", remove)
				return nil
			}

			entries, err := store.List(c, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recent files")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, e := range entries {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					e.Path,
					e.LastUsed.Local().Format(time.DateTime),
					strconv.Itoa(e.Uses),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Path", "Last used", "Uses"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many entries")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Forget every recent file")
	cmd.Flags().StringVar(&remove, "remove", "", "Forget one path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("clear", "remove")
	return cmd
}
