package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subedit/internal/ass"
	"subedit/internal/subs"
)

type eventInfo struct {
	Number  int    `json:"number"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Style   string `json:"style"`
	Actor   string `json:"actor,omitempty"`
	Text    string `json:"text"`
	Note    string `json:"note,omitempty"`
	Comment bool   `json:"comment,omitempty"`
}

func newEventsCommand(_ *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "events FILE",
		Short:       "List the subtitles of a document",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := subs.ReadFile(args[0])
			if err != nil {
				return err
			}
			infos := describeEvents(file)
			if asJSON {
				return writeJSON(cmd, infos)
			}
			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No subtitles")
				return nil
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				text := strings.ReplaceAll(info.Text, `\N`, " ⏎ ")
				if info.Comment {
					text = "# " + text
				}
				rows = append(rows, []string{
					strconv.Itoa(info.Number), info.Start, info.End, info.Style, info.Actor, text,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Style", "Actor", "Text"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func describeEvents(file *ass.File) []eventInfo {
	infos := make([]eventInfo, 0, file.Events.Len())
	for i, e := range file.Events.All() {
		infos = append(infos, eventInfo{
			Number:  i + 1,
			Start:   ass.FormatTime(e.Start()),
			End:     ass.FormatTime(e.End()),
			Style:   e.Style(),
			Actor:   e.Actor(),
			Text:    e.Text(),
			Note:    e.Note(),
			Comment: e.IsComment(),
		})
	}
	return infos
}
