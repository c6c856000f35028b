package builtins

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"subedit/internal/ass"
	"subedit/internal/commands"
	"subedit/internal/media"
)

func subInsert() *commands.Command {
	origin := targetArg("origin", "o")
	origin.Help = "where to insert the subtitle"
	return &commands.Command{
		Names: []string{"sub-insert"},
		Help:  "Inserts one empty subtitle.",
		Schema: commands.Schema{
			Args: []commands.Arg{
				origin,
				{Name: "before", Kind: commands.KindBool, Help: "insert before origin"},
				{Name: "after", Kind: commands.KindBool, Help: "insert after origin"},
				{Name: "no-align", Kind: commands.KindBool, Help: "don't realign the subtitle to video frames"},
			},
			OneOf: [][]string{{"before", "after"}},
		},
		Run: func(_ context.Context, inv *commands.Invocation) error {
			indexes, err := resolveTarget(inv, "origin")
			if err != nil {
				return err
			}
			api := inv.Env.Subs
			duration := inv.Env.Settings.DefaultDuration

			var idx, start, end int
			if inv.Args.Bool("before") {
				idx, start, end = insertBefore(api.Events(), indexes, duration)
			} else {
				idx, start, end = insertAfter(api.Events(), indexes, duration)
			}
			if !inv.Args.Bool("no-align") {
				provider := mediaOf(inv.Env)
				start = provider.AlignPTS(start)
				end = provider.AlignPTS(end)
			}

			if _, err := api.Events().InsertOne(idx, ass.EventFields{
				Start: start,
				End:   end,
				Style: api.DefaultStyleName(),
			}); err != nil {
				return err
			}
			api.SetSelectedIndexes([]int{idx})
			return nil
		},
	}
}

// insertBefore places a subtitle of the given duration ending where the
// first origin subtitle starts, shortened so it does not overlap the one
// before it.
func insertBefore(events *ass.EventList, indexes []int, duration int) (idx, start, end int) {
	var cur, prev *ass.Event
	if len(indexes) > 0 {
		idx = indexes[0]
		cur = events.At(idx)
		prev = cur.Prev()
	} else {
		cur, _ = events.Get(0)
	}
	if cur != nil {
		end = cur.Start()
	}
	start = end - duration
	if prev != nil && start < prev.End() {
		start = min(prev.End(), end)
	}
	return idx, start, end
}

// insertAfter places a subtitle starting where the last origin subtitle
// ends, shortened so it does not overlap the one after it.
func insertAfter(events *ass.EventList, indexes []int, duration int) (idx, start, end int) {
	var cur, next *ass.Event
	if len(indexes) > 0 {
		idx = indexes[len(indexes)-1]
		cur = events.At(idx)
		next = cur.Next()
		idx++
	} else {
		next, _ = events.Get(0)
	}
	if cur != nil {
		start = cur.End()
	}
	end = start + duration
	if next != nil && end > next.Start() {
		end = max(next.Start(), start)
	}
	return idx, start, end
}

func mediaOf(env *commands.Env) media.Provider {
	if env.Media == nil {
		return media.Null{}
	}
	return env.Media
}

func subDelete() *commands.Command {
	return &commands.Command{
		Names:   []string{"sub-delete"},
		Help:    "Deletes subtitles.",
		Schema:  commands.Schema{Args: []commands.Arg{targetArg("target", "t")}},
		Enabled: targetNotEmpty("target"),
		Run: func(_ context.Context, inv *commands.Invocation) error {
			indexes, err := resolveTarget(inv, "target")
			if err != nil {
				return err
			}
			events := inv.Env.Subs.Events()
			ranges := contiguousRanges(indexes)
			for _, r := range slices.Backward(ranges) {
				if err := events.Remove(r[0], r[1]); err != nil {
					return err
				}
			}
			if events.Len() > 0 && len(indexes) > 0 {
				inv.Env.Subs.SetSelectedIndexes([]int{min(max(indexes[0]-1, 0), events.Len()-1)})
			}
			return nil
		},
	}
}

func subDuplicate() *commands.Command {
	return &commands.Command{
		Names:   []string{"sub-duplicate"},
		Help:    "Duplicates subtitles, placing each copy after its block.",
		Schema:  commands.Schema{Args: []commands.Arg{targetArg("target", "t")}},
		Enabled: targetNotEmpty("target"),
		Run: func(_ context.Context, inv *commands.Invocation) error {
			indexes, err := resolveTarget(inv, "target")
			if err != nil {
				return err
			}
			events := inv.Env.Subs.Events()
			var copies []*ass.Event
			for _, r := range slices.Backward(contiguousRanges(indexes)) {
				block, err := events.Slice(r[0], r[1])
				if err != nil {
					return err
				}
				clones := make([]*ass.Event, len(block))
				for i, e := range block {
					clones[i] = e.Clone()
				}
				if err := events.Insert(r[0]+r[1], clones...); err != nil {
					return err
				}
				copies = append(copies, clones...)
			}
			inv.Env.Subs.SelectEvents(copies)
			return nil
		},
	}
}

func subSort() *commands.Command {
	return &commands.Command{
		Names:  []string{"sub-sort"},
		Help:   "Sorts subtitles by their start time.",
		Schema: commands.Schema{Args: []commands.Arg{targetArg("target", "t")}},
		Enabled: func(inv *commands.Invocation) bool {
			return inv.Env.Subs.Events().Len() > 0
		},
		Run: func(_ context.Context, inv *commands.Invocation) error {
			indexes, err := resolveTarget(inv, "target")
			if err != nil {
				return err
			}
			api := inv.Env.Subs
			selected := api.SelectedEvents()
			for _, r := range contiguousRanges(indexes) {
				block, err := api.Events().Slice(r[0], r[1])
				if err != nil {
					return err
				}
				if slices.IsSortedFunc(block, byStart) {
					continue
				}
				slices.SortStableFunc(block, byStart)
				if err := api.Events().Replace(r[0], block...); err != nil {
					return err
				}
			}
			api.SelectEvents(selected)
			return nil
		},
	}
}

func byStart(a, b *ass.Event) int { return cmp.Compare(a.Start(), b.Start()) }

func subSelect() *commands.Command {
	return &commands.Command{
		Names: []string{"sub-select"},
		Help:  "Selects subtitles.",
		Schema: commands.Schema{Args: []commands.Arg{
			{Name: "target", Positional: true, Required: true, Check: checkTarget, Help: "subtitles to select"},
		}},
		Run: func(_ context.Context, inv *commands.Invocation) error {
			indexes, err := resolveTarget(inv, "target")
			if err != nil {
				return err
			}
			inv.Env.Subs.SetSelectedIndexes(indexes)
			return nil
		},
	}
}

func subSet() *commands.Command {
	return &commands.Command{
		Names: []string{"sub-set"},
		Help:  "Changes fields of subtitles.",
		Schema: commands.Schema{Args: []commands.Arg{
			targetArg("target", "t"),
			{Name: "text", Help: "new text"},
			{Name: "note", Help: "new note"},
			{Name: "style", Help: "new style name"},
			{Name: "actor", Help: "new actor"},
			{Name: "effect", Help: "new effect"},
			{Name: "start", Kind: commands.KindInt, Help: "new start time in ms"},
			{Name: "end", Kind: commands.KindInt, Help: "new end time in ms"},
			{Name: "duration", Kind: commands.KindInt, Help: "new duration in ms, applied after start"},
			{Name: "layer", Kind: commands.KindInt, Help: "new layer"},
			{Name: "comment", Choices: []string{"yes", "no"}, Help: "mark as comment"},
		}},
		Enabled: targetNotEmpty("target"),
		Run: func(_ context.Context, inv *commands.Invocation) error {
			indexes, err := resolveTarget(inv, "target")
			if err != nil {
				return err
			}
			args := inv.Args
			events := inv.Env.Subs.Events()
			for _, idx := range indexes {
				events.At(idx).Update(func(f *ass.EventFields) {
					if args.Changed("text") {
						f.Text = args.String("text")
					}
					if args.Changed("note") {
						f.Note = args.String("note")
					}
					if args.Changed("style") {
						f.Style = args.String("style")
					}
					if args.Changed("actor") {
						f.Actor = args.String("actor")
					}
					if args.Changed("effect") {
						f.Effect = args.String("effect")
					}
					if args.Changed("start") {
						f.Start = args.Int("start")
					}
					if args.Changed("end") {
						f.End = args.Int("end")
					}
					if args.Changed("duration") {
						f.End = f.Start + args.Int("duration")
					}
					if args.Changed("layer") {
						f.Layer = args.Int("layer")
					}
					if args.Changed("comment") {
						f.IsComment = args.String("comment") == "yes"
					}
				})
			}
			return nil
		},
	}
}

func subShift() *commands.Command {
	return &commands.Command{
		Names: []string{"sub-shift"},
		Help:  "Moves subtitle start and end times by a relative amount.",
		Schema: commands.Schema{Args: []commands.Arg{
			targetArg("target", "t"),
			{Name: "start", Kind: commands.KindInt, Help: "ms added to the start"},
			{Name: "end", Kind: commands.KindInt, Help: "ms added to the end"},
		}},
		Enabled: targetNotEmpty("target"),
		Run: func(_ context.Context, inv *commands.Invocation) error {
			if !inv.Args.Changed("start") && !inv.Args.Changed("end") {
				return fmt.Errorf("nothing to shift: pass --start and/or --end")
			}
			indexes, err := resolveTarget(inv, "target")
			if err != nil {
				return err
			}
			ds, de := inv.Args.Int("start"), inv.Args.Int("end")
			events := inv.Env.Subs.Events()
			for _, idx := range indexes {
				events.At(idx).Update(func(f *ass.EventFields) {
					f.Start += ds
					f.End += de
				})
			}
			return nil
		},
	}
}

func subSwapTextNote() *commands.Command {
	return &commands.Command{
		Names:   []string{"sub-swap-text-note"},
		Help:    "Swaps subtitle text with the note.",
		Schema:  commands.Schema{Args: []commands.Arg{targetArg("target", "t")}},
		Enabled: targetNotEmpty("target"),
		Run: func(_ context.Context, inv *commands.Invocation) error {
			indexes, err := resolveTarget(inv, "target")
			if err != nil {
				return err
			}
			events := inv.Env.Subs.Events()
			for _, idx := range indexes {
				events.At(idx).Update(func(f *ass.EventFields) {
					f.Text, f.Note = f.Note, f.Text
				})
			}
			return nil
		},
	}
}
