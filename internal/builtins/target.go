package builtins

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"subedit/internal/commands"
	"subedit/internal/subs"
)

type targetKind int

const (
	targetSelected targetKind = iota
	targetAll
	targetNone
	targetFirst
	targetLast
	targetAbove
	targetBelow
	targetNumbers
)

var targetWords = map[string]targetKind{
	"selected":  targetSelected,
	"all":       targetAll,
	"none":      targetNone,
	"first":     targetFirst,
	"last":      targetLast,
	"one-above": targetAbove,
	"one-below": targetBelow,
}

// Target is a parsed subtitle set expression.
type Target struct {
	kind   targetKind
	ranges [][2]int
	text   string
}

// ParseTarget parses a target expression: one of selected, all, none,
// first, last, one-above, one-below, or a comma separated list of 1-based
// subtitle numbers and inclusive ranges such as "1,3-5".
func ParseTarget(s string) (Target, error) {
	text := strings.TrimSpace(s)
	if kind, ok := targetWords[text]; ok {
		return Target{kind: kind, text: text}, nil
	}
	if text == "" {
		return Target{}, errors.New("empty target")
	}
	t := Target{kind: targetNumbers, text: text}
	for part := range strings.SplitSeq(text, ",") {
		lo, hi, isRange := strings.Cut(strings.TrimSpace(part), "-")
		first, err := parseNumber(lo)
		if err != nil {
			return Target{}, err
		}
		last := first
		if isRange {
			if last, err = parseNumber(hi); err != nil {
				return Target{}, err
			}
		}
		if last < first {
			return Target{}, fmt.Errorf("descending range %q", part)
		}
		t.ranges = append(t.ranges, [2]int{first, last})
	}
	return t, nil
}

func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid subtitle number %q", s)
	}
	return n, nil
}

func (t Target) String() string { return t.text }

// Indexes resolves the target against the document, returning sorted,
// unique 0-based indexes. Numbers past the end of the document make the
// target unavailable.
func (t Target) Indexes(api *subs.API) ([]int, error) {
	n := api.Events().Len()
	selected := api.SelectedIndexes()
	switch t.kind {
	case targetSelected:
		return selected, nil
	case targetAll:
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	case targetNone:
		return nil, nil
	case targetFirst:
		if n == 0 {
			return nil, nil
		}
		return []int{0}, nil
	case targetLast:
		if n == 0 {
			return nil, nil
		}
		return []int{n - 1}, nil
	case targetAbove:
		if len(selected) == 0 || selected[0] == 0 {
			return nil, nil
		}
		return []int{selected[0] - 1}, nil
	case targetBelow:
		if len(selected) == 0 || selected[len(selected)-1] >= n-1 {
			return nil, nil
		}
		return []int{selected[len(selected)-1] + 1}, nil
	}

	var out []int
	for _, r := range t.ranges {
		if r[1] > n {
			return nil, commands.Unavailable("subtitle #%d does not exist", r[1])
		}
		for num := r[0]; num <= r[1]; num++ {
			out = append(out, num-1)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func checkTarget(s string) error {
	_, err := ParseTarget(s)
	return err
}

// contiguousRanges groups sorted indexes into [start, count) runs.
func contiguousRanges(indexes []int) [][2]int {
	var out [][2]int
	for _, idx := range indexes {
		if last := len(out) - 1; last >= 0 && out[last][0]+out[last][1] == idx {
			out[last][1]++
			continue
		}
		out = append(out, [2]int{idx, 1})
	}
	return out
}

func targetArg(name, short string) commands.Arg {
	return commands.Arg{
		Name:    name,
		Short:   short,
		Default: "selected",
		Check:   checkTarget,
		Help:    "subtitles to process",
	}
}

func resolveTarget(inv *commands.Invocation, name string) ([]int, error) {
	t, err := ParseTarget(inv.Args.String(name))
	if err != nil {
		return nil, err
	}
	return t.Indexes(inv.Env.Subs)
}

// targetNotEmpty is the Enabled check for commands that need subtitles to
// act on.
func targetNotEmpty(name string) func(*commands.Invocation) bool {
	return func(inv *commands.Invocation) bool {
		indexes, err := resolveTarget(inv, name)
		return err == nil && len(indexes) > 0
	}
}
