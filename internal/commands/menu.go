package commands

import (
	"cmp"
	"slices"
	"strings"
)

// MenuItem is a menu entry contributed by a command source. Label may mark
// a mnemonic with "&".
type MenuItem struct {
	Label   string
	Cmdline string
	Source  string
}

// DisplayLabel returns the label without mnemonic markers.
func (m MenuItem) DisplayLabel() string {
	return strings.ReplaceAll(m.Label, "&", "")
}

func sortMenu(items []MenuItem) {
	slices.SortStableFunc(items, func(a, b MenuItem) int {
		return cmp.Compare(a.DisplayLabel(), b.DisplayLabel())
	})
}
