package subs

import (
	"slices"
	"sort"

	"subedit/internal/ass"
	"subedit/internal/observable"
)

// SelectionChange is delivered by API.SelectionChanged. Changed is false
// when the new selection equals the previous one.
type SelectionChange struct {
	Indexes []int
	Changed bool
}

// RemapSelection returns selected with the indexes in removed dropped and
// every survivor shifted down by the number of removed indexes below it.
// Both inputs must be sorted ascending without duplicates.
func RemapSelection(selected, removed []int) []int {
	if len(removed) == 0 {
		return slices.Clone(selected)
	}
	out := make([]int, 0, len(selected))
	for _, j := range selected {
		// Number of removed indexes <= j.
		n := sort.SearchInts(removed, j+1)
		if n > 0 && removed[n-1] == j {
			continue
		}
		out = append(out, j-n)
	}
	return out
}

// RemapSelectionRange is RemapSelection for a contiguous removal.
func RemapSelectionRange(selected []int, r observable.Range) []int {
	out := make([]int, 0, len(selected))
	for _, j := range selected {
		switch {
		case j < r.Index:
			out = append(out, j)
		case r.Contains(j):
		default:
			out = append(out, j-r.Count)
		}
	}
	return out
}

// SelectedIndexes returns a copy of the current selection.
func (a *API) SelectedIndexes() []int {
	return slices.Clone(a.selected)
}

// HasSelection reports whether any event is selected.
func (a *API) HasSelection() bool {
	return len(a.selected) > 0
}

// SelectedEvents returns the selected events in index order.
func (a *API) SelectedEvents() []*ass.Event {
	out := make([]*ass.Event, 0, len(a.selected))
	for _, idx := range a.selected {
		if e, ok := a.file.Events.Get(idx); ok {
			out = append(out, e)
		}
	}
	return out
}

// SetSelectedIndexes replaces the selection. Indexes are deduplicated and
// sorted; indexes outside the event list are dropped. SelectionChanged
// fires exactly once, whether or not anything changed.
func (a *API) SetSelectedIndexes(indexes []int) {
	limit := a.file.Events.Len()
	next := make([]int, 0, len(indexes))
	for _, idx := range indexes {
		if idx >= 0 && idx < limit {
			next = append(next, idx)
		}
	}
	slices.Sort(next)
	next = slices.Compact(next)
	a.applySelection(next)
}

// SelectEvents selects the given events; detached or foreign events are ignored.
func (a *API) SelectEvents(events []*ass.Event) {
	indexes := make([]int, 0, len(events))
	for _, e := range events {
		if e.Owner() != a.file.Events {
			continue
		}
		if idx, ok := e.Index(); ok {
			indexes = append(indexes, idx)
		}
	}
	a.SetSelectedIndexes(indexes)
}

func (a *API) applySelection(next []int) {
	changed := !slices.Equal(next, a.selected)
	a.selected = next
	a.SelectionChanged.Emit(SelectionChange{Indexes: slices.Clone(next), Changed: changed})
}

func (a *API) onEventsAboutToBeRemoved(r observable.Range) {
	a.applySelection(RemapSelectionRange(a.selected, r))
}
