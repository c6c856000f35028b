package ass

import (
	"fmt"
	"sync/atomic"

	"subedit/internal/observable"
)

var listIDs atomic.Uint64

// EventList is the observable list of a document's subtitle lines. It keeps
// each event's owner reference in sync with membership.
type EventList struct {
	*observable.List[*Event]
	id uint64
}

// NewEventList constructs an empty event list with a process-unique identity.
func NewEventList() *EventList {
	l := &EventList{id: listIDs.Add(1)}
	l.List = observable.NewList(observable.Hooks[*Event]{
		Validate: validateEvents,
		Attach: func(events []*Event) {
			for _, e := range events {
				e.setOwner(l)
			}
		},
		Detach: func(events []*Event) {
			for _, e := range events {
				e.setOwner(nil)
			}
		},
	})
	return l
}

func validateEvents(events []*Event) error {
	seen := make(map[*Event]struct{}, len(events))
	for i, e := range events {
		if e == nil {
			return fmt.Errorf("event %d is nil", i)
		}
		if e.owner != nil {
			return fmt.Errorf("insert event %d: %w", i, ErrAlreadyOwned)
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("insert event %d twice: %w", i, ErrAlreadyOwned)
		}
		seen[e] = struct{}{}
	}
	return nil
}

// IndexOf returns the position of e, or -1. It is a linear scan.
func (l *EventList) IndexOf(e *Event) int {
	return l.IndexFunc(func(candidate *Event) bool { return candidate == e })
}

// InsertOne constructs an event from f and inserts it at idx.
func (l *EventList) InsertOne(idx int, f EventFields) (*Event, error) {
	e := NewEvent(f)
	if err := l.Insert(idx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadFromSource replaces the whole contents with events. All current events
// are removed (and announced) before the new ones are inserted; if the new
// events fail validation nothing changes.
func (l *EventList) LoadFromSource(events []*Event) error {
	if err := l.Validate(events); err != nil {
		return err
	}
	l.Clear()
	return l.Insert(0, events...)
}
