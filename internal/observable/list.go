package observable

import (
	"errors"
	"fmt"
	"iter"
)

// ErrIndexOutOfRange reports an index or range outside the list bounds.
var ErrIndexOutOfRange = errors.New("index out of range")

// Range identifies a contiguous block of list positions.
type Range struct {
	Index int
	Count int
}

// Contains reports whether idx falls inside the range.
func (r Range) Contains(idx int) bool {
	return idx >= r.Index && idx < r.Index+r.Count
}

// Hooks lets specialised lists maintain per-item state (such as a parent
// back-reference) at the exact point between the backing store mutation and
// the "done" notification.
type Hooks[T any] struct {
	// Validate runs before anything is announced; an error aborts the insertion.
	Validate func(items []T) error
	// Attach runs after items were stored, before ItemsInserted fires.
	Attach func(items []T)
	// Detach runs after items left the store, before ItemsRemoved fires.
	Detach func(items []T)
}

// List is an ordered, observable sequence.
//
// For ItemsAboutToBeInserted and ItemsAboutToBeRemoved the range refers to
// the list before the mutation; for ItemsInserted and ItemsRemoved it
// refers to the list after it.
type List[T any] struct {
	items []T
	hooks Hooks[T]

	ItemsAboutToBeInserted Signal[Range]
	ItemsInserted          Signal[Range]
	ItemsAboutToBeRemoved  Signal[Range]
	ItemsRemoved           Signal[Range]
	ItemAboutToChange      Signal[int]
	ItemChanged            Signal[int]
}

// NewList constructs an empty list with optional hooks.
func NewList[T any](hooks Hooks[T]) *List[T] {
	return &List[T]{hooks: hooks}
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Get returns the item at idx, or the zero value and false when idx is out of range.
func (l *List[T]) Get(idx int) (T, bool) {
	if idx < 0 || idx >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[idx], true
}

// At returns the item at idx and panics when idx is out of range, like a
// slice index.
func (l *List[T]) At(idx int) T {
	return l.items[idx]
}

// All iterates over index/item pairs in order.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Slice returns a copy of items in [idx, idx+count).
func (l *List[T]) Slice(idx, count int) ([]T, error) {
	if err := l.checkRange(idx, count); err != nil {
		return nil, err
	}
	out := make([]T, count)
	copy(out, l.items[idx:idx+count])
	return out, nil
}

// IndexFunc returns the first index whose item satisfies match, or -1.
func (l *List[T]) IndexFunc(match func(T) bool) int {
	for i, item := range l.items {
		if match(item) {
			return i
		}
	}
	return -1
}

// Insert places items before position idx. idx may equal Len to append.
func (l *List[T]) Insert(idx int, items ...T) error {
	if idx < 0 || idx > len(l.items) {
		return fmt.Errorf("insert at %d (len %d): %w", idx, len(l.items), ErrIndexOutOfRange)
	}
	if len(items) == 0 {
		return nil
	}
	if l.hooks.Validate != nil {
		if err := l.hooks.Validate(items); err != nil {
			return err
		}
	}
	r := Range{Index: idx, Count: len(items)}
	l.ItemsAboutToBeInserted.Emit(r)

	grown := make([]T, 0, len(l.items)+len(items))
	grown = append(grown, l.items[:idx]...)
	grown = append(grown, items...)
	grown = append(grown, l.items[idx:]...)
	l.items = grown

	if l.hooks.Attach != nil {
		l.hooks.Attach(items)
	}
	l.ItemsInserted.Emit(r)
	return nil
}

// Append inserts items at the end of the list.
func (l *List[T]) Append(items ...T) error {
	return l.Insert(len(l.items), items...)
}

// Remove deletes count items starting at idx.
func (l *List[T]) Remove(idx, count int) error {
	if err := l.checkRange(idx, count); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	r := Range{Index: idx, Count: count}
	l.ItemsAboutToBeRemoved.Emit(r)

	removed := make([]T, count)
	copy(removed, l.items[idx:idx+count])
	kept := make([]T, 0, len(l.items)-count)
	kept = append(kept, l.items[:idx]...)
	kept = append(kept, l.items[idx+count:]...)
	l.items = kept

	if l.hooks.Detach != nil {
		l.hooks.Detach(removed)
	}
	l.ItemsRemoved.Emit(r)
	return nil
}

// Replace swaps the len(items) entries starting at idx for items. It is a
// removal followed by an insertion, each with its own notifications. Items
// may include entries from the replaced block; validation runs once they
// have been detached.
func (l *List[T]) Replace(idx int, items ...T) error {
	if err := l.checkRange(idx, len(items)); err != nil {
		return err
	}
	if err := l.Remove(idx, len(items)); err != nil {
		return err
	}
	return l.Insert(idx, items...)
}

// Validate runs the validation hook without mutating the list.
func (l *List[T]) Validate(items []T) error {
	if l.hooks.Validate == nil {
		return nil
	}
	return l.hooks.Validate(items)
}

// Clear removes every item.
func (l *List[T]) Clear() {
	_ = l.Remove(0, len(l.items))
}

// NotifyAboutToChange announces a content change of the item at idx.
func (l *List[T]) NotifyAboutToChange(idx int) {
	l.ItemAboutToChange.Emit(idx)
}

// NotifyChanged announces that the item at idx finished changing.
func (l *List[T]) NotifyChanged(idx int) {
	l.ItemChanged.Emit(idx)
}

func (l *List[T]) checkRange(idx, count int) error {
	if idx < 0 || count < 0 || idx+count > len(l.items) {
		return fmt.Errorf("range [%d, %d) (len %d): %w", idx, idx+count, len(l.items), ErrIndexOutOfRange)
	}
	return nil
}
