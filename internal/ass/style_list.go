package ass

import (
	"fmt"

	"subedit/internal/observable"
)

// Rename describes a style name change.
type Rename struct {
	Old string
	New string
}

// StyleList is the observable list of a document's styles.
type StyleList struct {
	*observable.List[*Style]

	// Renamed fires after an attached style changed its name.
	Renamed observable.Signal[Rename]
}

// NewStyleList constructs an empty style list.
func NewStyleList() *StyleList {
	l := &StyleList{}
	l.List = observable.NewList(observable.Hooks[*Style]{
		Validate: validateStyles,
		Attach: func(styles []*Style) {
			for _, s := range styles {
				s.owner = l
			}
		},
		Detach: func(styles []*Style) {
			for _, s := range styles {
				s.owner = nil
			}
		},
	})
	return l
}

func validateStyles(styles []*Style) error {
	seen := make(map[*Style]struct{}, len(styles))
	for i, s := range styles {
		if s == nil {
			return fmt.Errorf("style %d is nil", i)
		}
		if s.owner != nil {
			return fmt.Errorf("insert style %q: %w", s.f.Name, ErrAlreadyOwned)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("insert style %q twice: %w", s.f.Name, ErrAlreadyOwned)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// GetByName returns the first style called name. It is a linear scan.
func (l *StyleList) GetByName(name string) (*Style, bool) {
	idx := l.IndexFunc(func(s *Style) bool { return s.f.Name == name })
	if idx < 0 {
		return nil, false
	}
	s, _ := l.Get(idx)
	return s, true
}

// InsertOne constructs a style from f and inserts it at idx. Unlike Insert,
// it refuses a name that is already present.
func (l *StyleList) InsertOne(idx int, f StyleFields) (*Style, error) {
	s, err := NewStyle(f)
	if err != nil {
		return nil, err
	}
	if _, exists := l.GetByName(f.Name); exists {
		return nil, fmt.Errorf("style %q: %w", f.Name, ErrDuplicateStyle)
	}
	if err := l.Insert(idx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFromSource replaces the whole contents with styles, removing the old
// ones first.
func (l *StyleList) LoadFromSource(styles []*Style) error {
	if err := l.Validate(styles); err != nil {
		return err
	}
	l.Clear()
	return l.Insert(0, styles...)
}
