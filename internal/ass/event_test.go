package ass

import (
	"errors"
	"math/rand/v2"
	"testing"

	"subedit/internal/observable"
)

func TestSetDurationMovesEnd(t *testing.T) {
	e := NewEvent(EventFields{Start: 1000, End: 3000})
	e.SetDuration(500)
	if e.Start() != 1000 || e.End() != 1500 {
		t.Fatalf("unexpected times after SetDuration: start=%d end=%d", e.Start(), e.End())
	}
	if e.Duration() != 500 {
		t.Fatalf("expected duration 500, got %d", e.Duration())
	}
}

func TestNewEventNormalisesNewlines(t *testing.T) {
	e := NewEvent(EventFields{Text: "one\r\ntwo\nthree", Note: "a\nb"})
	if e.Text() != `one\Ntwo\Nthree` {
		t.Fatalf("unexpected text %q", e.Text())
	}
	if e.Note() != `a\Nb` {
		t.Fatalf("unexpected note %q", e.Note())
	}
	e.SetText("x\ny")
	if e.Text() != `x\Ny` {
		t.Fatalf("setter did not normalise: %q", e.Text())
	}
}

func TestDetachedEventHasNoPosition(t *testing.T) {
	e := NewEvent(EventFields{})
	if idx, ok := e.Index(); ok || idx != -1 {
		t.Fatalf("expected detached index, got %d %v", idx, ok)
	}
	if _, ok := e.Number(); ok {
		t.Fatal("expected no number for detached event")
	}
	if e.Prev() != nil || e.Next() != nil {
		t.Fatal("expected no neighbours for detached event")
	}
	// Writes on a detached event are silent but applied.
	e.SetStart(42)
	if e.Start() != 42 {
		t.Fatalf("expected start 42, got %d", e.Start())
	}
}

func TestIndexPrevNextConsistency(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	list := NewEventList()
	var detached []*Event

	check := func(step int) {
		t.Helper()
		for i, e := range list.All() {
			idx, ok := e.Index()
			if !ok || idx != i {
				t.Fatalf("step %d: event at %d reports index %d (%v)", step, i, idx, ok)
			}
			if n, _ := e.Number(); n != i+1 {
				t.Fatalf("step %d: event at %d reports number %d", step, i, n)
			}
			if e.Owner() != list {
				t.Fatalf("step %d: event at %d has wrong owner", step, i)
			}
			wantPrev, _ := list.Get(i - 1)
			if e.Prev() != wantPrev {
				t.Fatalf("step %d: wrong prev at %d", step, i)
			}
			wantNext, _ := list.Get(i + 1)
			if e.Next() != wantNext {
				t.Fatalf("step %d: wrong next at %d", step, i)
			}
		}
		for _, e := range detached {
			if e.Owner() != nil {
				t.Fatalf("step %d: removed event still owned", step)
			}
		}
	}

	for step := range 200 {
		if list.Len() == 0 || rng.IntN(3) > 0 {
			count := 1 + rng.IntN(3)
			batch := make([]*Event, count)
			for i := range batch {
				batch[i] = NewEvent(EventFields{Start: rng.IntN(10000)})
			}
			if err := list.Insert(rng.IntN(list.Len()+1), batch...); err != nil {
				t.Fatalf("step %d: insert: %v", step, err)
			}
		} else {
			idx := rng.IntN(list.Len())
			count := 1 + rng.IntN(list.Len()-idx)
			removed, _ := list.Slice(idx, count)
			if err := list.Remove(idx, count); err != nil {
				t.Fatalf("step %d: remove: %v", step, err)
			}
			detached = append(detached, removed...)
		}
		check(step)
	}
}

func TestInsertOwnedEventFails(t *testing.T) {
	a := NewEventList()
	b := NewEventList()
	e, err := a.InsertOne(0, EventFields{Text: "x"})
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	var notified bool
	b.ItemsAboutToBeInserted.Connect(func(observable.Range) { notified = true })

	err = b.Insert(0, NewEvent(EventFields{}), e)
	if !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
	if b.Len() != 0 || notified {
		t.Fatal("failed insert must not mutate or notify")
	}
	if e.Owner() != a {
		t.Fatal("owner changed after failed insert")
	}
}

func TestCloneIsDetached(t *testing.T) {
	list := NewEventList()
	e, _ := list.InsertOne(0, EventFields{Text: "hello", Extra: map[string]string{"Marked": "1"}})
	c := e.Clone()
	if c.Owner() != nil {
		t.Fatal("clone should be detached")
	}
	if c.Text() != "hello" || c.Fields().Extra["Marked"] != "1" {
		t.Fatalf("clone lost fields: %+v", c.Fields())
	}
	c.Update(func(f *EventFields) { f.Extra["Marked"] = "0" })
	if e.Fields().Extra["Marked"] != "1" {
		t.Fatal("clone shares Extra with the original")
	}
	if err := list.Insert(1, c); err != nil {
		t.Fatalf("clone should be insertable: %v", err)
	}
}

func TestUpdateEmitsOneChangePair(t *testing.T) {
	list := NewEventList()
	_, _ = list.InsertOne(0, EventFields{})
	e, _ := list.InsertOne(1, EventFields{})

	var got []string
	list.ItemAboutToChange.Connect(func(i int) {
		if i != 1 {
			t.Fatalf("about-to-change for index %d", i)
		}
		got = append(got, "before")
	})
	list.ItemChanged.Connect(func(i int) {
		if i != 1 {
			t.Fatalf("changed for index %d", i)
		}
		got = append(got, "after")
	})
	e.Update(func(f *EventFields) {
		f.Start = 10
		f.End = 20
		f.Text = "x"
	})
	if len(got) != 2 || got[0] != "before" || got[1] != "after" {
		t.Fatalf("unexpected notifications %v", got)
	}
}

func TestHashTracksContentAndOwner(t *testing.T) {
	e := NewEvent(EventFields{Text: "a"})
	detachedHash := e.Hash()

	e.SetText("b")
	if e.Hash() == detachedHash {
		t.Fatal("hash did not change with text")
	}
	e.SetText("a")
	if e.Hash() != detachedHash {
		t.Fatal("hash should be a pure function of content")
	}

	list := NewEventList()
	if err := list.Append(e); err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.Hash() == detachedHash {
		t.Fatal("hash did not change on attach")
	}
	other := NewEventList()
	twin := NewEvent(EventFields{Text: "a"})
	_ = other.Append(twin)
	if twin.Hash() == e.Hash() {
		t.Fatal("equal content in different lists should hash differently")
	}
	_ = list.Remove(0, 1)
	if e.Hash() != detachedHash {
		t.Fatal("hash did not return to detached value")
	}
}

func TestStyleRenameSignal(t *testing.T) {
	list := NewStyleList()
	s, err := list.InsertOne(0, DefaultStyleFields("Default"))
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	var renames []Rename
	list.Renamed.Connect(func(r Rename) { renames = append(renames, r) })

	if err := s.SetName("Signs"); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	if len(renames) != 1 || renames[0] != (Rename{Old: "Default", New: "Signs"}) {
		t.Fatalf("unexpected renames %v", renames)
	}
	if err := s.SetName(" "); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if s.Name() != "Signs" {
		t.Fatalf("failed rename changed the name to %q", s.Name())
	}
	if _, err := list.InsertOne(1, DefaultStyleFields("Signs")); !errors.Is(err, ErrDuplicateStyle) {
		t.Fatalf("expected ErrDuplicateStyle, got %v", err)
	}
	if got, ok := list.GetByName("Signs"); !ok || got != s {
		t.Fatal("GetByName did not find renamed style")
	}
}

func TestStyleRenameRejectsExistingName(t *testing.T) {
	list := NewStyleList()
	a, err := list.InsertOne(0, DefaultStyleFields("A"))
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if _, err := list.InsertOne(1, DefaultStyleFields("B")); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	var changes int
	list.ItemChanged.Connect(func(int) { changes++ })

	if err := a.SetName("B"); !errors.Is(err, ErrDuplicateStyle) {
		t.Fatalf("expected ErrDuplicateStyle, got %v", err)
	}
	if err := a.Update(func(f *StyleFields) { f.Name = "B"; f.Bold = true }); !errors.Is(err, ErrDuplicateStyle) {
		t.Fatalf("expected ErrDuplicateStyle from Update, got %v", err)
	}
	if a.Name() != "A" || a.Fields().Bold != DefaultStyleFields("A").Bold || changes != 0 {
		t.Fatalf("rejected rename changed the style: name=%q changes=%d", a.Name(), changes)
	}
	if err := a.Update(func(f *StyleFields) { f.Italic = true }); err != nil {
		t.Fatalf("update keeping the name: %v", err)
	}
}

func TestNewStyleRequiresName(t *testing.T) {
	if _, err := NewStyle(StyleFields{}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestMetaKeepsOrderAndFiresOnce(t *testing.T) {
	m := NewMeta()
	var fired int
	m.Changed.Connect(func(struct{}) { fired++ })

	m.Update(MetaEntry{Key: "Title", Value: "x"}, MetaEntry{Key: "PlayResX", Value: "1920"})
	m.Set("Title", "y")
	m.Remove("missing")

	if fired != 2 {
		t.Fatalf("expected 2 notifications, got %d", fired)
	}
	entries := m.Entries()
	if len(entries) != 2 || entries[0] != (MetaEntry{Key: "Title", Value: "y"}) || entries[1].Key != "PlayResX" {
		t.Fatalf("unexpected entries %v", entries)
	}
}
