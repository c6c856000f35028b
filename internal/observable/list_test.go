package observable_test

import (
	"errors"
	"slices"
	"strconv"
	"testing"

	"subedit/internal/observable"
)

type recorder struct {
	events []string
}

func (r *recorder) add(kind string, rg observable.Range) {
	r.events = append(r.events, kind+":"+strconv.Itoa(rg.Index)+"+"+strconv.Itoa(rg.Count))
}

func watch(l *observable.List[string]) *recorder {
	rec := &recorder{}
	l.ItemsAboutToBeInserted.Connect(func(r observable.Range) { rec.add("before-insert", r) })
	l.ItemsInserted.Connect(func(r observable.Range) { rec.add("inserted", r) })
	l.ItemsAboutToBeRemoved.Connect(func(r observable.Range) { rec.add("before-remove", r) })
	l.ItemsRemoved.Connect(func(r observable.Range) { rec.add("removed", r) })
	return rec
}

func TestInsertAndRemoveEmitPairedNotifications(t *testing.T) {
	l := observable.NewList[string](observable.Hooks[string]{})
	rec := watch(l)

	if err := l.Insert(0, "a", "b", "c"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := l.Remove(1, 2); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	want := []string{"before-insert:0+3", "inserted:0+3", "before-remove:1+2", "removed:1+2"}
	if !slices.Equal(rec.events, want) {
		t.Fatalf("unexpected notifications: got %v want %v", rec.events, want)
	}
	if got := l.Items(); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("unexpected contents: %v", got)
	}
}

func TestAboutToNotificationsSeePreMutationState(t *testing.T) {
	l := observable.NewList[string](observable.Hooks[string]{})
	_ = l.Append("a", "b", "c")

	var seenBefore, seenAfter int
	l.ItemsAboutToBeRemoved.Connect(func(observable.Range) { seenBefore = l.Len() })
	l.ItemsRemoved.Connect(func(observable.Range) { seenAfter = l.Len() })

	if err := l.Remove(0, 2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if seenBefore != 3 || seenAfter != 1 {
		t.Fatalf("expected lengths 3/1 around removal, got %d/%d", seenBefore, seenAfter)
	}
}

func TestHooksRunBetweenStoreAndDoneSignal(t *testing.T) {
	var order []string
	l := observable.NewList[string](observable.Hooks[string]{
		Attach: func(items []string) { order = append(order, "attach") },
		Detach: func(items []string) { order = append(order, "detach") },
	})
	l.ItemsInserted.Connect(func(observable.Range) { order = append(order, "inserted") })
	l.ItemsAboutToBeRemoved.Connect(func(observable.Range) { order = append(order, "before-remove") })
	l.ItemsRemoved.Connect(func(observable.Range) { order = append(order, "removed") })

	_ = l.Append("x")
	_ = l.Remove(0, 1)

	want := []string{"attach", "inserted", "before-remove", "detach", "removed"}
	if !slices.Equal(order, want) {
		t.Fatalf("unexpected order: got %v want %v", order, want)
	}
}

func TestOutOfRangeMutationsFailWithoutNotifying(t *testing.T) {
	l := observable.NewList[string](observable.Hooks[string]{})
	rec := watch(l)

	if err := l.Insert(1, "a"); !errors.Is(err, observable.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	_ = l.Append("a")
	rec.events = nil
	if err := l.Remove(0, 2); !errors.Is(err, observable.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no notifications, got %v", rec.events)
	}
}

func TestGetReturnsFalseOutsideBounds(t *testing.T) {
	l := observable.NewList[string](observable.Hooks[string]{})
	_ = l.Append("only")
	if _, ok := l.Get(-1); ok {
		t.Fatal("expected Get(-1) to miss")
	}
	if _, ok := l.Get(1); ok {
		t.Fatal("expected Get(1) to miss")
	}
	if v, ok := l.Get(0); !ok || v != "only" {
		t.Fatalf("unexpected Get(0): %q %v", v, ok)
	}
}

func TestReplaceEmitsRemovalThenInsertion(t *testing.T) {
	l := observable.NewList[string](observable.Hooks[string]{})
	_ = l.Append("a", "b", "c")
	rec := watch(l)

	if err := l.Replace(1, "y", "z"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	want := []string{"before-remove:1+2", "removed:1+2", "before-insert:1+2", "inserted:1+2"}
	if !slices.Equal(rec.events, want) {
		t.Fatalf("unexpected notifications: %v", rec.events)
	}
	if got := l.Items(); !slices.Equal(got, []string{"a", "y", "z"}) {
		t.Fatalf("unexpected contents: %v", got)
	}
}

func TestSignalDisconnect(t *testing.T) {
	var sig observable.Signal[int]
	var got []int
	disconnect := sig.Connect(func(v int) { got = append(got, v) })
	sig.Emit(1)
	disconnect()
	disconnect()
	sig.Emit(2)
	if !slices.Equal(got, []int{1}) {
		t.Fatalf("unexpected deliveries: %v", got)
	}
	if sig.Len() != 0 {
		t.Fatalf("expected no observers, got %d", sig.Len())
	}
}
