package ass

import (
	"encoding/binary"
	"maps"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// LineBreak is the in-text line break marker used by ASS.
const LineBreak = `\N`

// EventFields holds the plain data of a subtitle line.
type EventFields struct {
	Start          int
	End            int
	Style          string
	Actor          string
	Text           string
	Note           string
	Effect         string
	Layer          int
	MarginLeft     int
	MarginRight    int
	MarginVertical int
	IsComment      bool

	// Extra carries values of Format columns this package does not model.
	Extra map[string]string
}

// Event is one subtitle line. Its zero value is not usable; construct with NewEvent.
type Event struct {
	f     EventFields
	owner *EventList
	hash  uint64
}

// NewEvent builds a detached event. Literal newlines in text and note are
// converted to LineBreak.
func NewEvent(f EventFields) *Event {
	e := &Event{f: cloneEventFields(f)}
	normalizeEventFields(&e.f)
	e.rehash()
	return e
}

// Fields returns a copy of the event's data.
func (e *Event) Fields() EventFields { return cloneEventFields(e.f) }

func (e *Event) Start() int { return e.f.Start }
func (e *Event) End() int { return e.f.End }
func (e *Event) Style() string { return e.f.Style }
func (e *Event) Actor() string { return e.f.Actor }
func (e *Event) Text() string { return e.f.Text }
func (e *Event) Note() string { return e.f.Note }
func (e *Event) Effect() string { return e.f.Effect }
func (e *Event) Layer() int { return e.f.Layer }
func (e *Event) MarginLeft() int { return e.f.MarginLeft }
func (e *Event) MarginRight() int { return e.f.MarginRight }
func (e *Event) MarginVertical() int { return e.f.MarginVertical }
func (e *Event) IsComment() bool { return e.f.IsComment }

// Duration returns End - Start in milliseconds.
func (e *Event) Duration() int { return e.f.End - e.f.Start }

func (e *Event) SetStart(v int) { e.Update(func(f *EventFields) { f.Start = v }) }
func (e *Event) SetEnd(v int) { e.Update(func(f *EventFields) { f.End = v }) }
func (e *Event) SetStyle(v string) { e.Update(func(f *EventFields) { f.Style = v }) }
func (e *Event) SetActor(v string) { e.Update(func(f *EventFields) { f.Actor = v }) }
func (e *Event) SetText(v string) { e.Update(func(f *EventFields) { f.Text = v }) }
func (e *Event) SetNote(v string) { e.Update(func(f *EventFields) { f.Note = v }) }
func (e *Event) SetEffect(v string) { e.Update(func(f *EventFields) { f.Effect = v }) }
func (e *Event) SetLayer(v int) { e.Update(func(f *EventFields) { f.Layer = v }) }
func (e *Event) SetMarginLeft(v int) { e.Update(func(f *EventFields) { f.MarginLeft = v }) }
func (e *Event) SetMarginRight(v int) { e.Update(func(f *EventFields) { f.MarginRight = v }) }
func (e *Event) SetMarginVertical(v int) { e.Update(func(f *EventFields) { f.MarginVertical = v }) }
func (e *Event) SetIsComment(v bool) { e.Update(func(f *EventFields) { f.IsComment = v }) }

// SetDuration moves End so that End - Start equals d.
func (e *Event) SetDuration(d int) {
	e.Update(func(f *EventFields) { f.End = f.Start + d })
}

// Update applies fn to the event's fields as one change: a single
// about-to-change/changed pair is emitted through the owner, if any.
func (e *Event) Update(fn func(*EventFields)) {
	idx, attached := e.Index()
	if attached {
		e.owner.NotifyAboutToChange(idx)
	}
	fn(&e.f)
	normalizeEventFields(&e.f)
	e.rehash()
	if attached {
		e.owner.NotifyChanged(idx)
	}
}

// Owner returns the list the event belongs to, or nil.
func (e *Event) Owner() *EventList { return e.owner }

// Index returns the event's position in its owner. It costs a linear scan.
func (e *Event) Index() (int, bool) {
	if e.owner == nil {
		return -1, false
	}
	idx := e.owner.IndexOf(e)
	return idx, idx >= 0
}

// Number is Index + 1.
func (e *Event) Number() (int, bool) {
	idx, ok := e.Index()
	if !ok {
		return 0, false
	}
	return idx + 1, true
}

// Prev returns the preceding event in the owner, or nil.
func (e *Event) Prev() *Event {
	idx, ok := e.Index()
	if !ok {
		return nil
	}
	prev, _ := e.owner.Get(idx - 1)
	return prev
}

// Next returns the following event in the owner, or nil.
func (e *Event) Next() *Event {
	idx, ok := e.Index()
	if !ok {
		return nil
	}
	next, _ := e.owner.Get(idx + 1)
	return next
}

// Hash returns the cached content hash. It changes with every field write
// and whenever the event moves to a different owner.
func (e *Event) Hash() uint64 { return e.hash }

// Clone returns a detached copy with identical fields.
func (e *Event) Clone() *Event {
	return NewEvent(e.f)
}

func (e *Event) setOwner(owner *EventList) {
	e.owner = owner
	e.rehash()
}

func (e *Event) rehash() {
	h := xxhash.New()
	var ownerID uint64
	if e.owner != nil {
		ownerID = e.owner.id
	}
	writeUint(h, ownerID)
	writeInt(h, e.f.Start)
	writeInt(h, e.f.End)
	writeString(h, e.f.Style)
	writeString(h, e.f.Actor)
	writeString(h, e.f.Text)
	writeString(h, e.f.Note)
	writeString(h, e.f.Effect)
	writeInt(h, e.f.Layer)
	writeInt(h, e.f.MarginLeft)
	writeInt(h, e.f.MarginRight)
	writeInt(h, e.f.MarginVertical)
	if e.f.IsComment {
		writeUint(h, 1)
	} else {
		writeUint(h, 0)
	}
	for _, key := range slices.Sorted(maps.Keys(e.f.Extra)) {
		writeString(h, key)
		writeString(h, e.f.Extra[key])
	}
	e.hash = h.Sum64()
}

func writeUint(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func writeInt(h *xxhash.Digest, v int) {
	writeUint(h, uint64(int64(v)))
}

func writeString(h *xxhash.Digest, s string) {
	writeUint(h, uint64(len(s)))
	_, _ = h.WriteString(s)
}

func normalizeEventFields(f *EventFields) {
	f.Text = normalizeNewlines(f.Text)
	f.Note = normalizeNewlines(f.Note)
}

func normalizeNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", LineBreak)
}

func cloneEventFields(f EventFields) EventFields {
	if f.Extra != nil {
		f.Extra = maps.Clone(f.Extra)
	}
	return f
}
