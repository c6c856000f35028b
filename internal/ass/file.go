package ass

import (
	"fmt"
	"io"
	"slices"
)

// DefaultStyleName is the name given to the single style of a blank document.
const DefaultStyleName = "Default"

// Section is a block of the file this package does not interpret. Lines
// are kept verbatim, without the [Name] header.
type Section struct {
	Name  string
	Lines []string
}

// File is a whole ASS document.
type File struct {
	Meta   *Meta
	Styles *StyleList
	Events *EventList

	// Extra holds unknown sections in the order they were read.
	Extra []Section
	// StyleColumns and EventColumns name the unmodelled Format columns of
	// the source file so that they can be written back.
	StyleColumns []string
	EventColumns []string
	// LegacyEvents holds Picture, Sound, Movie and Command lines verbatim.
	// They are written after the dialogue events.
	LegacyEvents []string
}

// NewFile constructs an empty document with no styles.
func NewFile() *File {
	return &File{
		Meta:   NewMeta(),
		Styles: NewStyleList(),
		Events: NewEventList(),
	}
}

// NewBlankFile constructs a document holding one stock style called
// styleName (DefaultStyleName when empty) and no events.
func NewBlankFile(styleName string) *File {
	if styleName == "" {
		styleName = DefaultStyleName
	}
	f := NewFile()
	if _, err := f.Styles.InsertOne(0, DefaultStyleFields(styleName)); err != nil {
		panic(fmt.Sprintf("ass: blank document style: %v", err))
	}
	return f
}

// Load parses r and, only if that succeeds, replaces the document's
// contents. Observers see every list cleared and refilled.
func (f *File) Load(r io.Reader) error {
	parsed, err := Read(r)
	if err != nil {
		return err
	}
	styles := parsed.Styles.Items()
	events := parsed.Events.Items()
	parsed.Styles.Clear()
	parsed.Events.Clear()

	f.Meta.Replace(parsed.Meta.Entries())
	if err := f.Styles.LoadFromSource(styles); err != nil {
		return err
	}
	if err := f.Events.LoadFromSource(events); err != nil {
		return err
	}
	f.Extra = parsed.Extra
	f.StyleColumns = parsed.StyleColumns
	f.EventColumns = parsed.EventColumns
	f.LegacyEvents = parsed.LegacyEvents
	return nil
}

// Save writes the document to w.
func (f *File) Save(w io.Writer) error {
	return Write(w, f)
}

// Clone returns a detached deep copy of the document.
func (f *File) Clone() *File {
	out := NewFile()
	out.Meta.Replace(f.Meta.Entries())
	styles := make([]*Style, 0, f.Styles.Len())
	for _, s := range f.Styles.All() {
		styles = append(styles, s.Clone())
	}
	_ = out.Styles.Insert(0, styles...)
	events := make([]*Event, 0, f.Events.Len())
	for _, e := range f.Events.All() {
		events = append(events, e.Clone())
	}
	_ = out.Events.Insert(0, events...)
	for _, sec := range f.Extra {
		out.Extra = append(out.Extra, Section{Name: sec.Name, Lines: slices.Clone(sec.Lines)})
	}
	out.StyleColumns = slices.Clone(f.StyleColumns)
	out.EventColumns = slices.Clone(f.EventColumns)
	out.LegacyEvents = slices.Clone(f.LegacyEvents)
	return out
}
