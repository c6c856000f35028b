package ass

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// Color is an RGBA colour. Alpha follows ASS semantics: 0 is opaque, 255 transparent.
type Color struct {
	R, G, B, A uint8
}

// ParseColor decodes the ASS "&HAABBGGRR" notation.
func ParseColor(s string) (Color, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimSuffix(v, "&")
	v = strings.TrimPrefix(strings.TrimPrefix(v, "&H"), "&h")
	if v == "" || len(v) > 8 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{
		R: uint8(n),
		G: uint8(n >> 8),
		B: uint8(n >> 16),
		A: uint8(n >> 24),
	}, nil
}

// String renders the colour in "&HAABBGGRR" notation.
func (c Color) String() string {
	return fmt.Sprintf("&H%02X%02X%02X%02X", c.A, c.B, c.G, c.R)
}

// StyleFields holds the plain data of a style. Name is required.
type StyleFields struct {
	Name           string
	FontName       string
	FontSize       float64
	PrimaryColor   Color
	SecondaryColor Color
	OutlineColor   Color
	BackColor      Color
	Bold           bool
	Italic         bool
	Underline      bool
	StrikeOut      bool
	ScaleX         float64
	ScaleY         float64
	Spacing        float64
	Angle          float64
	BorderStyle    int
	Outline        float64
	Shadow         float64
	Alignment      int
	MarginLeft     int
	MarginRight    int
	MarginVertical int
	Encoding       int
	Extra          map[string]string
}

// DefaultStyleFields returns the stock style values for name.
func DefaultStyleFields(name string) StyleFields {
	return StyleFields{
		Name:           name,
		FontName:       "Arial",
		FontSize:       20,
		PrimaryColor:   Color{R: 255, G: 255, B: 255},
		SecondaryColor: Color{R: 255},
		OutlineColor:   Color{},
		BackColor:      Color{},
		ScaleX:         100,
		ScaleY:         100,
		BorderStyle:    1,
		Outline:        2,
		Shadow:         2,
		Alignment:      2,
		MarginLeft:     10,
		MarginRight:    10,
		MarginVertical: 10,
		Encoding:       1,
	}
}

// Style is a named set of rendering attributes.
type Style struct {
	f     StyleFields
	owner *StyleList
}

// NewStyle builds a detached style; it fails when the name is blank.
func NewStyle(f StyleFields) (*Style, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, fmt.Errorf("style name: %w", ErrMissingField)
	}
	return &Style{f: cloneStyleFields(f)}, nil
}

// Fields returns a copy of the style's data.
func (s *Style) Fields() StyleFields { return cloneStyleFields(s.f) }

// Name returns the style's unique key.
func (s *Style) Name() string { return s.f.Name }

// SetName renames the style. A blank name is rejected.
func (s *Style) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("style name: %w", ErrMissingField)
	}
	return s.Update(func(f *StyleFields) { f.Name = name })
}

// Update applies fn to the style's fields as one change. Renames are
// announced through the owner's Renamed signal after the change pair.
func (s *Style) Update(fn func(*StyleFields)) error {
	oldName := s.f.Name
	idx, attached := s.Index()
	next := cloneStyleFields(s.f)
	fn(&next)
	if strings.TrimSpace(next.Name) == "" {
		return fmt.Errorf("style name: %w", ErrMissingField)
	}
	if next.Name != oldName && s.owner != nil {
		if _, exists := s.owner.GetByName(next.Name); exists {
			return fmt.Errorf("style %q: %w", next.Name, ErrDuplicateStyle)
		}
	}
	if attached {
		s.owner.NotifyAboutToChange(idx)
	}
	s.f = next
	if attached {
		s.owner.NotifyChanged(idx)
		if oldName != s.f.Name {
			s.owner.Renamed.Emit(Rename{Old: oldName, New: s.f.Name})
		}
	}
	return nil
}

// Owner returns the list the style belongs to, or nil.
func (s *Style) Owner() *StyleList { return s.owner }

// Index returns the style's position in its owner.
func (s *Style) Index() (int, bool) {
	if s.owner == nil {
		return -1, false
	}
	idx := s.owner.IndexFunc(func(candidate *Style) bool { return candidate == s })
	return idx, idx >= 0
}

// Clone returns a detached copy.
func (s *Style) Clone() *Style {
	return &Style{f: cloneStyleFields(s.f)}
}

func cloneStyleFields(f StyleFields) StyleFields {
	if f.Extra != nil {
		f.Extra = maps.Clone(f.Extra)
	}
	return f
}
