package ass

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	sectionScriptInfo = "Script Info"
	sectionStyles     = "V4+ Styles"
	sectionStylesV4   = "V4 Styles"
	sectionEvents     = "Events"
)

var (
	defaultStyleFormat = []string{
		"Name", "Fontname", "Fontsize", "PrimaryColour", "SecondaryColour",
		"OutlineColour", "BackColour", "Bold", "Italic", "Underline", "StrikeOut",
		"ScaleX", "ScaleY", "Spacing", "Angle", "BorderStyle", "Outline",
		"Shadow", "Alignment", "MarginL", "MarginR", "MarginV", "Encoding",
	}
	defaultEventFormat = []string{
		"Layer", "Start", "End", "Style", "Name",
		"MarginL", "MarginR", "MarginV", "Effect", "Text",
	}
)

// Lower-cased Format column names with a dedicated field.
var knownStyleColumns = map[string]bool{
	"name": true, "fontname": true, "fontsize": true,
	"primarycolour": true, "primarycolor": true,
	"secondarycolour": true, "secondarycolor": true,
	"outlinecolour": true, "outlinecolor": true, "tertiarycolour": true,
	"backcolour": true, "backcolor": true,
	"bold": true, "italic": true, "underline": true, "strikeout": true,
	"scalex": true, "scaley": true, "spacing": true, "angle": true,
	"borderstyle": true, "outline": true, "shadow": true, "alignment": true,
	"marginl": true, "marginr": true, "marginv": true, "encoding": true,
}

var knownEventColumns = map[string]bool{
	"layer": true, "start": true, "end": true, "style": true,
	"name": true, "actor": true,
	"marginl": true, "marginr": true, "marginv": true,
	"effect": true, "text": true,
}

// Read parses a complete document. UTF-8 (with or without BOM) and UTF-16
// with a BOM are accepted.
func Read(r io.Reader) (*File, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	p := &parser{
		file:        NewFile(),
		styleFormat: defaultStyleFormat,
		eventFormat: defaultEventFormat,
	}

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		p.lineNo++
		if err := p.line(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	f := p.file
	f.Meta.Replace(p.meta)
	if err := f.Styles.Insert(0, p.styles...); err != nil {
		return nil, err
	}
	if err := f.Events.Insert(0, p.events...); err != nil {
		return nil, err
	}
	return f, nil
}

type parser struct {
	file    *File
	lineNo  int
	section string
	extra   *Section

	meta   []MetaEntry
	styles []*Style
	events []*Event

	styleFormat []string
	eventFormat []string
}

func (p *parser) fail(format string, args ...any) error {
	return &ParseError{Line: p.lineNo, Section: p.section, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) line(raw string) error {
	line := strings.TrimSpace(raw)
	if p.lineNo == 1 {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		p.enter(line[1 : len(line)-1])
		return nil
	}
	if p.extra != nil {
		if line != "" {
			p.extra.Lines = append(p.extra.Lines, raw)
		}
		return nil
	}
	if line == "" || strings.HasPrefix(line, ";") {
		return nil
	}

	switch p.section {
	case "":
		return p.fail("content before the first section")
	case sectionScriptInfo:
		return p.scriptInfo(line)
	case sectionStyles, sectionStylesV4:
		return p.styleLine(line)
	case sectionEvents:
		// Trailing blanks belong to the text column.
		return p.eventLine(strings.TrimLeft(raw, " \t"))
	}
	return nil
}

func (p *parser) enter(name string) {
	p.section = name
	p.extra = nil
	switch name {
	case sectionScriptInfo, sectionStyles, sectionStylesV4, sectionEvents:
		return
	}
	p.file.Extra = append(p.file.Extra, Section{Name: name})
	p.extra = &p.file.Extra[len(p.file.Extra)-1]
}

func (p *parser) scriptInfo(line string) error {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return p.fail("expected \"key: value\", got %q", line)
	}
	p.meta = append(p.meta, MetaEntry{
		Key:   strings.TrimSpace(key),
		Value: strings.TrimLeft(value, " \t"),
	})
	return nil
}

func splitKind(line string) (kind, rest string, ok bool) {
	kind, rest, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(kind), strings.TrimLeft(rest, " \t"), true
}

func parseFormat(rest string) []string {
	cols := strings.Split(rest, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

func unknownColumns(format []string, known map[string]bool) []string {
	var out []string
	for _, col := range format {
		if !known[strings.ToLower(col)] {
			out = append(out, col)
		}
	}
	return out
}

func (p *parser) styleLine(line string) error {
	kind, rest, ok := splitKind(line)
	if !ok {
		return p.fail("expected \"Style:\" or \"Format:\", got %q", line)
	}
	switch strings.ToLower(kind) {
	case "format":
		p.styleFormat = parseFormat(rest)
		p.file.StyleColumns = unknownColumns(p.styleFormat, knownStyleColumns)
		return nil
	case "style":
	default:
		return p.fail("unexpected line type %q", kind)
	}

	values := strings.SplitN(rest, ",", len(p.styleFormat))
	if len(values) != len(p.styleFormat) {
		return p.fail("style has %d fields, format declares %d", len(values), len(p.styleFormat))
	}
	f := StyleFields{}
	for i, col := range p.styleFormat {
		if err := p.styleField(&f, col, strings.TrimSpace(values[i])); err != nil {
			return err
		}
	}
	s, err := NewStyle(f)
	if err != nil {
		return p.fail("%v", err)
	}
	p.styles = append(p.styles, s)
	return nil
}

func (p *parser) styleField(f *StyleFields, col, v string) error {
	var err error
	switch strings.ToLower(col) {
	case "name":
		f.Name = v
	case "fontname":
		f.FontName = v
	case "fontsize":
		f.FontSize, err = parseFloat(v)
	case "primarycolour", "primarycolor":
		f.PrimaryColor, err = ParseColor(v)
	case "secondarycolour", "secondarycolor":
		f.SecondaryColor, err = ParseColor(v)
	case "outlinecolour", "outlinecolor", "tertiarycolour":
		f.OutlineColor, err = ParseColor(v)
	case "backcolour", "backcolor":
		f.BackColor, err = ParseColor(v)
	case "bold":
		f.Bold, err = parseFlag(v)
	case "italic":
		f.Italic, err = parseFlag(v)
	case "underline":
		f.Underline, err = parseFlag(v)
	case "strikeout":
		f.StrikeOut, err = parseFlag(v)
	case "scalex":
		f.ScaleX, err = parseFloat(v)
	case "scaley":
		f.ScaleY, err = parseFloat(v)
	case "spacing":
		f.Spacing, err = parseFloat(v)
	case "angle":
		f.Angle, err = parseFloat(v)
	case "borderstyle":
		f.BorderStyle, err = parseInt(v)
	case "outline":
		f.Outline, err = parseFloat(v)
	case "shadow":
		f.Shadow, err = parseFloat(v)
	case "alignment":
		f.Alignment, err = parseInt(v)
	case "marginl":
		f.MarginLeft, err = parseInt(v)
	case "marginr":
		f.MarginRight, err = parseInt(v)
	case "marginv":
		f.MarginVertical, err = parseInt(v)
	case "encoding":
		f.Encoding, err = parseInt(v)
	default:
		if f.Extra == nil {
			f.Extra = make(map[string]string)
		}
		f.Extra[col] = v
	}
	if err != nil {
		return p.fail("style column %s: %v", col, err)
	}
	return nil
}

func (p *parser) eventLine(line string) error {
	kind, rest, ok := splitKind(line)
	if !ok {
		return p.fail("expected an event line, got %q", line)
	}
	var comment bool
	switch strings.ToLower(kind) {
	case "format":
		format := parseFormat(rest)
		if !strings.EqualFold(format[len(format)-1], "text") {
			return p.fail("Text must be the last Format column")
		}
		p.eventFormat = format
		p.file.EventColumns = unknownColumns(format, knownEventColumns)
		return nil
	case "dialogue":
	case "comment":
		comment = true
	case "picture", "sound", "movie", "command":
		p.file.LegacyEvents = append(p.file.LegacyEvents, line)
		return nil
	default:
		return p.fail("unsupported event type %q", kind)
	}

	values := strings.SplitN(rest, ",", len(p.eventFormat))
	if len(values) != len(p.eventFormat) {
		return p.fail("event has %d fields, format declares %d", len(values), len(p.eventFormat))
	}
	f := EventFields{IsComment: comment}
	var stored string
	for i, col := range p.eventFormat {
		v := values[i]
		if strings.EqualFold(col, "text") {
			stored = v
			continue
		}
		if err := p.eventField(&f, col, strings.TrimSpace(v)); err != nil {
			return err
		}
	}
	f.Text, f.Note, f.Start, f.End = UnpackText(stored, f.Start, f.End)
	p.events = append(p.events, NewEvent(f))
	return nil
}

func (p *parser) eventField(f *EventFields, col, v string) error {
	var err error
	switch strings.ToLower(col) {
	case "layer":
		f.Layer, err = parseInt(v)
	case "start":
		f.Start, err = ParseTime(v)
	case "end":
		f.End, err = ParseTime(v)
	case "style":
		f.Style = v
	case "name", "actor":
		f.Actor = v
	case "marginl":
		f.MarginLeft, err = parseInt(v)
	case "marginr":
		f.MarginRight, err = parseInt(v)
	case "marginv":
		f.MarginVertical, err = parseInt(v)
	case "effect":
		f.Effect = v
	default:
		if f.Extra == nil {
			f.Extra = make(map[string]string)
		}
		f.Extra[col] = v
	}
	if err != nil {
		return p.fail("event column %s: %v", col, err)
	}
	return nil
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Some writers emit integral columns as floats.
		fl, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, fmt.Errorf("invalid integer %q", v)
		}
		return int(fl), nil
	}
	return n, nil
}

func parseFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	fl, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	return fl, nil
}

func parseFlag(v string) (bool, error) {
	n, err := parseInt(v)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}
