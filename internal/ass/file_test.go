package ass

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func sampleFile(events, styles int) *File {
	f := NewFile()
	f.Meta.Update(
		MetaEntry{Key: MetaScriptType, Value: "v4.00+"},
		MetaEntry{Key: MetaPlayResX, Value: "1920"},
		MetaEntry{Key: MetaLanguage, Value: "en_US"},
	)
	for i := range styles {
		sf := DefaultStyleFields(fmt.Sprintf("Style%d", i))
		sf.Bold = i%2 == 0
		sf.FontSize = 20.5 + float64(i)
		sf.PrimaryColor = Color{R: uint8(i), G: 10, B: 20, A: 30}
		if _, err := f.Styles.InsertOne(i, sf); err != nil {
			panic(err)
		}
	}
	for i := range events {
		_, _ = f.Events.InsertOne(i, EventFields{
			Start:     i*1000 + 7,
			End:       i*1000 + 999,
			Style:     fmt.Sprintf("Style%d", i%max(styles, 1)),
			Actor:     "Actor",
			Text:      fmt.Sprintf(`line %d\Nsecond`, i),
			Note:      fmt.Sprintf("note {%d} with \\ backslash", i),
			Layer:     i % 3,
			IsComment: i%4 == 3,
		})
	}
	return f
}

func TestSaveLoadEquality(t *testing.T) {
	for _, size := range []struct{ events, styles int }{{0, 1}, {1, 1}, {25, 4}} {
		t.Run(fmt.Sprintf("%d_events_%d_styles", size.events, size.styles), func(t *testing.T) {
			src := sampleFile(size.events, size.styles)
			var buf bytes.Buffer
			if err := src.Save(&buf); err != nil {
				t.Fatalf("Save: %v", err)
			}

			loaded := NewFile()
			if err := loaded.Load(&buf); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(loaded.Meta.Entries(), src.Meta.Entries()) {
				t.Fatalf("meta differs: %v vs %v", loaded.Meta.Entries(), src.Meta.Entries())
			}
			if loaded.Styles.Len() != src.Styles.Len() || loaded.Events.Len() != src.Events.Len() {
				t.Fatalf("counts differ: styles %d/%d events %d/%d",
					loaded.Styles.Len(), src.Styles.Len(), loaded.Events.Len(), src.Events.Len())
			}
			for i, s := range src.Styles.All() {
				if got := loaded.Styles.At(i).Fields(); !reflect.DeepEqual(got, s.Fields()) {
					t.Fatalf("style %d differs:\n got %+v\nwant %+v", i, got, s.Fields())
				}
			}
			for i, e := range src.Events.All() {
				if got := loaded.Events.At(i).Fields(); !reflect.DeepEqual(got, e.Fields()) {
					t.Fatalf("event %d differs:\n got %+v\nwant %+v", i, got, e.Fields())
				}
			}
		})
	}
}

func TestReadPreservesUnknownColumnsAndSections(t *testing.T) {
	doc := strings.Join([]string{
		"[Script Info]",
		"; comment",
		"Title: Demo",
		"",
		"[V4+ Styles]",
		"Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding",
		"Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1",
		"",
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Marked, Text",
		"Dialogue: 0,0:00:01.00,0:00:02.50,Default,,0,0,0,,1,Hello, world",
		"Comment: 1,0:00:03.00,0:00:04.00,Default,Bob,0,0,0,,0,{TIME:3001,4002}hidden{NOTE:n}",
		"",
		"[Fonts]",
		"fontname: x.ttf",
		"",
	}, "\r\n")

	f, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v, _ := f.Meta.Get("Title"); v != "Demo" {
		t.Fatalf("unexpected title %q", v)
	}
	if f.Events.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", f.Events.Len())
	}
	first := f.Events.At(0)
	if first.Text() != "Hello, world" || first.Start() != 1000 || first.End() != 2500 {
		t.Fatalf("unexpected first event %+v", first.Fields())
	}
	if first.Fields().Extra["Marked"] != "1" {
		t.Fatalf("unknown column lost: %+v", first.Fields().Extra)
	}
	second := f.Events.At(1)
	if !second.IsComment() || second.Start() != 3001 || second.End() != 4002 || second.Note() != "n" || second.Actor() != "Bob" {
		t.Fatalf("unexpected second event %+v", second.Fields())
	}
	if len(f.Extra) != 1 || f.Extra[0].Name != "Fonts" || len(f.Extra[0].Lines) != 1 {
		t.Fatalf("unknown section not preserved: %+v", f.Extra)
	}

	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "[Script Info]\n"+signature+"\n") {
		t.Fatalf("missing signature:\n%s", out)
	}
	if !strings.Contains(out, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Marked, Text") {
		t.Fatalf("extra column not written:\n%s", out)
	}
	if !strings.Contains(out, "[Fonts]\nfontname: x.ttf") {
		t.Fatalf("unknown section not written:\n%s", out)
	}
}

func TestSaveReplacesSeparatorsInValues(t *testing.T) {
	f := NewFile()
	f.Meta.Set("Title", "two\nlines")
	f.Meta.Set("Odd: key", "v")
	sf := DefaultStyleFields("Top, Left")
	sf.FontName = "Font, Bold"
	if _, err := f.Styles.InsertOne(0, sf); err != nil {
		t.Fatalf("InsertOne style: %v", err)
	}
	if _, err := f.Events.InsertOne(0, EventFields{
		Start:  100,
		End:    200,
		Style:  "Top, Left",
		Actor:  "Smith, J.",
		Effect: "Scroll up;1,2",
		Text:   "hello, world",
	}); err != nil {
		t.Fatalf("InsertOne event: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read of saved document: %v", err)
	}
	if v, _ := loaded.Meta.Get("Title"); v != "two lines" {
		t.Fatalf("unexpected title %q", v)
	}
	if v, ok := loaded.Meta.Get("Odd; key"); !ok || v != "v" {
		t.Fatalf("unexpected meta %v", loaded.Meta.Entries())
	}
	if loaded.Styles.Len() != 1 {
		t.Fatalf("expected 1 style, got %d", loaded.Styles.Len())
	}
	style := loaded.Styles.At(0).Fields()
	if style.Name != "Top; Left" || style.FontName != "Font; Bold" || style.Alignment != sf.Alignment {
		t.Fatalf("unexpected style %+v", style)
	}
	if loaded.Events.Len() != 1 {
		t.Fatalf("expected 1 event, got %d", loaded.Events.Len())
	}
	got := loaded.Events.At(0).Fields()
	if got.Style != "Top; Left" || got.Actor != "Smith; J." || got.Effect != "Scroll up;1;2" {
		t.Fatalf("unexpected event columns %+v", got)
	}
	if got.Text != "hello, world" || got.Start != 100 || got.End != 200 {
		t.Fatalf("unexpected event text or times %+v", got)
	}
}

func TestReadKeepsLegacyEventLines(t *testing.T) {
	doc := strings.Join([]string{
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
		"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,hi",
		"Sound: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,beep.wav",
		"Command: 0,0:00:03.00,0:00:04.00,Default,,0,0,0,,SSA:Pause",
		"",
	}, "\n")
	f, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Events.Len() != 1 || len(f.LegacyEvents) != 2 {
		t.Fatalf("unexpected events %d, legacy %v", f.Events.Len(), f.LegacyEvents)
	}

	var buf bytes.Buffer
	if err := f.Clone().Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Sound: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,beep.wav\n",
		"Command: 0,0:00:03.00,0:00:04.00,Default,,0,0,0,,SSA:Pause\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("legacy line %q not written:\n%s", want, out)
		}
	}
	again, err := Read(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Read of saved document: %v", err)
	}
	if again.Events.Len() != 1 || len(again.LegacyEvents) != 2 {
		t.Fatalf("legacy lines not stable: %d events, %v", again.Events.Len(), again.LegacyEvents)
	}
}

func TestReadUTF16WithBOM(t *testing.T) {
	doc := "[Script Info]\nTitle: Wide\n"
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := enc.String(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	f, err := Read(strings.NewReader(encoded))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v, _ := f.Meta.Get("Title"); v != "Wide" {
		t.Fatalf("unexpected title %q", v)
	}
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"content before section": "Title: x\n",
		"bad info line":          "[Script Info]\nnot a pair\n",
		"bad time":               "[Events]\nDialogue: 0,nope,0:00:01.00,Default,,0,0,0,,x\n",
		"short event":            "[Events]\nDialogue: 0,0:00:00.00\n",
		"text not last":          "[Events]\nFormat: Text, Start\n",
		"style without name":     "[V4+ Styles]\nFormat: Name, Fontname\nStyle: ,Arial\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc))
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Line == 0 {
				t.Fatalf("expected ParseError with line, got %#v", err)
			}
		})
	}
}

func TestFailedLoadLeavesDocumentUntouched(t *testing.T) {
	f := sampleFile(3, 1)
	before := f.Events.Items()
	if err := f.Load(strings.NewReader("[Events]\nDialogue: broken\n")); err == nil {
		t.Fatal("expected load error")
	}
	after := f.Events.Items()
	if len(after) != len(before) {
		t.Fatalf("document changed: %d -> %d events", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("event %d replaced by failed load", i)
		}
	}
}

func TestNewBlankFile(t *testing.T) {
	f := NewBlankFile("")
	if f.Styles.Len() != 1 || f.Styles.At(0).Name() != DefaultStyleName || f.Events.Len() != 0 {
		t.Fatalf("unexpected blank document: %d styles, %d events", f.Styles.Len(), f.Events.Len())
	}
}
