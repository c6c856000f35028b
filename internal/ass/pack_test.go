package ass

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		text, note string
		start, end int
	}{
		{name: "plain", text: "Hello", start: 1000, end: 2500},
		{name: "negative", text: "early", start: -500, end: -1},
		{name: "note braces", text: "x", note: "see {this} and }{", start: 0, end: 1},
		{name: "note backslashes", text: "x", note: `C:\path\[not a tag]\`, start: 5, end: 6},
		{name: "note line breaks", text: `a\Nb`, note: `first\Nsecond`, start: 10, end: 20},
		{name: "text with tags", text: `{\i1}italic{\i0}`, note: "n", start: 123456789, end: 123456790},
		{name: "empty", start: 0, end: 0},
		{name: "note tag inside text", text: "a{NOTE:x}b", start: 1, end: 2},
		{name: "note tag ending text", text: "a{NOTE:x}", start: 1, end: 2},
		{name: "note tag ending text with note", text: "a{NOTE:x}", note: "y", start: 1, end: 2},
		{name: "time tag inside text", text: "a{TIME:5,6}", start: 1, end: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stored := PackText(tc.text, tc.note, tc.start, tc.end)
			text, note, start, end := UnpackText(stored, 0, 0)
			if text != tc.text || note != tc.note || start != tc.start || end != tc.end {
				t.Fatalf("round trip of %q gave text=%q note=%q start=%d end=%d", stored, text, note, start, end)
			}
			if again := PackText(text, note, start, end); again != stored {
				t.Fatalf("packing is not idempotent: %q vs %q", again, stored)
			}
		})
	}
}

func TestPackTextLayout(t *testing.T) {
	if got := PackText("hi", "", 1, 2); got != "{TIME:1,2}hi" {
		t.Fatalf("unexpected packed text %q", got)
	}
	if got := PackText("hi", "a{b}", 1, 2); got != `{TIME:1,2}hi{NOTE:a\[b\]}` {
		t.Fatalf("unexpected packed text %q", got)
	}
}

func TestUnpackIgnoresNoteBlockBeforeEnd(t *testing.T) {
	text, note, _, _ := UnpackText("{TIME:1,2}a{NOTE:x}b", 0, 0)
	if text != "a{NOTE:x}b" || note != "" {
		t.Fatalf("unexpected unpack: text=%q note=%q", text, note)
	}
}

func TestUnpackWithoutTimeKeepsContainerTimes(t *testing.T) {
	text, note, start, end := UnpackText("plain", 100, 200)
	if text != "plain" || note != "" || start != 100 || end != 200 {
		t.Fatalf("unexpected unpack: %q %q %d %d", text, note, start, end)
	}
}

func TestNoteNewlinesBecomeLineBreaks(t *testing.T) {
	stored := PackText("", "a\nb", 0, 0)
	_, note, _, _ := UnpackText(stored, 0, 0)
	if note != `a\Nb` {
		t.Fatalf("unexpected note %q", note)
	}
}

func TestEscapeUnescape(t *testing.T) {
	for _, s := range []string{"", `\`, `\\`, "{}", `\[`, `a\Nb{c}\`} {
		if got := UnescapeTag(EscapeTag(s)); got != s {
			t.Fatalf("escape round trip of %q gave %q", s, got)
		}
	}
}

func TestFormatAndParseTime(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{0, "0:00:00.00"},
		{1234, "0:00:01.23"},
		{3723450, "1:02:03.45"},
		{-20, "0:00:00.00"},
	}
	for _, tc := range cases {
		if got := FormatTime(tc.ms); got != tc.want {
			t.Fatalf("FormatTime(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
	got, err := ParseTime("1:02:03.45")
	if err != nil || got != 3723450 {
		t.Fatalf("ParseTime = %d, %v", got, err)
	}
	if _, err := ParseTime("bogus"); err == nil {
		t.Fatal("expected error for malformed time")
	}
}
