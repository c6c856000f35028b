package ass

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	timeTagRe = regexp.MustCompile(`^\{TIME:(-?\d+),(-?\d+)\}`)
	noteTagRe = regexp.MustCompile(`\{NOTE:([^}]*)\}$`)
)

// EscapeTag escapes text for use inside an override block: backslash,
// "{" and "}" become `\\`, `\[` and `\]`.
func EscapeTag(s string) string {
	if !strings.ContainsAny(s, `\{}`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '{':
			b.WriteString(`\[`)
		case '}':
			b.WriteString(`\]`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UnescapeTag reverses EscapeTag in a single left-to-right pass. Unknown
// escapes are kept verbatim.
func UnescapeTag(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
			i++
		case '[':
			b.WriteByte('{')
			i++
		case ']':
			b.WriteByte('}')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// PackText produces the stored form of an event's text: a {TIME:start,end}
// prefix, the text, and a {NOTE:...} suffix when note is not empty. An empty
// NOTE block is added when the text itself ends like one.
func PackText(text, note string, start, end int) string {
	var b strings.Builder
	b.WriteString("{TIME:")
	b.WriteString(strconv.Itoa(start))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(end))
	b.WriteByte('}')
	b.WriteString(text)
	if note != "" || noteTagRe.MatchString(text) {
		b.WriteString("{NOTE:")
		b.WriteString(EscapeTag(normalizeNewlines(note)))
		b.WriteByte('}')
	}
	return b.String()
}

// UnpackText strips the TIME tag and a trailing NOTE tag from stored text.
// A NOTE block anywhere else is part of the text. start and end
// are the container-level timestamps, used when no TIME tag is present.
func UnpackText(stored string, start, end int) (text, note string, outStart, outEnd int) {
	outStart, outEnd = start, end
	text = stored

	if loc := timeTagRe.FindStringSubmatchIndex(text); loc != nil {
		s, errS := strconv.Atoi(text[loc[2]:loc[3]])
		e, errE := strconv.Atoi(text[loc[4]:loc[5]])
		if errS == nil && errE == nil {
			outStart, outEnd = s, e
			text = text[:loc[0]] + text[loc[1]:]
		}
	}

	if loc := noteTagRe.FindStringSubmatchIndex(text); loc != nil {
		note = UnescapeTag(text[loc[2]:loc[3]])
		text = text[:loc[0]] + text[loc[1]:]
	}
	return text, note, outStart, outEnd
}
