package ass

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const signature = "; Script generated by subedit"

// Separators inside a value would shift the columns after it, so they are
// replaced on write. Text is the last column and keeps its commas.
var (
	lineCleaner    = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	columnCleaner  = strings.NewReplacer(",", ";", "\r\n", " ", "\n", " ", "\r", " ")
	metaKeyCleaner = strings.NewReplacer(":", ";", "\r\n", " ", "\n", " ", "\r", " ")
)

// Write serialises f as an ASS document.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	aw := &assWriter{w: bw}

	aw.line("[Script Info]")
	aw.line(signature)
	for _, entry := range f.Meta.Entries() {
		aw.line(metaKeyCleaner.Replace(strings.TrimLeft(entry.Key, ";[ ")) + ": " + lineCleaner.Replace(entry.Value))
	}
	aw.line("")

	aw.line("[V4+ Styles]")
	styleFormat := append(append([]string{}, defaultStyleFormat...), f.StyleColumns...)
	aw.line("Format: " + strings.Join(styleFormat, ", "))
	for _, s := range f.Styles.All() {
		aw.line("Style: " + strings.Join(styleValues(s.f, f.StyleColumns), ","))
	}
	aw.line("")

	aw.line("[Events]")
	eventFormat := make([]string, 0, len(defaultEventFormat)+len(f.EventColumns))
	eventFormat = append(eventFormat, defaultEventFormat[:len(defaultEventFormat)-1]...)
	eventFormat = append(eventFormat, f.EventColumns...)
	eventFormat = append(eventFormat, "Text")
	aw.line("Format: " + strings.Join(eventFormat, ", "))
	for _, e := range f.Events.All() {
		kind := "Dialogue"
		if e.f.IsComment {
			kind = "Comment"
		}
		aw.line(kind + ": " + strings.Join(eventValues(e.f, f.EventColumns), ","))
	}
	for _, l := range f.LegacyEvents {
		aw.line(l)
	}

	for _, sec := range f.Extra {
		aw.line("")
		aw.line("[" + sec.Name + "]")
		for _, l := range sec.Lines {
			aw.line(l)
		}
	}

	if aw.err != nil {
		return fmt.Errorf("write document: %w", aw.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

type assWriter struct {
	w   *bufio.Writer
	err error
}

func (a *assWriter) line(s string) {
	if a.err != nil {
		return
	}
	if _, err := a.w.WriteString(s); err != nil {
		a.err = err
		return
	}
	a.err = a.w.WriteByte('\n')
}

func styleValues(f StyleFields, extra []string) []string {
	out := []string{
		columnCleaner.Replace(f.Name),
		columnCleaner.Replace(f.FontName),
		formatFloat(f.FontSize),
		f.PrimaryColor.String(),
		f.SecondaryColor.String(),
		f.OutlineColor.String(),
		f.BackColor.String(),
		formatFlag(f.Bold),
		formatFlag(f.Italic),
		formatFlag(f.Underline),
		formatFlag(f.StrikeOut),
		formatFloat(f.ScaleX),
		formatFloat(f.ScaleY),
		formatFloat(f.Spacing),
		formatFloat(f.Angle),
		strconv.Itoa(f.BorderStyle),
		formatFloat(f.Outline),
		formatFloat(f.Shadow),
		strconv.Itoa(f.Alignment),
		strconv.Itoa(f.MarginLeft),
		strconv.Itoa(f.MarginRight),
		strconv.Itoa(f.MarginVertical),
		strconv.Itoa(f.Encoding),
	}
	for _, col := range extra {
		out = append(out, columnCleaner.Replace(f.Extra[col]))
	}
	return out
}

func eventValues(f EventFields, extra []string) []string {
	out := []string{
		strconv.Itoa(f.Layer),
		FormatTime(f.Start),
		FormatTime(f.End),
		columnCleaner.Replace(f.Style),
		columnCleaner.Replace(f.Actor),
		strconv.Itoa(f.MarginLeft),
		strconv.Itoa(f.MarginRight),
		strconv.Itoa(f.MarginVertical),
		columnCleaner.Replace(f.Effect),
	}
	for _, col := range extra {
		out = append(out, columnCleaner.Replace(f.Extra[col]))
	}
	return append(out, lineCleaner.Replace(PackText(f.Text, f.Note, f.Start, f.End)))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ASS encodes true as -1.
func formatFlag(v bool) string {
	if v {
		return "-1"
	}
	return "0"
}
