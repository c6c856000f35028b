package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// prettyHandler writes records for a person watching a terminal: one header
// line, then a bullet per interesting field. Debug records list every field
// raw.
type prettyHandler struct {
	out        *consoleOutput
	level      *slog.LevelVar
	withSource bool
	attrs      []slog.Attr
	group      string // dotted prefix from WithGroup
}

// consoleOutput is shared by a handler and all its clones.
type consoleOutput struct {
	mu sync.Mutex
	w  io.Writer
	// Fields already shown for the current batch; info records repeating
	// them are shortened.
	seenKey string
	seen    map[string]string
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, withSource bool) slog.Handler {
	return &prettyHandler{out: &consoleOutput{w: w}, level: lvl, withSource: withSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

type header struct {
	ts        time.Time
	level     slog.Level
	component string
	batchID   string
	command   string
	message   string
	source    *slog.Source
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	var kvs []kv
	for _, attr := range h.attrs {
		kvs = appendFlattened(kvs, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		kvs = appendFlattened(kvs, h.group, attr)
		return true
	})
	kvs = dedupeKVsByKey(kvs)

	head := header{
		ts:      record.Time,
		level:   record.Level,
		message: strings.TrimSpace(record.Message),
	}
	if head.ts.IsZero() {
		head.ts = time.Now()
	}
	if head.message == "" {
		head.message = "(no message)"
	}
	if h.withSource {
		head.source = record.Source()
	}
	for _, item := range kvs {
		switch item.key {
		case FieldComponent:
			head.component = attrString(item.value)
		case FieldBatchID:
			head.batchID = attrString(item.value)
		case FieldCommand:
			head.command = attrString(item.value)
		}
	}

	var buf bytes.Buffer
	writeLogHeader(&buf, head)

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	if record.Level < slog.LevelInfo {
		for _, item := range kvs {
			if item.key != FieldComponent {
				fmt.Fprintf(&buf, "    %s: %s\n", item.key, formatValue(item.value))
			}
		}
	} else {
		fields := selectInfoFields(kvs, 0, true)
		for _, field := range h.out.dropRepeats(infoSummaryKey(head), fields, head.level) {
			fmt.Fprintf(&buf, "    - %s: %s\n", field.label, field.value)
		}
	}
	_, err := h.out.w.Write(buf.Bytes())
	return err
}

// dropRepeats removes fields whose value was already printed for key. A
// warning or error always prints everything.
func (o *consoleOutput) dropRepeats(key string, fields []infoField, level slog.Level) []infoField {
	if key == "" {
		return fields
	}
	if key != o.seenKey {
		o.seenKey = key
		o.seen = make(map[string]string, len(fields))
	}
	if level > slog.LevelInfo {
		for _, field := range fields {
			o.seen[field.label] = field.value
		}
		return fields
	}
	return slices.DeleteFunc(fields, func(field infoField) bool {
		prev, ok := o.seen[field.label]
		o.seen[field.label] = field.value
		return ok && prev == field.value
	})
}

// writeLogHeader renders
//
//	2024-01-02 15:04:05 INFO [commands] batch 1a2b3c4d · sub-sort – message [file.go:12]
func writeLogHeader(buf *bytes.Buffer, head header) {
	fmt.Fprintf(buf, "%s %s", formatTimestamp(head.ts), levelLabel(head.level))
	if head.component != "" {
		fmt.Fprintf(buf, " [%s]", head.component)
	}
	if subject := composeSubject(head.batchID, head.command); subject != "" {
		buf.WriteString(" " + subject)
	}
	buf.WriteString(" – " + head.message)
	if head.source != nil {
		fmt.Fprintf(buf, " [%s:%d]", filepath.Base(head.source.File), head.source.Line)
	}
	buf.WriteByte('\n')
}

func composeSubject(batchID, command string) string {
	var parts []string
	if batchID = strings.TrimSpace(batchID); batchID != "" {
		parts = append(parts, "batch "+batchID[:min(len(batchID), 8)])
	}
	if command = strings.TrimSpace(command); command != "" {
		parts = append(parts, command)
	}
	return strings.Join(parts, " · ")
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = slices.Clone(h.attrs)
	for _, attr := range attrs {
		if h.group != "" {
			attr = slog.Attr{Key: h.group, Value: slog.GroupValue(attr)}
		}
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = joinKey(h.group, name)
	return &clone
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key with its last value.
func dedupeKVsByKey(attrs []kv) []kv {
	positions := make(map[string]int, len(attrs))
	out := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			out[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(out)
		out = append(out, attr)
	}
	return out
}

// appendFlattened appends attr to dst, expanding groups into dotted keys.
func appendFlattened(dst []kv, prefix string, attr slog.Attr) []kv {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		prefix = joinKey(prefix, attr.Key)
		for _, member := range value.Group() {
			dst = appendFlattened(dst, prefix, member)
		}
		return dst
	}
	return append(dst, kv{key: joinKey(prefix, attr.Key), value: value})
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	}
	return prefix + "." + key
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
