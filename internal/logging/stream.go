package logging

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// LogEvent is a log record kept by the StreamHub for the interactive log
// view.
type LogEvent struct {
	Sequence  uint64            `json:"seq"`
	Timestamp time.Time         `json:"ts"`
	Level     string            `json:"level"`
	Message   string            `json:"msg"`
	Component string            `json:"component,omitempty"`
	BatchID   string            `json:"batch_id,omitempty"`
	Command   string            `json:"command,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Details   []DetailField     `json:"details,omitempty"`
}

// DetailField mirrors the console handler's info bullet lines.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StreamHub keeps the most recent log events in memory for the shell's log
// view. Sequence numbers start at 1 and never repeat.
type StreamHub struct {
	mu       sync.Mutex
	capacity int
	ring     []LogEvent
	head     int // index of the oldest event once ring is full
	lastSeq  uint64
}

const defaultStreamCapacity = 512

// NewStreamHub returns a hub holding up to capacity events.
func NewStreamHub(capacity int) *StreamHub {
	if capacity <= 0 {
		capacity = defaultStreamCapacity
	}
	return &StreamHub{capacity: capacity, ring: make([]LogEvent, 0, capacity)}
}

// Publish stores evt, evicting the oldest event when the hub is full.
func (h *StreamHub) Publish(evt LogEvent) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSeq++
	evt.Sequence = h.lastSeq
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(h.ring) < h.capacity {
		h.ring = append(h.ring, evt)
		return
	}
	h.ring[h.head] = evt
	h.head = (h.head + 1) % h.capacity
}

// Tail returns up to limit of the newest events, oldest first, and the last
// sequence number published. limit <= 0 returns everything held.
func (h *StreamHub) Tail(limit int) ([]LogEvent, uint64) {
	if h == nil {
		return nil, 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	all := h.orderedLocked()
	if limit > 0 && limit < len(all) {
		all = all[len(all)-limit:]
	}
	return all, h.lastSeq
}

// Since returns up to limit events newer than seq, oldest first, and the
// sequence to pass on the next call. Events evicted before the call are
// skipped silently.
func (h *StreamHub) Since(seq uint64, limit int) ([]LogEvent, uint64) {
	if h == nil {
		return nil, seq
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	all := h.orderedLocked()
	idx, _ := slices.BinarySearchFunc(all, seq+1, func(e LogEvent, target uint64) int {
		return cmp.Compare(e.Sequence, target)
	})
	out := all[idx:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	if len(out) == 0 {
		return nil, max(seq, h.lastSeq)
	}
	return out, out[len(out)-1].Sequence
}

func (h *StreamHub) orderedLocked() []LogEvent {
	out := make([]LogEvent, 0, len(h.ring))
	out = append(out, h.ring[h.head:]...)
	return append(out, h.ring[:h.head]...)
}

type streamHandler struct {
	next  slog.Handler
	hub   *StreamHub
	attrs []slog.Attr
}

func newStreamHandler(next slog.Handler, hub *StreamHub) slog.Handler {
	if hub == nil || next == nil {
		return next
	}
	return &streamHandler{next: next, hub: hub}
}

func (h *streamHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *streamHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.hub != nil {
		h.hub.Publish(eventFromRecordWithAttrs(record, h.attrs))
	}
	return h.next.Handle(ctx, record.Clone())
}

func (h *streamHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)
	return &streamHandler{
		next:  h.next.WithAttrs(attrs),
		hub:   h.hub,
		attrs: newAttrs,
	}
}

func (h *streamHandler) WithGroup(name string) slog.Handler {
	return &streamHandler{
		next:  h.next.WithGroup(name),
		hub:   h.hub,
		attrs: h.attrs,
	}
}

func eventFromRecordWithAttrs(record slog.Record, preAttrs []slog.Attr) LogEvent {
	event := LogEvent{
		Timestamp: record.Time,
		Level:     strings.ToUpper(record.Level.String()),
		Message:   strings.TrimSpace(record.Message),
		Fields:    make(map[string]string),
	}

	var attrs []kv
	processAttr := func(attr slog.Attr) {
		key := strings.TrimSpace(attr.Key)
		if key == "" {
			return
		}
		switch key {
		case FieldComponent:
			event.Component = attrString(attr.Value)
		case FieldBatchID:
			event.BatchID = attrString(attr.Value)
		case FieldCommand:
			event.Command = attrString(attr.Value)
		default:
			event.Fields[key] = attrString(attr.Value)
			attrs = append(attrs, kv{key: key, value: attr.Value})
		}
	}
	for _, attr := range preAttrs {
		processAttr(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		processAttr(attr)
		return true
	})

	if info := selectInfoFields(dedupeKVsByKey(attrs), infoAttrLimit, false); len(info) > 0 {
		event.Details = make([]DetailField, 0, len(info))
		for _, field := range info {
			event.Details = append(event.Details, DetailField{Label: field.label, Value: field.value})
		}
	}
	return event
}
