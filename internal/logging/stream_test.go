package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestStreamHandlerCapturesBatchAndCommand(t *testing.T) {
	hub := NewStreamHub(100)
	handler := newStreamHandler(slog.NewTextHandler(discardWriter{}, nil), hub)

	logger := slog.New(handler).
		With(slog.String(FieldComponent, "commands")).
		With(slog.String(FieldBatchID, "1234abcd")).
		With(slog.String(FieldCommand, "sub-sort"))
	logger.Info("sub-sort", slog.String(FieldEventType, "command_echo"))

	events, next := hub.Tail(10)
	if len(events) != 1 || next != 1 {
		t.Fatalf("expected 1 event, got %d (next %d)", len(events), next)
	}
	evt := events[0]
	if evt.Component != "commands" || evt.BatchID != "1234abcd" || evt.Command != "sub-sort" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt.Fields[FieldEventType] != "command_echo" {
		t.Fatalf("unexpected fields %v", evt.Fields)
	}
	if len(evt.Details) != 1 || evt.Details[0].Label != "Event" {
		t.Fatalf("unexpected details %+v", evt.Details)
	}
}

func TestStreamHandlerCallSiteOverridesWithAttrs(t *testing.T) {
	hub := NewStreamHub(100)
	handler := newStreamHandler(slog.NewTextHandler(discardWriter{}, nil), hub)

	slog.New(handler).With(slog.String(FieldCommand, "outer")).Info("message", slog.String(FieldCommand, "inner"))

	events, _ := hub.Tail(10)
	if len(events) != 1 || events[0].Command != "inner" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestStreamHandlerNilHubAndLevel(t *testing.T) {
	base := slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if newStreamHandler(base, nil) != base {
		t.Fatal("expected base handler when hub is nil")
	}
	handler := newStreamHandler(base, NewStreamHub(1))
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected INFO to be disabled when base level is WARN")
	}
}

func TestStreamHubBoundedTail(t *testing.T) {
	hub := NewStreamHub(3)
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		hub.Publish(LogEvent{Message: msg})
	}
	events, last := hub.Tail(0)
	if len(events) != 3 || events[0].Message != "c" || events[2].Message != "e" || last != 5 {
		t.Fatalf("unexpected tail %+v last=%d", events, last)
	}
	events, _ = hub.Tail(1)
	if len(events) != 1 || events[0].Message != "e" {
		t.Fatalf("unexpected tail %+v", events)
	}
}

func TestStreamHubSince(t *testing.T) {
	hub := NewStreamHub(3)
	hub.Publish(LogEvent{Message: "first"})

	events, next := hub.Since(0, 0)
	if len(events) != 1 || next != 1 {
		t.Fatalf("unexpected events %+v next=%d", events, next)
	}
	if events, again := hub.Since(next, 0); len(events) != 0 || again != next {
		t.Fatalf("expected nothing new, got %+v next=%d", events, again)
	}

	for _, msg := range []string{"b", "c", "d", "e"} {
		hub.Publish(LogEvent{Message: msg})
	}
	events, next = hub.Since(next, 2)
	if len(events) != 2 || events[0].Message != "c" || next != 4 {
		t.Fatalf("evicted events must be skipped, got %+v next=%d", events, next)
	}
	events, next = hub.Since(next, 0)
	if len(events) != 1 || events[0].Message != "e" || next != 5 {
		t.Fatalf("unexpected remainder %+v next=%d", events, next)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
