package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"subedit/internal/commands"
)

func TestLinePrompterAnswers(t *testing.T) {
	var out bytes.Buffer
	p := newLinePrompter(bufio.NewReader(strings.NewReader("\nSigns\n")), &out)

	got, err := p.Prompt(context.Background(), "Style", "Default")
	if err != nil || got != "Default" {
		t.Fatalf("empty line should keep the initial value, got %q %v", got, err)
	}
	got, err = p.Prompt(context.Background(), "Style", "Default")
	if err != nil || got != "Signs" {
		t.Fatalf("unexpected answer %q %v", got, err)
	}
	if !strings.Contains(out.String(), "Style [Default]: ") {
		t.Fatalf("unexpected prompt output %q", out.String())
	}
	if _, err := p.Prompt(context.Background(), "Style", ""); !errors.Is(err, commands.ErrCanceled) {
		t.Fatalf("expected ErrCanceled at end of input, got %v", err)
	}
}

func TestLinePrompterCanceledContext(t *testing.T) {
	var out bytes.Buffer
	p := newLinePrompter(bufio.NewReader(strings.NewReader("ignored\n")), &out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Prompt(ctx, "Style", "")
	if !errors.Is(err, commands.ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected ErrCanceled wrapping context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("canceled prompt wrote %q", out.String())
	}
}
