package app_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"subedit/internal/app"
	"subedit/internal/logging"
	"subedit/internal/testsupport"
)

const tidyManifest = `
[[command]]
names = ["tidy"]
help = "Sort and select the first line."
run = "sub-sort -t all; sub-select first"

[[menu]]
label = "&Tidy"
cmdline = "tidy"
`

func newApp(t *testing.T, opts ...testsupport.ConfigOption) *app.App {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	a, err := app.New(context.Background(), cfg, app.Options{Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return a
}

func TestNewLoadsBuiltinsAndManifests(t *testing.T) {
	a := newApp(t, testsupport.WithManifest("tidy.toml", tidyManifest))

	for _, name := range []string{"file-open", "sub-insert", "reload-cmds-silent", "tidy"} {
		if _, ok := a.Registry.Get(name); !ok {
			t.Fatalf("command %s not registered", name)
		}
	}
	var found bool
	for _, item := range a.Registry.MenuItems() {
		if item.Cmdline == "tidy" {
			found = true
		}
	}
	if !found {
		t.Fatal("manifest menu item missing")
	}
}

func TestOpenEditSaveRemembersDocument(t *testing.T) {
	a := newApp(t, testsupport.WithManifest("tidy.toml", tidyManifest))
	ctx := context.Background()

	path := testsupport.WriteDocument(t, filepath.Join(t.TempDir(), "show.ass"),
		testsupport.Line{Start: 5000, End: 6000, Text: "second"},
		testsupport.Line{Start: 1000, End: 2000, Text: "first"},
	)
	if err := a.Open(ctx, path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if res := a.Execute(ctx, `tidy; sub-set --text "first!"; file-save`); !res.OK() {
		t.Fatalf("batch failed: %v", res.Err)
	}

	doc := testsupport.ReadDocument(t, path)
	if doc.Events.Len() != 2 {
		t.Fatalf("unexpected event count %d", doc.Events.Len())
	}
	if got := doc.Events.At(0).Text(); got != "first!" {
		t.Fatalf("unexpected first text %q", got)
	}
	if got := doc.Events.At(1).Text(); got != "second" {
		t.Fatalf("unexpected second text %q", got)
	}

	entries, err := a.Recent.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	abs, _ := filepath.Abs(path)
	if len(entries) != 1 || entries[0].Path != abs || entries[0].Uses != 2 {
		t.Fatalf("unexpected recent entries %+v", entries)
	}
}

func TestWatcherReloadsChangedManifests(t *testing.T) {
	a := newApp(t, testsupport.WithWatch(50))
	before := a.Registry.Generation()

	manifest := filepath.Join(a.Config.ScriptsDir(), "tidy.toml")
	if err := os.WriteFile(manifest, []byte(tidyManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := a.Registry.Get("tidy"); ok {
			if a.Registry.Generation() <= before {
				t.Fatal("generation did not advance")
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("manifest change was not picked up")
}

func TestDefaultLoggerFeedsStream(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Logging.Level = "error"
	a, err := app.New(context.Background(), cfg, app.Options{NoRecent: true})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	defer a.Close()

	if a.Recent != nil {
		t.Fatal("NoRecent should skip the database")
	}
	if res := a.Execute(context.Background(), "sub-select 99"); res.OK() {
		t.Fatal("selecting past the end should not succeed")
	}
	if res := a.Execute(context.Background(), "no-such-command"); res.OK() {
		t.Fatal("unknown command should fail")
	}
	events, _ := a.Logs.Tail(0)
	if len(events) == 0 {
		t.Fatal("expected the rejected invocation in the log stream")
	}
	if events[len(events)-1].Fields[logging.FieldEventType] != "invocation_rejected" {
		t.Fatalf("unexpected last event %+v", events[len(events)-1])
	}
}

func TestCloseReleasesDailyLogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Logging.File = true
	cfg.Logging.Level = "info"
	a, err := app.New(context.Background(), cfg, app.Options{NoRecent: true})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	a.Logger.Info("session open")
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	a.Logger.Info("after close")

	data, err := os.ReadFile(logging.DailyLogPath(cfg.LogDir(), time.Now()))
	if err != nil {
		t.Fatalf("read daily log: %v", err)
	}
	if !strings.Contains(string(data), "session open") || strings.Contains(string(data), "after close") {
		t.Fatalf("unexpected daily log content %q", data)
	}
}
