package subs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"subedit/internal/ass"
	"subedit/internal/fileutil"
	"subedit/internal/logging"
	"subedit/internal/observable"
)

// RecentFiles records documents that were opened or saved.
type RecentFiles interface {
	Touch(ctx context.Context, path string) error
}

// Options configures an API.
type Options struct {
	// DefaultStyleName names the style of a blank document and is reported
	// by DefaultStyleName when the document has no styles.
	DefaultStyleName string
	// Language is stored in the metadata of every blank document.
	Language string
	// Recent, when set, is told about every load and remembered save.
	Recent RecentFiles
	Logger *slog.Logger
}

// API is the document currently open in the editor. It is not safe for
// concurrent use; callers serialise access (see commands.Session).
type API struct {
	opts   Options
	logger *slog.Logger

	file       *ass.File
	path       string
	selected   []int
	disconnect []func()

	// Loaded fires after a document was loaded or reset.
	Loaded observable.Signal[struct{}]
	// Saved fires with the path after a save that updated Path.
	Saved observable.Signal[string]
	// SelectionChanged fires on every selection assignment.
	SelectionChanged observable.Signal[SelectionChange]
	// MetaChanged forwards the current document's Meta.Changed.
	MetaChanged observable.Signal[struct{}]
}

// New constructs an API holding a blank document.
func New(opts Options) *API {
	if opts.DefaultStyleName == "" {
		opts.DefaultStyleName = ass.DefaultStyleName
	}
	a := &API{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "subs"),
	}
	a.attach(a.blankFile())
	return a
}

// File returns the current document. The value changes on every load and
// unload.
func (a *API) File() *ass.File { return a.file }

// Events returns the current document's events.
func (a *API) Events() *ass.EventList { return a.file.Events }

// Styles returns the current document's styles.
func (a *API) Styles() *ass.StyleList { return a.file.Styles }

// Meta returns the current document's metadata.
func (a *API) Meta() *ass.Meta { return a.file.Meta }

// Path returns the file the document was loaded from or last saved to, or
// "" for a new document.
func (a *API) Path() string { return a.path }

// DefaultStyleName is the first style's name, or the configured default
// when the document has no styles.
func (a *API) DefaultStyleName() string {
	if s, ok := a.file.Styles.Get(0); ok && s.Name() != "" {
		return s.Name()
	}
	return a.opts.DefaultStyleName
}

// Language returns the document language, or "".
func (a *API) Language() string {
	v, _ := a.file.Meta.Get(ass.MetaLanguage)
	return v
}

// SetLanguage stores the document language; an empty value removes it.
func (a *API) SetLanguage(lang string) {
	if lang == "" {
		a.file.Meta.Remove(ass.MetaLanguage)
		return
	}
	a.file.Meta.Set(ass.MetaLanguage, lang)
}

// Unload replaces the document with a blank one.
func (a *API) Unload() {
	a.path = ""
	a.attach(a.blankFile())
	a.logger.Debug("document reset", logging.String(logging.FieldEventType, "document_reset"))
	a.Loaded.Emit(struct{}{})
}

// Load reads the document at path. On failure the current document is kept.
func (a *API) Load(ctx context.Context, path string) error {
	file, err := ReadFile(path)
	if err != nil {
		return err
	}
	a.Adopt(ctx, path, file)
	return nil
}

// ReadFile parses the document at path without touching any API. It is
// safe to call without holding the session.
func ReadFile(path string) (*ass.File, error) {
	if path == "" {
		return nil, fmt.Errorf("load document: empty path")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer fh.Close()

	file, err := ass.Read(fh)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return file, nil
}

// Adopt makes file, read from path, the current document.
func (a *API) Adopt(ctx context.Context, path string, file *ass.File) {
	a.path = path
	a.attach(file)
	a.touchRecent(ctx, path)
	logging.WithContext(ctx, a.logger).Info("document loaded",
		logging.String(logging.FieldEventType, "document_loaded"),
		logging.Path(path),
		logging.Int("events", file.Events.Len()),
		logging.Int("styles", file.Styles.Len()),
	)
	a.Loaded.Emit(struct{}{})
}

// LoadReader reads a document from r without associating a path.
func (a *API) LoadReader(r io.Reader) error {
	file, err := ass.Read(r)
	if err != nil {
		return err
	}
	a.path = ""
	a.attach(file)
	a.Loaded.Emit(struct{}{})
	return nil
}

// Save writes the document to path atomically while holding the path's
// advisory lock. With remember set, path becomes the document's Path.
func (a *API) Save(ctx context.Context, path string, remember bool) error {
	if path == "" {
		return fmt.Errorf("save document: empty path")
	}
	err := fileutil.WithLock(ctx, path, func() error {
		return fileutil.WriteAtomic(path, 0o644, a.file.Save)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	logging.WithContext(ctx, a.logger).Info("document saved",
		logging.String(logging.FieldEventType, "document_saved"),
		logging.Path(path),
		logging.Bool("remember", remember),
	)
	if remember {
		a.path = path
		a.Saved.Emit(path)
		a.touchRecent(ctx, path)
	}
	return nil
}

func (a *API) touchRecent(ctx context.Context, path string) {
	if a.opts.Recent == nil {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := a.opts.Recent.Touch(ctx, abs); err != nil {
		logging.WarnWithContext(a.logger, "recent files not updated", "recent_update_failed",
			logging.Path(abs),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory is writable"),
			logging.String(logging.FieldImpact, "document missing from recent files"),
		)
	}
}

func (a *API) blankFile() *ass.File {
	f := ass.NewBlankFile(a.opts.DefaultStyleName)
	if a.opts.Language != "" {
		f.Meta.Set(ass.MetaLanguage, a.opts.Language)
	}
	return f
}

// attach makes file the current document, moving signal forwarding over
// from the previous one, and clears the selection.
func (a *API) attach(file *ass.File) {
	for _, disconnect := range a.disconnect {
		disconnect()
	}
	a.file = file
	a.disconnect = []func(){
		file.Events.ItemsAboutToBeRemoved.Connect(a.onEventsAboutToBeRemoved),
		file.Meta.Changed.Connect(func(struct{}) { a.MetaChanged.Emit(struct{}{}) }),
	}
	a.applySelection(nil)
}
