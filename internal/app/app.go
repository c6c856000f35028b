// Package app wires configuration, logging, the document API and the command
// subsystem into one running editor session.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"subedit/internal/builtins"
	"subedit/internal/commands"
	"subedit/internal/config"
	"subedit/internal/logging"
	"subedit/internal/media"
	"subedit/internal/recent"
	"subedit/internal/scripts"
	"subedit/internal/subs"
)

// ReloadSilentCommand is what the manifest watcher submits on changes.
const ReloadSilentCommand = "reload-cmds-silent"

// Options customizes New. Zero values select the defaults derived from the
// configuration.
type Options struct {
	// Logger replaces the logger built from the configuration.
	Logger *slog.Logger
	// Logs receives every log record; New creates one when nil.
	Logs     *logging.StreamHub
	Prompter commands.Prompter
	// NoRecent skips opening the recent-files database.
	NoRecent bool
}

// App is a configured editor session.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Logs     *logging.StreamHub
	Recent   *recent.Store
	Subs     *subs.API
	Registry *commands.Registry
	Executor *commands.Executor

	logCloser io.Closer
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeMu sync.Once
}

// New builds an App from cfg, loads the commands and, when
// scripts.watch is set, starts watching the scripts directory.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app requires a configuration")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	logs := opts.Logs
	if logs == nil {
		logs = logging.NewStreamHub(0)
	}
	logger := opts.Logger
	var logCloser io.Closer
	if logger == nil {
		var err error
		if logger, logCloser, err = logging.NewFromConfig(cfg, logs); err != nil {
			return nil, fmt.Errorf("init logging: %w", err)
		}
	}

	a := &App{Config: cfg, Logger: logger, Logs: logs, logCloser: logCloser}

	subsOpts := subs.Options{
		DefaultStyleName: cfg.Subs.DefaultStyleName,
		Language:         cfg.GUI.SpellCheck,
		Logger:           logger,
	}
	if !opts.NoRecent {
		store, err := recent.Open(cfg.Paths.StateDir, cfg.Recent.Limit)
		if err != nil {
			logging.WarnWithContext(logger, "recent files disabled", "recent_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.state_dir is writable"),
				logging.String(logging.FieldImpact, "opened documents are not remembered"),
			)
		} else {
			a.Recent = store
			subsOpts.Recent = store
		}
	}
	a.Subs = subs.New(subsOpts)

	a.Registry = commands.NewRegistry(logger, builtins.Source(),
		scripts.NewDirSource(cfg.ScriptsDir(), logger))
	if err := a.Registry.Reload(ctx); err != nil {
		a.closeStores()
		return nil, err
	}

	executor, err := commands.NewExecutor(&commands.Env{
		Subs:     a.Subs,
		Media:    media.FromFPS(cfg.Media.FPS),
		Prompter: opts.Prompter,
		Settings: commands.Settings{DefaultDuration: cfg.Subs.DefaultDuration},
		Registry: a.Registry,
		Logger:   logger,
	})
	if err != nil {
		a.closeStores()
		return nil, err
	}
	a.Executor = executor

	if cfg.Scripts.Watch {
		if err := a.startWatcher(); err != nil {
			logging.WarnWithContext(logger, "command manifests are not watched", "scripts_watch_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run reload-cmds after editing manifests"),
				logging.String(logging.FieldImpact, "manifest changes need a manual reload"),
			)
		}
	}
	return a, nil
}

func (a *App) startWatcher() error {
	debounce := time.Duration(a.Config.Scripts.DebounceMillis) * time.Millisecond
	watchCtx, cancel := context.WithCancel(context.Background())
	watcher, err := scripts.NewWatcher(a.Config.ScriptsDir(), debounce, func() {
		a.Executor.Submit(watchCtx, ReloadSilentCommand)
	}, a.Logger)
	if err != nil {
		cancel()
		return err
	}
	a.cancel = cancel
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := watcher.Run(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			logging.WarnWithContext(a.Logger, "manifest watcher stopped", "scripts_watch_stopped",
				logging.Error(err),
				logging.String(logging.FieldImpact, "manifest changes need a manual reload"),
			)
		}
	}()
	return nil
}

// Execute runs an invocation line and waits for it.
func (a *App) Execute(ctx context.Context, line string) commands.Result {
	return a.Executor.Execute(ctx, line)
}

// Open loads path as the current document through file-open so the load is
// serialized with other batches.
func (a *App) Open(ctx context.Context, path string) error {
	return a.Executor.ExecuteArgs(ctx, [][]string{{"file-open", path}}).Err
}

// Close stops the watcher, waits for submitted batches and closes the
// recent-files database. It is safe to call more than once.
func (a *App) Close() error {
	var err error
	a.closeMu.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		a.wg.Wait()
		a.Executor.Wait()
		err = a.closeStores()
	})
	return err
}

func (a *App) closeStores() error {
	var errs []error
	if a.Recent != nil {
		if err := a.Recent.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log files: %w", err))
		}
	}
	return errors.Join(errs...)
}
