package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"subedit/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level string
	// Format is "console" or "json".
	Format string
	// OutputPaths accepts "stdout", "stderr" or file paths.
	OutputPaths []string
	Development bool

	// FilePath, when set, additionally receives every record as JSON tagged
	// with RunID.
	FilePath string
	RunID    string

	// Stream receives a copy of every record.
	Stream *StreamHub
}

// New constructs a slog logger using the provided options. The returned
// closer releases the log files the logger opened.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	outputs := opts.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	var files fileClosers
	outputWriter, err := openWriters(outputs, &files)
	if err != nil {
		return nil, nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(outputWriter, levelVar, addSource)
	case "console":
		handler = newPrettyHandler(outputWriter, levelVar, addSource)
	default:
		_ = files.Close()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	if path := strings.TrimSpace(opts.FilePath); path != "" {
		fileWriter, err := openWriters([]string{path}, &files)
		if err != nil {
			_ = files.Close()
			return nil, nil, err
		}
		fileHandler := newJSONHandler(fileWriter, levelVar, true)
		if opts.RunID != "" {
			fileHandler = newRunIDHandler(fileHandler, opts.RunID)
		}
		handler = newFanoutHandler(handler, fileHandler)
	}

	return slog.New(newStreamHandler(handler, opts.Stream)), files, nil
}

type fileClosers []io.Closer

func (c fileClosers) Close() error {
	var errs []error
	for _, f := range c {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewFromConfig creates the application logger. Console output goes to
// stderr; with logging.file enabled records are also appended to a daily
// JSON file under the state directory, and files older than
// logging.retention_days are pruned.
func NewFromConfig(cfg *config.Config, stream *StreamHub) (*slog.Logger, io.Closer, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", Stream: stream})
	}

	opts := Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
		Stream:      stream,
	}
	if cfg.Logging.File {
		opts.FilePath = DailyLogPath(cfg.LogDir(), time.Now())
		opts.RunID = uuid.NewString()
	}
	logger, closer, err := New(opts)
	if err != nil {
		return nil, nil, err
	}
	if opts.FilePath != "" {
		CleanupOldLogs(NewComponentLogger(logger, "logging"), cfg.Logging.RetentionDays, RetentionTarget{
			Dir:     cfg.LogDir(),
			Pattern: logFilePrefix + "*" + logFileSuffix,
			Exclude: []string{opts.FilePath},
		})
	}
	return logger, closer, nil
}

const (
	logFilePrefix = "subedit-"
	logFileSuffix = ".log"
)

// DailyLogPath returns the log file used on day now within dir.
func DailyLogPath(dir string, now time.Time) string {
	return filepath.Join(dir, logFilePrefix+now.Format(time.DateOnly)+logFileSuffix)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriters(paths []string, files *fileClosers) (io.Writer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer

	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			*files = append(*files, file)
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
