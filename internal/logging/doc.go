// Package logging assembles the slog loggers used by subedit.
//
// It owns the console and JSON handlers, the in-memory stream that backs the
// interactive log view, and the attribute helpers every package uses to keep
// log records the same shape. Commands run inside a batch carry the batch ID
// on their context; WithContext copies it onto a logger.
//
// Tests and wiring code that cannot fail use NewNop.
package logging
