// Package subs owns the document being edited: the current ass.File, its
// path on disk, and the event selection. Documents are swapped wholesale on
// load and unload; observers reconnect on the Loaded signal.
package subs
