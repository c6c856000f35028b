// Package builtins provides the editor's built-in command source: document
// file handling, subtitle editing, styles, metadata and registry reload.
//
// Commands that act on a set of subtitles accept a target expression; see
// ParseTarget.
package builtins
