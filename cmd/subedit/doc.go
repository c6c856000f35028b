// Package main hosts the subedit CLI.
//
// The Cobra command tree opens a document, runs command invocations against
// it through the same executor an interactive front end would use, and offers
// an interactive shell, listings of commands, events and recent files, and
// configuration scaffolding. Editing behaviour lives in the internal
// packages; this package only resolves configuration and renders output.
package main
