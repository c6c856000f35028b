// Package recent persists the list of recently opened documents in a
// SQLite database under the state directory.
package recent
