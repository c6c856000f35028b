// Package scripts loads user commands from TOML manifests in the scripts
// directory and reloads them when the directory changes.
//
// A manifest looks like:
//
//	[[command]]
//	names = ["tidy", "t"]
//	help = "Sorts and selects the first line."
//	run = "sub-sort -t all; sub-select first"
//
//	[[menu]]
//	label = "&Tidy"
//	cmdline = "tidy"
//
// A command's run line executes inside the invoking batch.
package scripts
