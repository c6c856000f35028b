// Package commands parses and runs editor commands.
//
// An invocation line holds one or more commands separated by an unquoted
// ";". Every command is resolved against the Registry and its arguments are
// parsed with the command's Schema before anything runs. The Executor then
// runs the batch in order under the Session lock, stopping at the first
// command that does not succeed.
package commands
