package commands

import (
	"context"
	"log/slog"

	"subedit/internal/media"
	"subedit/internal/subs"
)

// Prompter asks the user for a line of text. Implementations return an
// error wrapping ErrCanceled when the user dismisses the prompt.
type Prompter interface {
	Prompt(ctx context.Context, title, initial string) (string, error)
}

// NoPrompter cancels every prompt; it serves hosts without interaction.
type NoPrompter struct{}

func (NoPrompter) Prompt(context.Context, string, string) (string, error) {
	return "", Canceled("no interactive prompt available")
}

// Settings are the configuration values commands consult.
type Settings struct {
	// DefaultDuration is the length in ms of newly inserted events.
	DefaultDuration int
}

// Env is what a running command can reach.
type Env struct {
	Subs     *subs.API
	Media    media.Provider
	Prompter Prompter
	Settings Settings
	Registry *Registry
	Session  *Session
	Logger   *slog.Logger

	exec *Executor
}

// Run executes line as part of the calling batch. Called from a running
// command it runs inline, without giving up the session; otherwise it
// behaves like Executor.Execute.
func (e *Env) Run(ctx context.Context, line string) Result {
	return e.exec.Execute(ctx, line)
}

// RunArgs is Run for pre-tokenized commands.
func (e *Env) RunArgs(ctx context.Context, segments [][]string) Result {
	return e.exec.ExecuteArgs(ctx, segments)
}

// Suspend releases the session while fn runs.
func (e *Env) Suspend(ctx context.Context, fn func(context.Context) error) error {
	return e.Session.Suspend(ctx, fn)
}

// Prompt asks the user for text with the session suspended.
func (e *Env) Prompt(ctx context.Context, title, initial string) (string, error) {
	prompter := e.Prompter
	if prompter == nil {
		prompter = NoPrompter{}
	}
	var answer string
	err := e.Suspend(ctx, func(ctx context.Context) error {
		var err error
		answer, err = prompter.Prompt(ctx, title, initial)
		return err
	})
	return answer, err
}
