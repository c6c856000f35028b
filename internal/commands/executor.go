package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"subedit/internal/logging"
)

// Outcome reports how one command of a batch ended.
type Outcome struct {
	Name       string
	Invocation string
	State      State
	Err        error
	Duration   time.Duration
}

// Result reports a whole batch. Err is nil only when every command
// succeeded; it is the parse or resolution error, or the error of the
// command that stopped the batch.
type Result struct {
	BatchID  string
	Outcomes []Outcome
	Err      error
}

// OK reports whether the batch ran to completion.
func (r Result) OK() bool { return r.Err == nil }

// State is the state of the last command that ran. A batch rejected
// before running anything is StateFailed.
func (r Result) State() State {
	if len(r.Outcomes) == 0 {
		if r.Err != nil {
			return StateFailed
		}
		return StateSucceeded
	}
	return r.Outcomes[len(r.Outcomes)-1].State
}

// Task is the handle of a submitted batch.
type Task struct {
	done   chan struct{}
	result Result
}

// Done is closed once the batch finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Result waits for the batch and returns its result.
func (t *Task) Result() Result {
	<-t.done
	return t.result
}

// Executor runs command batches against an Env.
type Executor struct {
	env    *Env
	logger *slog.Logger
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewExecutor binds an executor to env. env.Registry is required; a
// session is created when env.Session is nil.
func NewExecutor(env *Env) (*Executor, error) {
	if env == nil || env.Registry == nil {
		return nil, errors.New("executor requires an env with a registry")
	}
	if env.Session == nil {
		env.Session = NewSession()
	}
	if env.Logger == nil {
		env.Logger = logging.NewNop()
	}
	x := &Executor{
		env:    env,
		logger: logging.NewComponentLogger(env.Logger, "commands"),
		now:    time.Now,
	}
	env.exec = x
	return x, nil
}

// Env returns the environment commands run in.
func (x *Executor) Env() *Env { return x.env }

// Submit starts line in the background and returns immediately.
func (x *Executor) Submit(ctx context.Context, line string) *Task {
	return x.submit(ctx, func(ctx context.Context) Result { return x.Execute(ctx, line) })
}

// SubmitArgs is Submit for pre-tokenized commands.
func (x *Executor) SubmitArgs(ctx context.Context, segments [][]string) *Task {
	segments = cloneSegments(segments)
	return x.submit(ctx, func(ctx context.Context) Result { return x.ExecuteArgs(ctx, segments) })
}

func (x *Executor) submit(ctx context.Context, run func(context.Context) Result) *Task {
	t := &Task{done: make(chan struct{})}
	x.wg.Add(1)
	go func() {
		defer x.wg.Done()
		defer close(t.done)
		t.result = run(ctx)
	}()
	return t
}

// Wait blocks until every submitted batch finished.
func (x *Executor) Wait() {
	x.wg.Wait()
}

// Execute runs line and waits for it.
func (x *Executor) Execute(ctx context.Context, line string) Result {
	segments, err := SplitInvocation(line)
	if err != nil {
		batchID := x.batchID(ctx)
		logging.ErrorWithContext(x.logger, "invocation rejected", "invocation_rejected",
			logging.String(logging.FieldBatchID, batchID),
			logging.String("invocation", line),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check quoting; separate commands with ;"),
		)
		return Result{BatchID: batchID, Err: err}
	}
	return x.ExecuteArgs(ctx, segments)
}

// ExecuteArgs runs pre-tokenized commands and waits for them.
func (x *Executor) ExecuteArgs(ctx context.Context, segments [][]string) Result {
	if held := heldFrom(ctx); held != nil {
		return x.runLocked(ctx, held.batchID, segments)
	}
	batchID := uuid.NewString()
	if err := x.env.Session.acquire(ctx); err != nil {
		return Result{BatchID: batchID, Err: fmt.Errorf("wait for session: %w", err)}
	}
	defer x.env.Session.release()
	ctx = context.WithValue(ctx, heldKey{}, &heldState{batchID: batchID})
	ctx = logging.ContextWithBatch(ctx, batchID)
	return x.runLocked(ctx, batchID, segments)
}

func (x *Executor) batchID(ctx context.Context) string {
	if held := heldFrom(ctx); held != nil {
		return held.batchID
	}
	return uuid.NewString()
}

func (x *Executor) runLocked(ctx context.Context, batchID string, segments [][]string) Result {
	logger := x.logger.With(logging.String(logging.FieldBatchID, batchID))
	res := Result{BatchID: batchID}

	invs, err := resolveBatch(x.env.Registry, segments)
	if err != nil {
		logging.ErrorWithContext(logger, "invocation rejected", "invocation_rejected",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, rejectionHint(err)),
		)
		res.Err = err
		return res
	}

	for _, inv := range invs {
		inv.BatchID = batchID
		inv.Env = x.env
		out := x.runOne(ctx, logger, inv)
		res.Outcomes = append(res.Outcomes, out)
		if out.State != StateSucceeded {
			res.Err = out.Err
			break
		}
	}
	return res
}

func rejectionHint(err error) string {
	if errors.Is(err, ErrNotFound) {
		return "run the commands listing to see available names"
	}
	return "check the command usage"
}

func (x *Executor) runOne(ctx context.Context, logger *slog.Logger, inv *Invocation) Outcome {
	logger = logger.With(logging.String(logging.FieldCommand, inv.Command.Name()))
	silent := inv.Command.Silent
	if !silent {
		logger.Info(inv.Text, logging.String(logging.FieldEventType, "command_echo"))
	}

	start := x.now()
	state, err := x.invoke(ctx, inv)
	inv.State = state
	took := x.now().Sub(start)
	out := Outcome{Name: inv.Name, Invocation: inv.Text, State: state, Err: err, Duration: took}

	switch {
	case state == StateSucceeded:
		if !silent {
			logger.Debug(fmt.Sprintf("%s: took %.04f s", inv.Text, took.Seconds()),
				logging.String(logging.FieldEventType, "command_completed"),
				logging.Duration("took", took),
			)
		}
	case silent:
		logger.Debug("silent command did not succeed",
			logging.String("state", state.String()),
			logging.Error(err),
		)
	case state == StateCanceled || state == StateUnavailable:
		logging.WarnWithContext(logger, err.Error(), "command_"+state.String(),
			logging.String("invocation", inv.Text),
			logging.String(logging.FieldErrorHint, "remaining commands of the batch were skipped"),
			logging.String(logging.FieldImpact, "command had no further effect"),
		)
	default:
		attrs := []logging.Attr{
			logging.String("invocation", inv.Text),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "see the error and stack for the cause"),
		}
		var execErr *ExecutionError
		if errors.As(err, &execErr) && len(execErr.Stack) > 0 {
			attrs = append(attrs, logging.String("stack", string(execErr.Stack)))
		}
		logging.ErrorWithContext(logger, "problem running "+inv.Text, "command_failed", attrs...)
	}
	return out
}

// invoke moves inv from Pending to a terminal state.
func (x *Executor) invoke(ctx context.Context, inv *Invocation) (state State, err error) {
	if err := ctx.Err(); err != nil {
		return StateCanceled, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if inv.Command.Enabled != nil && !x.enabled(inv) {
		return StateUnavailable, fmt.Errorf("%s: %w", inv.Name, ErrUnavailable)
	}

	inv.State = StateRunning
	defer func() {
		if r := recover(); r != nil {
			state = StateFailed
			err = &ExecutionError{
				Invocation: inv.Text,
				Err:        fmt.Errorf("panic: %v", r),
				Stack:      debug.Stack(),
			}
		}
	}()

	err = inv.Command.Run(ctx, inv)
	switch {
	case err == nil:
		return StateSucceeded, nil
	case errors.Is(err, ErrCanceled):
		return StateCanceled, err
	case errors.Is(err, ErrUnavailable):
		return StateUnavailable, err
	case errors.Is(err, ErrExecution):
		return StateFailed, err
	default:
		return StateFailed, &ExecutionError{Invocation: inv.Text, Err: err, Stack: debug.Stack()}
	}
}

// enabled treats a panicking availability check as "not available".
func (x *Executor) enabled(inv *Invocation) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return inv.Command.Enabled(inv)
}

func cloneSegments(segments [][]string) [][]string {
	out := make([][]string, len(segments))
	for i, seg := range segments {
		out[i] = slices.Clone(seg)
	}
	return out
}
