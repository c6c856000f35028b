package commands

import "context"

// Session serialises access to the document, the selection, and the
// registry. A running batch holds it for its whole run except inside
// Suspend.
type Session struct {
	sem chan struct{}
}

// NewSession returns an unlocked session.
func NewSession() *Session {
	return &Session{sem: make(chan struct{}, 1)}
}

type heldKey struct{}

type heldState struct {
	batchID string
}

func heldFrom(ctx context.Context) *heldState {
	h, _ := ctx.Value(heldKey{}).(*heldState)
	return h
}

// Holding reports whether ctx belongs to a batch that holds the session.
func Holding(ctx context.Context) bool {
	return heldFrom(ctx) != nil
}

func (s *Session) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) release() {
	<-s.sem
}

// View runs fn while holding the session. It must not be called from a
// running command; use the command's own access instead.
func (s *Session) View(fn func()) {
	s.sem <- struct{}{}
	defer s.release()
	fn()
}

// Suspend releases the session while fn runs and takes it back afterwards.
// Commands use it around prompts and other long waits so that other
// batches can proceed. fn must not touch the document. Outside a running
// batch fn simply runs.
func (s *Session) Suspend(ctx context.Context, fn func(context.Context) error) error {
	if !Holding(ctx) {
		return fn(ctx)
	}
	s.release()
	defer func() { s.sem <- struct{}{} }()
	return fn(ctx)
}
