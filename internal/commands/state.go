package commands

// State is the lifecycle position of one command in a batch.
type State int

const (
	StatePending State = iota
	StateRunning
	StateSucceeded
	StateCanceled
	StateUnavailable
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateCanceled:
		return "canceled"
	case StateUnavailable:
		return "unavailable"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s >= StateSucceeded
}
