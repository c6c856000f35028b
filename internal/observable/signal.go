package observable

// Signal is an ordered list of observers for one kind of notification.
// Observers run synchronously in connection order.
type Signal[A any] struct {
	nextID    uint64
	observers []observer[A]
}

type observer[A any] struct {
	id uint64
	fn func(A)
}

// Connect registers fn and returns a function that disconnects it again.
// Disconnecting twice is a no-op.
func (s *Signal[A]) Connect(fn func(A)) func() {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer[A]{id: id, fn: fn})
	return func() { s.disconnect(id) }
}

func (s *Signal[A]) disconnect(id uint64) {
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Emit delivers value to every observer connected at the time of the call.
func (s *Signal[A]) Emit(value A) {
	if len(s.observers) == 0 {
		return
	}
	snapshot := make([]observer[A], len(s.observers))
	copy(snapshot, s.observers)
	for _, o := range snapshot {
		o.fn(value)
	}
}

// Len reports the number of connected observers.
func (s *Signal[A]) Len() int {
	return len(s.observers)
}
