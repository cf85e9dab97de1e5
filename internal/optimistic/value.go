// Package optimistic holds a value that is shown as changed before the server
// has confirmed the change.
package optimistic

import (
	"fmt"
	"sync"
)

type State int

const (
	Committed State = iota
	Pending
	Failed
)

func (s State) String() string {
	switch s {
	case Committed:
		return "Committed"
	case Pending:
		return "Pending"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var ErrPending = fmt.Errorf("a change is already pending")

// Value keeps the last committed value and at most one pending value.
type Value[T any] struct {
	mu        sync.Mutex
	committed T
	pending   T
	state     State
	err       error
}

func New[T any](committed T) *Value[T] {
	return &Value[T]{committed: committed}
}

// Begin shows next until the change is committed or failed.
func (v *Value[T]) Begin(next T) (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == Pending {
		return v.pending, ErrPending
	}
	v.pending = next
	v.state = Pending
	v.err = nil
	return next, nil
}

// Commit replaces the committed value with the one the server returned.
func (v *Value[T]) Commit(server T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var zero T
	v.committed = server
	v.pending = zero
	v.state = Committed
	v.err = nil
}

// Fail drops the pending value and keeps err for display.
func (v *Value[T]) Fail(err error) T {
	v.mu.Lock()
	defer v.mu.Unlock()

	var zero T
	v.pending = zero
	v.state = Failed
	v.err = err
	return v.committed
}

// Get returns the displayed value: the pending one while a change is in flight.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == Pending {
		return v.pending
	}
	return v.committed
}

func (v *Value[T]) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Value[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Apply runs the full cycle: it shows next, calls fn and commits its result or rolls back.
func (v *Value[T]) Apply(next T, fn func() (T, error)) (T, error) {
	if _, err := v.Begin(next); err != nil {
		return v.Get(), err
	}

	server, err := fn()
	if err != nil {
		return v.Fail(err), err
	}
	v.Commit(server)
	return server, nil
}
