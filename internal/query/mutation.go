package query

import (
	"context"
	"sync"
)

// MutateFunc performs a write
type MutateFunc[In any] func(ctx context.Context, in In) error

// Mutation tracks the state of writes issued through it. Every call to Mutate
// performs its own write; concurrent calls are neither coalesced nor queued.
type Mutation[In any] struct {
	fn MutateFunc[In]

	mutex   sync.Mutex
	pending int
	success bool
	err     error
}

func NewMutation[In any](fn MutateFunc[In]) *Mutation[In] {
	return &Mutation[In]{fn: fn}
}

// Mutate runs the write and records its outcome
func (m *Mutation[In]) Mutate(ctx context.Context, in In) error {
	m.mutex.Lock()
	m.pending++
	m.success = false
	m.err = nil
	m.mutex.Unlock()

	err := m.fn(ctx, in)

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.pending--
	m.err = err
	m.success = err == nil
	return err
}

// IsPending reports whether any write is in flight
func (m *Mutation[In]) IsPending() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.pending > 0
}

// IsSuccess reports whether the last settled write succeeded
func (m *Mutation[In]) IsSuccess() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.success
}

// Error returns the failure of the last settled write
func (m *Mutation[In]) Error() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.err
}
