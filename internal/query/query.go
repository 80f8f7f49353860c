package query

import (
	"context"
	"github.com/hashicorp/go-hclog"
	"sync"
	"time"
)

// FetchFunc loads the data of a query
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Status of the last settled fetch
type Status int

const (
	StatusIdle Status = iota
	StatusSuccess
	StatusError
)

// State is a snapshot of a query
type State[T any] struct {
	Data      T
	HasData   bool
	Status    Status
	Fetching  bool
	Err       error
	UpdatedAt time.Time
}

// IsLoading reports a fetch in flight with no data received yet
func (s State[T]) IsLoading() bool {
	return s.Fetching && !s.HasData
}

func (s State[T]) IsError() bool {
	return s.Status == StatusError
}

func (s State[T]) IsSuccess() bool {
	return s.Status == StatusSuccess
}

// Query holds the state of one keyed fetch. Only the most recently started
// fetch may settle the state; older ones are cancelled and their results dropped.
type Query[T any] struct {
	fetch FetchFunc[T]
	cache *Cache
	log   hclog.Logger

	mutex  sync.Mutex
	state  State[T]
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// State returns the current snapshot without triggering a fetch
func (q *Query[T]) State() State[T] {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return q.state
}

// Ensure starts the first fetch; later calls do nothing
func (q *Query[T]) Ensure() {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if q.gen == 0 {
		q.startLocked()
	}
}

// Revalidate starts a fetch when none has run yet or the last one failed,
// unless one is already in flight
func (q *Query[T]) Revalidate() {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if q.gen == 0 || (q.state.Status == StatusError && !q.state.Fetching) {
		q.startLocked()
	}
}

// Fetch ensures the first fetch and waits for the query to settle
func (q *Query[T]) Fetch(ctx context.Context) (State[T], error) {
	q.Ensure()
	return q.Wait(ctx)
}

// Refetch starts a new fetch superseding any in flight and waits for it
func (q *Query[T]) Refetch(ctx context.Context) (State[T], error) {
	q.mutex.Lock()
	q.startLocked()
	q.mutex.Unlock()
	return q.Wait(ctx)
}

// Wait blocks until no fetch is in flight or ctx is done
func (q *Query[T]) Wait(ctx context.Context) (State[T], error) {
	q.mutex.Lock()
	if !q.state.Fetching {
		s := q.state
		q.mutex.Unlock()
		return s, nil
	}
	done := q.done
	q.mutex.Unlock()

	select {
	case <-done:
		return q.State(), nil
	case <-ctx.Done():
		return q.State(), ctx.Err()
	}
}

func (q *Query[T]) startLocked() {
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.gen++
	gen := q.gen

	// waiters of a superseded fetch keep waiting for this one
	if !q.state.Fetching {
		q.done = make(chan struct{})
	}
	q.state.Fetching = true

	q.log.Debug("Starting fetch", "generation", gen)
	cancel, ok := q.cache.spawn(func(ctx context.Context) {
		data, err := q.fetch(ctx)
		q.settle(gen, data, err)
	})
	if !ok {
		var zero T
		q.settleLocked(gen, zero, ErrCacheClosed)
		return
	}
	q.cancel = cancel
}

func (q *Query[T]) settle(gen uint64, data T, err error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.settleLocked(gen, data, err)
}

func (q *Query[T]) settleLocked(gen uint64, data T, err error) {
	if gen != q.gen {
		q.log.Debug("Discarding superseded fetch", "generation", gen, "current", q.gen)
		return
	}

	q.state.Fetching = false
	q.state.UpdatedAt = time.Now()
	if err != nil {
		q.log.Debug("Fetch failed", "generation", gen, "error", err)
		q.state.Status = StatusError
		q.state.Err = err
	} else {
		q.state.Status = StatusSuccess
		q.state.Err = nil
		q.state.Data = data
		q.state.HasData = true
	}
	q.cancel = nil
	close(q.done)
}
