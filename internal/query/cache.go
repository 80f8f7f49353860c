package query

import (
	"context"
	"errors"
	"fmt"
	"github.com/hashicorp/go-hclog"
	"sync"
)

// ErrCacheClosed is returned by queries of a cache that has been closed
var ErrCacheClosed = errors.New("query cache closed")

// Cache owns the queries of an application and the lifetime of their fetches.
// Create one at startup and Close it at shutdown; tests build their own.
type Cache struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mutex   sync.Mutex
	queries map[string]any
	closed  bool
	log     hclog.Logger
}

func NewCache(logger hclog.Logger) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		ctx:     ctx,
		cancel:  cancel,
		queries: make(map[string]any),
		log:     logger,
	}
}

// NewQuery registers a query under key. Registering the same key twice returns
// the existing query, provided the data type matches.
func NewQuery[T any](c *Cache, key string, fetch FetchFunc[T]) (*Query[T], error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return nil, ErrCacheClosed
	}

	if existing, ok := c.queries[key]; ok {
		q, ok := existing.(*Query[T])
		if !ok {
			return nil, fmt.Errorf("query %q already registered with a different type", key)
		}
		return q, nil
	}

	q := &Query[T]{
		fetch: fetch,
		cache: c,
		log:   c.log.Named(key),
	}
	c.queries[key] = q
	return q, nil
}

// Len returns the number of registered queries
func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.queries)
}

// spawn runs fn under the cache context, or reports false once the cache is closed
func (c *Cache) spawn(fn func(ctx context.Context)) (context.CancelFunc, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return nil, false
	}

	ctx, cancel := context.WithCancel(c.ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		fn(ctx)
	}()
	return cancel, true
}

// Close cancels in-flight fetches and waits for them to return
func (c *Cache) Close() error {
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return nil
	}
	c.closed = true
	c.mutex.Unlock()

	c.log.Info("Closing query cache")
	c.cancel()
	c.wg.Wait()
	c.log.Info("Query cache closed")
	return nil
}
