package query

import (
	"context"
	"fmt"
)

// Fetcher loads the value of a resource.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Resource binds a key to its fetcher. A key must always be used with the same T.
type Resource[T any] struct {
	cache *Cache
	key   string
	fetch Fetcher[T]
}

func NewResource[T any](cache *Cache, key string, fetch Fetcher[T]) *Resource[T] {
	return &Resource[T]{cache: cache, key: key, fetch: fetch}
}

func (r *Resource[T]) Key() string {
	return r.key
}

func (r *Resource[T]) load(ctx context.Context) (any, error) {
	return r.fetch(ctx)
}

// Get serves the cached value while it is fresh, otherwise joins or starts the
// single in-flight load for the key and returns its outcome. The shared load
// keeps the values of ctx but not its cancellation, since other callers wait on it.
func (r *Resource[T]) Get(ctx context.Context) Result[T] {
	if r.cache.fresh(r.key) {
		return r.Peek()
	}
	_, _, _ = r.cache.group.Do(r.key, func() (any, error) {
		r.cache.load(context.WithoutCancel(ctx), r.key, r.load)
		return nil, nil
	})
	return r.Peek()
}

// Refetch always issues a new request and replaces the cached value once it
// resolves. Two overlapping refetches are not ordered: the one that resolves
// last wins, even if it was issued first.
func (r *Resource[T]) Refetch(ctx context.Context) Result[T] {
	r.cache.load(ctx, r.key, r.load)
	return r.Peek()
}

// Invalidate marks this resource stale.
func (r *Resource[T]) Invalidate() {
	r.cache.Invalidate(r.key)
}

// Peek reports the current state without any I/O.
func (r *Resource[T]) Peek() Result[T] {
	r.cache.mu.RLock()
	defer r.cache.mu.RUnlock()
	var res Result[T]
	e, ok := r.cache.entries[r.key]
	if !ok {
		return res
	}
	res.Err = e.err
	res.UpdatedAt = e.updatedAt
	res.IsFetching = e.inflight > 0
	res.IsLoading = res.IsFetching && !e.hasValue
	if e.hasValue {
		v, ok := e.value.(T)
		if !ok {
			panic(fmt.Sprintf("query: key %q holds %T, not %T", r.key, e.value, *new(T)))
		}
		res.Data = v
	}
	return res
}
