package resource

import "sync/atomic"

// Handle is a reference-counted asset. The zero Handle is invalid, which is
// also what a failed load returns. Copying a Handle does not add a
// reference; use Retain for a copy that outlives the original.
type Handle[T any] struct {
	ref *ref[T]
}

type ref[T any] struct {
	count   atomic.Int32
	val     T
	release func(T)
}

// NewHandle wraps v with one reference. release runs when the last
// reference is dropped; it may be nil.
func NewHandle[T any](v T, release func(T)) Handle[T] {
	r := &ref[T]{val: v, release: release}
	r.count.Store(1)
	return Handle[T]{ref: r}
}

func (h Handle[T]) Valid() bool {
	return h.ref != nil && h.ref.count.Load() > 0
}

// Get returns the asset, or T's zero value for an invalid handle.
func (h Handle[T]) Get() T {
	if !h.Valid() {
		var zero T
		return zero
	}
	return h.ref.val
}

// Retain adds a reference and returns a handle sharing the asset.
func (h Handle[T]) Retain() Handle[T] {
	if !h.Valid() {
		return Handle[T]{}
	}
	h.ref.count.Add(1)
	return h
}

// Release drops this handle's reference and invalidates it. The asset is
// released when no references remain.
func (h *Handle[T]) Release() {
	if h.ref == nil {
		return
	}
	r := h.ref
	h.ref = nil
	if r.count.Add(-1) == 0 && r.release != nil {
		r.release(r.val)
	}
}

// Refs is the current reference count, 0 for an invalid handle.
func (h Handle[T]) Refs() int {
	if h.ref == nil {
		return 0
	}
	return int(h.ref.count.Load())
}
