package ecs

import (
	"sync"

	"github.com/kagami-vn/engine/internal/core/worker"
)

// Removable is implemented by all component pools so the registry can
// bulk-remove an entity's data from every pool on deletion.
type Removable interface {
	Remove(id EntityID)
}

const (
	absent     = -1
	sparseStep = 64
)

// Pool is a dense component store for one component type. Values live in a
// packed slice; a sparse slice maps entity slot index to dense index.
// Every method takes the pool mutex, so single calls are atomic. Sequences of
// calls are not; use Lock for those.
type Pool[T any] struct {
	mu       sync.Mutex
	data     []T
	entities []EntityID
	sparse   []int32
}

func NewPool[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Add upserts v for id. An existing entry is overwritten in place. When the
// slot holds another generation, the newer id owns it: a stale id is ignored
// and a newer one takes over the row.
func (p *Pool[T]) Add(id EntityID, v T) {
	p.mu.Lock()
	p.add(id, v)
	p.mu.Unlock()
}

func (p *Pool[T]) add(id EntityID, v T) {
	if i := p.index(id); i != absent {
		p.data[i] = v
		return
	}
	slot := int(id.Index())
	if slot < len(p.sparse) && p.sparse[slot] != absent {
		i := p.sparse[slot]
		if !id.newer(p.entities[i]) {
			return
		}
		p.entities[i] = id
		p.data[i] = v
		return
	}
	if slot >= len(p.sparse) {
		grow := slot + sparseStep - len(p.sparse)
		for i := 0; i < grow; i++ {
			p.sparse = append(p.sparse, absent)
		}
	}
	p.data = append(p.data, v)
	p.entities = append(p.entities, id)
	p.sparse[slot] = int32(len(p.data) - 1)
}

// Remove swap-removes id's value. The last element moves into the hole, so
// dense order changes but no other entity's value does.
func (p *Pool[T]) Remove(id EntityID) {
	p.mu.Lock()
	p.remove(id)
	p.mu.Unlock()
}

func (p *Pool[T]) remove(id EntityID) {
	i := p.index(id)
	if i == absent {
		return
	}
	last := len(p.data) - 1
	if i != last {
		moved := p.entities[last]
		p.data[i] = p.data[last]
		p.entities[i] = moved
		p.sparse[moved.Index()] = int32(i)
	}
	var zero T
	p.data[last] = zero
	p.data = p.data[:last]
	p.entities = p.entities[:last]
	p.sparse[id.Index()] = absent
}

// index returns the dense index of id or absent. Caller holds mu.
func (p *Pool[T]) index(id EntityID) int {
	slot := int(id.Index())
	if slot >= len(p.sparse) {
		return absent
	}
	i := int(p.sparse[slot])
	if i == absent || p.entities[i] != id {
		return absent
	}
	return i
}

// Get returns a copy of id's value.
func (p *Pool[T]) Get(id EntityID) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.index(id); i != absent {
		return p.data[i], true
	}
	var zero T
	return zero, false
}

func (p *Pool[T]) Has(id EntityID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index(id) != absent
}

// Update runs fn on id's value in place while holding the pool lock.
// It reports false if id is absent.
func (p *Pool[T]) Update(id EntityID, fn func(*T)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i == absent {
		return false
	}
	fn(&p.data[i])
	return true
}

func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.data)
}

// Entities returns a snapshot of the live ids in dense order.
func (p *Pool[T]) Entities() []EntityID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EntityID, len(p.entities))
	copy(out, p.entities)
	return out
}

// Each calls fn for every element in dense order with the pool locked.
// fn must not call back into the same pool.
func (p *Pool[T]) Each(fn func(EntityID, *T)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.data {
		fn(p.entities[i], &p.data[i])
	}
}

// ParallelEach hands every element to wp and blocks until all of them ran.
// Calls happen in no particular order; each fn invocation must be independent
// of the others. A nil wp runs inline, like Each.
func (p *Pool[T]) ParallelEach(wp *worker.Pool, fn func(EntityID, *T)) {
	if wp == nil {
		p.Each(fn)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	var wg sync.WaitGroup
	wg.Add(len(p.data))
	for i := range p.data {
		id, v := p.entities[i], &p.data[i]
		err := wp.Go(func() {
			defer wg.Done()
			fn(id, v)
		})
		if err != nil {
			// pool closed: run the remainder here
			fn(id, v)
			wg.Done()
		}
	}
	wg.Wait()
}

// Reserve grows capacity of the dense slices to at least n.
func (p *Pool[T]) Reserve(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n <= cap(p.data) {
		return
	}
	data := make([]T, len(p.data), n)
	copy(data, p.data)
	p.data = data
	entities := make([]EntityID, len(p.entities), n)
	copy(entities, p.entities)
	p.entities = entities
}

// Clear drops every element. Pointers obtained through a Guard are invalid
// afterwards.
func (p *Pool[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = nil
	p.entities = nil
	p.sparse = nil
}

// ShrinkToFit releases unused capacity and trims trailing absent sparse slots.
func (p *Pool[T]) ShrinkToFit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	data := make([]T, len(p.data))
	copy(data, p.data)
	p.data = data
	entities := make([]EntityID, len(p.entities))
	copy(entities, p.entities)
	p.entities = entities

	n := len(p.sparse)
	for n > 0 && p.sparse[n-1] == absent {
		n--
	}
	sparse := make([]int32, n)
	copy(sparse, p.sparse[:n])
	p.sparse = sparse
}

// Lock acquires the pool mutex and returns a guard for multi-step sequences.
// A pointer from Guard.Get is valid until the next Add or Remove through the
// guard, and never after Unlock.
func (p *Pool[T]) Lock() *Guard[T] {
	p.mu.Lock()
	return &Guard[T]{p: p}
}

// Guard is a held pool lock.
type Guard[T any] struct {
	p *Pool[T]
}

// Get returns a pointer to id's value, or nil if absent.
func (g *Guard[T]) Get(id EntityID) *T {
	i := g.p.index(id)
	if i == absent {
		return nil
	}
	return &g.p.data[i]
}

func (g *Guard[T]) Add(id EntityID, v T) { g.p.add(id, v) }

func (g *Guard[T]) Remove(id EntityID) { g.p.remove(id) }

func (g *Guard[T]) Len() int { return len(g.p.data) }

// Unlock releases the pool. The guard must not be used afterwards.
func (g *Guard[T]) Unlock() {
	p := g.p
	g.p = nil
	p.mu.Unlock()
}
