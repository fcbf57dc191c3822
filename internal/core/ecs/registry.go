package ecs

// Pools is the double-buffered pair of pools for one component type.
type Pools[T any] struct {
	*DoubleBuffered[*Pool[T]]
}

// Remove drops id from both generations.
func (p Pools[T]) Remove(id EntityID) {
	a, b := p.Both()
	a.Remove(id)
	b.Remove(id)
}

// Attach writes v into both generations, so the entity is visible to readers
// this frame and to writers computing the next one.
func (p Pools[T]) Attach(id EntityID, v T) {
	a, b := p.Both()
	a.Add(id, v)
	b.Add(id, v)
}

// poolKey is a zero-size tag distinct for every component type. Instances are
// comparable, so they key the registry without reflection.
type poolKey[T any] struct{}

type registered interface {
	Removable
	Swapper
}

// Registry tracks every component pool pair and supports bulk removal and
// the per-frame swap.
type Registry struct {
	stores []registered
	byKey  map[any]int
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]registered, 0, 16),
		byKey:  make(map[any]int, 16),
	}
}

// Register returns the pools for T, creating them on first use.
func Register[T any](r *Registry) Pools[T] {
	if p, ok := Lookup[T](r); ok {
		return p
	}
	p := Pools[T]{NewDoubleBuffered(NewPool[T](), NewPool[T]())}
	r.byKey[poolKey[T]{}] = len(r.stores)
	r.stores = append(r.stores, p)
	return p
}

// Lookup returns the pools for T if they were registered.
func Lookup[T any](r *Registry) (Pools[T], bool) {
	i, ok := r.byKey[poolKey[T]{}]
	if !ok {
		return Pools[T]{}, false
	}
	return r.stores[i].(Pools[T]), true
}

// RemoveAll clears the given entity from every registered pool of both
// generations.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// SwapAll flips every registered pool pair.
func (r *Registry) SwapAll() {
	for _, s := range r.stores {
		s.Swap()
	}
}

func (r *Registry) Len() int { return len(r.stores) }
