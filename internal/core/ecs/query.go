package ecs

// Each2 iterates over entities that have both component A and B.
// It walks the smaller pool and looks each id up in the larger one. Both
// pools stay locked for the whole walk, so fn must not call back into either.
// sa and sb must be distinct pools.
func Each2[A, B any](sa *Pool[A], sb *Pool[B], fn func(EntityID, *A, *B)) {
	ga, gb := sa.Lock(), sb.Lock()
	defer ga.Unlock()
	defer gb.Unlock()

	if len(sa.data) <= len(sb.data) {
		for i := range sa.data {
			id := sa.entities[i]
			if b := gb.Get(id); b != nil {
				fn(id, &sa.data[i], b)
			}
		}
		return
	}
	for i := range sb.data {
		id := sb.entities[i]
		if a := ga.Get(id); a != nil {
			fn(id, a, &sb.data[i])
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](sa *Pool[A], sb *Pool[B], sc *Pool[C], fn func(EntityID, *A, *B, *C)) {
	ga, gb, gc := sa.Lock(), sb.Lock(), sc.Lock()
	defer ga.Unlock()
	defer gb.Unlock()
	defer gc.Unlock()

	// Iterate the smallest pool
	smallest := len(sa.data)
	which := 0
	if len(sb.data) < smallest {
		smallest = len(sb.data)
		which = 1
	}
	if len(sc.data) < smallest {
		which = 2
	}

	switch which {
	case 0:
		for i := range sa.data {
			id := sa.entities[i]
			if b := gb.Get(id); b != nil {
				if c := gc.Get(id); c != nil {
					fn(id, &sa.data[i], b, c)
				}
			}
		}
	case 1:
		for i := range sb.data {
			id := sb.entities[i]
			if a := ga.Get(id); a != nil {
				if c := gc.Get(id); c != nil {
					fn(id, a, &sb.data[i], c)
				}
			}
		}
	case 2:
		for i := range sc.data {
			id := sc.entities[i]
			if a := ga.Get(id); a != nil {
				if b := gb.Get(id); b != nil {
					fn(id, a, b, &sc.data[i])
				}
			}
		}
	}
}
