package ecs

// World is the entity store of a scene. It owns the id manager, the component
// registry, and a deferred deletion queue flushed at the start of each update.
type World struct {
	ids         *IDManager
	registry    *Registry
	deleteQueue []EntityID
}

func NewWorld() *World {
	return &World{
		ids:         NewIDManager(),
		registry:    NewRegistry(),
		deleteQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) IDs() *IDManager     { return w.ids }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.ids.Allocate()
}

func (w *World) Alive(id EntityID) bool {
	return w.ids.Alive(id)
}

// MarkForDeletion queues an entity for removal at the next flush. The id is
// not recycled; the owner does that once it no longer refers to it.
func (w *World) MarkForDeletion(id EntityID) {
	w.deleteQueue = append(w.deleteQueue, id)
}

// Pending is the number of queued deletions.
func (w *World) Pending() int { return len(w.deleteQueue) }

// FlushDeletions removes every queued entity from all pools of both
// generations and returns the ids it processed.
func (w *World) FlushDeletions() []EntityID {
	if len(w.deleteQueue) == 0 {
		return nil
	}
	flushed := make([]EntityID, len(w.deleteQueue))
	copy(flushed, w.deleteQueue)
	for _, id := range flushed {
		w.registry.RemoveAll(id)
	}
	w.deleteQueue = w.deleteQueue[:0]
	return flushed
}

// Attach adds v for id to both generations of T's pools, registering them if
// needed.
func Attach[T any](w *World, id EntityID, v T) {
	Register[T](w.registry).Attach(id, v)
}

// PoolsOf returns the registered pools for T.
func PoolsOf[T any](w *World) (Pools[T], bool) {
	return Lookup[T](w.registry)
}

// AddPool registers T's pools on w.
func AddPool[T any](w *World) Pools[T] {
	return Register[T](w.registry)
}
