package ecs

import "fmt"

// EntityID packs a slot index (low 32 bits) with the slot's generation at
// allocation time (high 32 bits). Two ids for the same slot never compare
// equal once the slot has been recycled.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

func (id EntityID) String() string {
	return fmt.Sprintf("%d:%d", id.Index(), id.Generation())
}

// newer reports whether id is a later incarnation of other's slot.
func (id EntityID) newer(other EntityID) bool {
	return id.Index() == other.Index() && id.Generation() > other.Generation()
}

type idSlot struct {
	gen  uint32
	free bool
}

// IDManager hands out entity ids. Recycled slots come back LIFO before any
// new index is minted, and minted indices only grow.
// Used from the frame goroutine only.
type IDManager struct {
	slots []idSlot
	free  []uint32
}

func NewIDManager() *IDManager {
	return &IDManager{slots: make([]idSlot, 0, 1024)}
}

func (m *IDManager) Allocate() EntityID {
	if n := len(m.free); n > 0 {
		idx := m.free[n-1]
		m.free = m.free[:n-1]
		m.slots[idx].free = false
		return NewEntityID(idx, m.slots[idx].gen)
	}
	idx := uint32(len(m.slots))
	m.slots = append(m.slots, idSlot{})
	return NewEntityID(idx, 0)
}

func (m *IDManager) Alive(id EntityID) bool {
	idx := int(id.Index())
	if idx >= len(m.slots) {
		return false
	}
	s := m.slots[idx]
	return !s.free && s.gen == id.Generation()
}

// Recycle frees id's slot and bumps its generation. Ids that are not alive
// are ignored, which makes a second Recycle of the same id harmless.
// Components must be gone from every pool before this is called.
func (m *IDManager) Recycle(id EntityID) {
	if !m.Alive(id) {
		return
	}
	s := &m.slots[id.Index()]
	s.gen++
	s.free = true
	m.free = append(m.free, id.Index())
}

// Live counts allocated ids that have not been recycled.
func (m *IDManager) Live() int {
	return len(m.slots) - len(m.free)
}
