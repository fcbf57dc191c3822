package message

import (
	"fmt"
	"sync"

	"github.com/kagami-vn/engine/internal/core/ecs"
)

// TypeID is the compact id assigned to a message kind on first registration.
type TypeID uint32

// NoType is returned by lookups of kinds that were never registered.
const NoType TypeID = ^TypeID(0)

// Message is an immutable payload tagged with its sender and kind.
type Message interface {
	Sender() ecs.EntityID
	Type() TypeID
}

// Header implements Message; embed it in concrete message structs.
type Header struct {
	From ecs.EntityID
	Kind TypeID
}

func NewHeader(from ecs.EntityID, kind TypeID) Header {
	return Header{From: from, Kind: kind}
}

func (h Header) Sender() ecs.EntityID { return h.From }
func (h Header) Type() TypeID         { return h.Kind }

// Text is a generic message carrying a string, used by scripts and tools
// that do not define their own payload types.
type Text struct {
	Header
	Body string
}

type typeKey[T any] struct{}

// TypeRegistry is a bijection between message kinds and TypeIDs. Ids are
// assigned in registration order and never change.
type TypeRegistry struct {
	mu     sync.Mutex
	byKey  map[any]TypeID
	byName map[string]TypeID
	names  []string
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byKey:  make(map[any]TypeID, 16),
		byName: make(map[string]TypeID, 16),
	}
}

// Register returns T's id, assigning the next one on first call.
func Register[T any](r *TypeRegistry) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byKey[typeKey[T]{}]; ok {
		return id
	}
	var zero T
	id := r.assign(fmt.Sprintf("%T", zero))
	r.byKey[typeKey[T]{}] = id
	return id
}

// Lookup returns T's id, or NoType if T was never registered.
func Lookup[T any](r *TypeRegistry) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byKey[typeKey[T]{}]; ok {
		return id
	}
	return NoType
}

// RegisterName returns the id for a named kind, for callers such as scripts
// that have no Go type to key on. Named kinds share the id space with Go
// types but not the key space: a name never resolves to a type's id, even
// when it equals that type's Name.
func (r *TypeRegistry) RegisterName(name string) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[name]; ok {
		return id
	}
	id := r.assign(name)
	r.byName[name] = id
	return id
}

// LookupName returns the id of a named kind or NoType.
func (r *TypeRegistry) LookupName(name string) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[name]; ok {
		return id
	}
	return NoType
}

// Name returns the name the id was registered under, or "" if unknown.
// For Go types it is the %T spelling, which is for display only.
func (r *TypeRegistry) Name(id TypeID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(id) >= len(r.names) {
		return ""
	}
	return r.names[id]
}

func (r *TypeRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.names)
}

// assign hands out the next id. Caller holds mu.
func (r *TypeRegistry) assign(name string) TypeID {
	id := TypeID(len(r.names))
	r.names = append(r.names, name)
	return id
}

// Filter returns the messages of kind id that are of Go type T.
func Filter[T Message](msgs []Message, id TypeID) []T {
	var out []T
	for _, m := range msgs {
		if m.Type() != id {
			continue
		}
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
