package render

import "sync"

// LayerCount is the number of ordered render buckets.
const LayerCount = 16

// Command is one queued renderable. It carries everything needed to draw,
// so it stays valid after the component it was built from changes.
type Command interface {
	Draw(s Surface)
}

// CommandFunc adapts a function to Command.
type CommandFunc func(s Surface)

func (f CommandFunc) Draw(s Surface) { f(s) }

// Layers holds this frame's commands in 16 buckets. Push is safe from
// several goroutines; insertion order within a layer is draw order.
type Layers struct {
	mu      sync.Mutex
	buckets [LayerCount][]Command
}

func NewLayers() *Layers {
	return &Layers{}
}

// Push queues cmd on layer. Out of range layers are clamped to 0..15.
func (l *Layers) Push(layer int, cmd Command) {
	if cmd == nil {
		return
	}
	if layer < 0 {
		layer = 0
	}
	if layer >= LayerCount {
		layer = LayerCount - 1
	}
	l.mu.Lock()
	l.buckets[layer] = append(l.buckets[layer], cmd)
	l.mu.Unlock()
}

// Flush draws layer 0 through 15 in insertion order onto s.
func (l *Layers) Flush(s Surface) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.buckets {
		for _, cmd := range l.buckets[i] {
			cmd.Draw(s)
		}
	}
}

// Clear discards every queued command, keeping capacity.
func (l *Layers) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.buckets {
		clear(l.buckets[i])
		l.buckets[i] = l.buckets[i][:0]
	}
}

// Len is the number of queued commands across all layers.
func (l *Layers) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for i := range l.buckets {
		n += len(l.buckets[i])
	}
	return n
}
