package ecs

// Swapper is anything with two generations flipped once per frame.
type Swapper interface {
	Swap()
}

// DoubleBuffered holds two generations of a value. Systems read Active (last
// frame's settled state) and write Inactive (next frame's state). Swap flips
// the selector; nothing is copied.
type DoubleBuffered[T any] struct {
	buf   [2]T
	state bool
}

// NewDoubleBuffered returns a buffer whose Active generation is b0.
func NewDoubleBuffered[T any](b0, b1 T) *DoubleBuffered[T] {
	return &DoubleBuffered[T]{buf: [2]T{b0, b1}, state: true}
}

func (d *DoubleBuffered[T]) Active() T {
	if d.state {
		return d.buf[0]
	}
	return d.buf[1]
}

func (d *DoubleBuffered[T]) Inactive() T {
	if d.state {
		return d.buf[1]
	}
	return d.buf[0]
}

// Generation is the storage index of the Active buffer, 0 or 1.
func (d *DoubleBuffered[T]) Generation() int {
	if d.state {
		return 0
	}
	return 1
}

// Both returns the two generations in storage order, regardless of state.
func (d *DoubleBuffered[T]) Both() (T, T) { return d.buf[0], d.buf[1] }

func (d *DoubleBuffered[T]) Swap() { d.state = !d.state }
