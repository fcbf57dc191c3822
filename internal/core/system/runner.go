package system

import "time"

// Runner executes systems strictly in registration order each frame. Phase
// is only consulted by TickPhase.
type Runner struct {
	systems []System
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
}

func (r *Runner) Tick(dt time.Duration) {
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// TickPhase runs only the systems of one phase, in registration order.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Systems returns the registered systems in execution order.
func (r *Runner) Systems() []System { return r.systems }

func (r *Runner) Len() int { return len(r.systems) }

// Find returns the first registered system of type T.
func Find[T System](r *Runner) (T, bool) {
	for _, s := range r.systems {
		if v, ok := s.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
