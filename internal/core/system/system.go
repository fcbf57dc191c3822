package system

import "time"

// Phase labels what part of a frame a system belongs to. The runner does not
// reorder by phase; register systems in the order they should run.
type Phase int

const (
	PhaseInput      Phase = iota // 0: poll platform input, hit tests
	PhaseUpdate                  // 1: game logic, reads active pools and inboxes
	PhasePostUpdate              // 2: derived state (spatial index, animation)
	PhaseDraw                    // 3: enqueue draw commands
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseDraw:
		return "draw"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
