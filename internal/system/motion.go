package system

import (
	"time"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	coresys "github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/world"
)

// MotionSystem integrates velocity. It reads last frame's positions from
// the active pool and writes the next positions into the inactive one.
// Phase 1 (Update).
type MotionSystem struct {
	transforms ecs.Pools[component.Transform]
	velocities ecs.Pools[component.Velocity]
}

func NewMotionSystem(w *world.World) *MotionSystem {
	return &MotionSystem{
		transforms: world.Pools[component.Transform](w),
		velocities: world.Pools[component.Velocity](w),
	}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MotionSystem) Update(dt time.Duration) {
	secs := float32(dt.Seconds())
	next := s.transforms.Inactive()
	ecs.Each2(s.transforms.Active(), s.velocities.Active(),
		func(id ecs.EntityID, t *component.Transform, v *component.Velocity) {
			moved := *t
			moved.X += v.X * secs
			moved.Y += v.Y * secs
			next.Add(id, moved)
		})
}
