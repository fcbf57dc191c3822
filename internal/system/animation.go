package system

import (
	"sync"
	"time"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	coresys "github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/world"
)

// AnimationSystem advances frame timers and points each animated sprite at
// its current frame. Phase 2 (PostUpdate).
type AnimationSystem struct {
	anims   ecs.Pools[component.Animation]
	sprites ecs.Pools[component.Sprite]

	mu      sync.Mutex
	control map[ecs.EntityID]bool // true = play from start, false = stop
}

func NewAnimationSystem(w *world.World) *AnimationSystem {
	return &AnimationSystem{
		anims:   world.Pools[component.Animation](w),
		sprites: world.Pools[component.Sprite](w),
		control: make(map[ecs.EntityID]bool),
	}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *AnimationSystem) Update(dt time.Duration) {
	s.mu.Lock()
	control := s.control
	s.control = make(map[ecs.EntityID]bool)
	s.mu.Unlock()

	nextAnims := s.anims.Inactive()
	nextSprites := s.sprites.Inactive()
	ecs.Each2(s.anims.Active(), s.sprites.Active(),
		func(id ecs.EntityID, a *component.Animation, sp *component.Sprite) {
			anim := *a
			if play, ok := control[id]; ok {
				anim.Playing = play
				if play {
					anim.Frame, anim.Elapsed = 0, 0
				}
			}
			anim = step(anim, dt)
			nextAnims.Add(id, anim)
			if len(anim.Frames) > 0 {
				frame := *sp
				frame.Image = anim.Frames[anim.Frame]
				nextSprites.Add(id, frame)
			}
		})
}

// step advances a by dt. A non-looping animation stops on its last frame.
func step(a component.Animation, dt time.Duration) component.Animation {
	if !a.Playing || a.FrameTime <= 0 || len(a.Frames) == 0 {
		return a
	}
	a.Elapsed += dt
	for a.Elapsed >= a.FrameTime {
		a.Elapsed -= a.FrameTime
		if a.Frame+1 < len(a.Frames) {
			a.Frame++
			continue
		}
		if !a.Loop {
			a.Playing = false
			a.Elapsed = 0
			break
		}
		a.Frame = 0
	}
	return a
}

// Play restarts the animation of id from its first frame on the next
// update. It reports whether id is animated.
func (s *AnimationSystem) Play(id ecs.EntityID) bool {
	return s.request(id, true)
}

// Stop freezes the animation of id on its current frame.
func (s *AnimationSystem) Stop(id ecs.EntityID) bool {
	return s.request(id, false)
}

func (s *AnimationSystem) request(id ecs.EntityID, play bool) bool {
	if !s.anims.Active().Has(id) {
		return false
	}
	s.mu.Lock()
	s.control[id] = play
	s.mu.Unlock()
	return true
}
