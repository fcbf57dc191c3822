package system

import (
	"math"
	"time"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/render"
	coresys "github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/world"
)

// SpriteSystem queues a sprite command per visible unit on its units layer.
// With parallel set, sprites are visited on the world's worker pool and
// the order within a layer is not fixed.
// Phase 3 (Draw).
type SpriteSystem struct {
	world      *world.World
	sprites    ecs.Pools[component.Sprite]
	transforms ecs.Pools[component.Transform]
	parallel   bool
}

func NewSpriteSystem(w *world.World, parallel bool) *SpriteSystem {
	return &SpriteSystem{
		world:      w,
		sprites:    world.Pools[component.Sprite](w),
		transforms: world.Pools[component.Transform](w),
		parallel:   parallel,
	}
}

func (s *SpriteSystem) Phase() coresys.Phase { return coresys.PhaseDraw }

func (s *SpriteSystem) Update(_ time.Duration) {
	transforms := s.transforms.Active()
	units := s.world.Units()
	draw := func(id ecs.EntityID, sp *component.Sprite) {
		if sp.Hidden || sp.Image == nil {
			return
		}
		t, ok := transforms.Get(id)
		if !ok {
			return
		}
		units.Push(t.Layer, render.SpriteCmd{
			X:     int(math.Floor(float64(t.X))),
			Y:     int(math.Floor(float64(t.Y))),
			Image: sp.Image,
		})
	}
	if s.parallel {
		s.sprites.Active().ParallelEach(s.world.Workers(), draw)
		return
	}
	s.sprites.Active().Each(draw)
}
