package system

import (
	"time"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/render"
	coresys "github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/world"
)

// LabelSystem queues screen-space text. Phase 3 (Draw).
type LabelSystem struct {
	world  *world.World
	labels ecs.Pools[component.Label]
}

func NewLabelSystem(w *world.World) *LabelSystem {
	return &LabelSystem{world: w, labels: world.Pools[component.Label](w)}
}

func (s *LabelSystem) Phase() coresys.Phase { return coresys.PhaseDraw }

func (s *LabelSystem) Update(_ time.Duration) {
	ui := s.world.UI()
	s.labels.Active().Each(func(_ ecs.EntityID, l *component.Label) {
		if l.Text == "" {
			return
		}
		ui.Push(l.Layer, render.TextCmd{X: l.X, Y: l.Y, Text: l.Text, FG: l.FG, BG: l.BG})
	})
}
