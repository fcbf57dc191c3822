package system

import (
	"time"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/message"
	"github.com/kagami-vn/engine/internal/core/render"
	coresys "github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/platform"
	"github.com/kagami-vn/engine/internal/world"
)

// ButtonSystem hit-tests buttons against the pointer. A mouse release inside
// a button multicasts ButtonPressed to its listeners; every button is queued
// for drawing on the buttons UI layer.
// Phase 0 (Input).
type ButtonSystem struct {
	world   *world.World
	input   platform.Input
	buttons ecs.Pools[component.Button]
	kind    message.TypeID
	clicks  int
}

func NewButtonSystem(w *world.World, input platform.Input) *ButtonSystem {
	return &ButtonSystem{
		world:   w,
		input:   input,
		buttons: world.Pools[component.Button](w),
		kind:    message.Register[component.ButtonPressed](w.Messages().Types()),
	}
}

func (s *ButtonSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Kind is the message type id of ButtonPressed.
func (s *ButtonSystem) Kind() message.TypeID { return s.kind }

// Clicks counts presses since start.
func (s *ButtonSystem) Clicks() int { return s.clicks }

func (s *ButtonSystem) Update(_ time.Duration) {
	mx, my := s.input.MousePosition()
	pressed := s.input.MousePressed()
	released := s.input.MouseReleased()
	msgs := s.world.Messages()
	ui := s.world.UI()
	next := s.buttons.Inactive()

	s.buttons.Active().Each(func(id ecs.EntityID, b *component.Button) {
		nb := *b
		inside := !b.Disabled && contains(b.Rect, mx, my)
		nb.Hovered = inside
		if pressed && inside {
			nb.Held = true
		}
		if released {
			if inside && len(b.Listeners) > 0 {
				msgs.Multicast(component.ButtonPressed{
					Header: message.NewHeader(id, s.kind),
					Button: id,
				}, b.Listeners)
			}
			if inside {
				s.clicks++
			}
			nb.Held = false
		}
		next.Add(id, nb)

		fill := b.Fill
		if nb.Hovered {
			fill = b.HoverFill
		}
		if b.Disabled {
			fill = fill.Scale(0.5)
		}
		ui.Push(world.LayerButtons, render.BoxCmd{Rect: b.Rect, Fill: fill, Label: b.Text, FG: b.FG})
	})
}

func contains(r render.Rect, x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}
