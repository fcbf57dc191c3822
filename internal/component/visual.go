package component

import (
	"time"

	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/render"
	"github.com/kagami-vn/engine/internal/resource"
)

// Sprite draws Image at the unit's Transform. Texture keeps the backing
// asset alive; both generations of the pool share the same handle.
type Sprite struct {
	Texture resource.Handle[resource.Texture]
	Image   *render.Canvas
	Hidden  bool
}

// Animation cycles Frames into the unit's Sprite.
type Animation struct {
	Frames    []*render.Canvas
	FrameTime time.Duration
	Frame     int
	Elapsed   time.Duration
	Loop      bool
	Playing   bool
}

// Label is screen-space text on a UI layer.
type Label struct {
	Text   string
	X, Y   int
	FG, BG render.Color
	Layer  int
}

// Button is a clickable UI rectangle. A mouse release inside Rect notifies
// every listener.
type Button struct {
	Rect      render.Rect
	Text      string
	Fill      render.Color
	HoverFill render.Color
	FG        render.Color
	Listeners []ecs.EntityID
	Disabled  bool
	Hovered   bool
	Held      bool
}
