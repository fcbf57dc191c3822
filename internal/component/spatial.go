package component

import "github.com/kagami-vn/engine/internal/core/spatial"

// Transform is a unit's world position. Layer selects the units draw layer.
type Transform struct {
	X, Y  float32
	Layer int
}

// Velocity is in world cells per second.
type Velocity struct {
	X, Y float32
}

// Bounds is a collider centered on the unit's Transform.
type Bounds struct {
	HalfW, HalfH float32
}

// Box places b at t.
func (b Bounds) Box(t Transform) spatial.AABB {
	return spatial.NewAABB(spatial.Vec2{X: t.X, Y: t.Y}, b.HalfW, b.HalfH)
}
