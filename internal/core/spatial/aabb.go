package spatial

// Vec2 is a point or extent in world units.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// AABB is an axis-aligned box given by its center and half extents.
type AABB struct {
	Center Vec2
	HalfW  float32
	HalfH  float32
}

func NewAABB(center Vec2, halfW, halfH float32) AABB {
	return AABB{Center: center, HalfW: halfW, HalfH: halfH}
}

// Square returns a box with equal half extents.
func Square(center Vec2, radius float32) AABB {
	return AABB{Center: center, HalfW: radius, HalfH: radius}
}

// FromRect converts a top-left origin rectangle.
func FromRect(x, y, w, h float32) AABB {
	return AABB{Center: Vec2{x + w/2, y + h/2}, HalfW: w / 2, HalfH: h / 2}
}

func (b AABB) MinX() float32 { return b.Center.X - b.HalfW }
func (b AABB) MaxX() float32 { return b.Center.X + b.HalfW }
func (b AABB) MinY() float32 { return b.Center.Y - b.HalfH }
func (b AABB) MaxY() float32 { return b.Center.Y + b.HalfH }

// Intersects reports overlap; touching edges count.
func (b AABB) Intersects(o AABB) bool {
	return !(o.MinX() > b.MaxX() || o.MaxX() < b.MinX() ||
		o.MinY() > b.MaxY() || o.MaxY() < b.MinY())
}

// Contains reports whether o lies entirely inside b (edges inclusive).
func (b AABB) Contains(o AABB) bool {
	return o.MinX() >= b.MinX() && o.MaxX() <= b.MaxX() &&
		o.MinY() >= b.MinY() && o.MaxY() <= b.MaxY()
}

func (b AABB) ContainsPoint(p Vec2) bool {
	return p.X >= b.MinX() && p.X <= b.MaxX() &&
		p.Y >= b.MinY() && p.Y <= b.MaxY()
}
