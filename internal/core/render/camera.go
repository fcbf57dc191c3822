package render

import "math"

// Camera maps world coordinates of the units layers to screen cells:
// screen = (world - Target) * Zoom + Offset. UI layers bypass it.
type Camera struct {
	OffsetX, OffsetY float32
	TargetX, TargetY float32
	Zoom             float32
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) zoom() float32 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// Apply converts a world position to a screen cell.
func (c *Camera) Apply(x, y float32) (int, int) {
	z := c.zoom()
	sx := (x-c.TargetX)*z + c.OffsetX
	sy := (y-c.TargetY)*z + c.OffsetY
	return int(math.Floor(float64(sx))), int(math.Floor(float64(sy)))
}

// Surface wraps s so that coordinates passed to it go through the camera.
// Rectangle sizes scale with zoom; text and blitted canvases keep one cell
// per rune.
func (c *Camera) Surface(s Surface) Surface {
	return &cameraSurface{cam: c, s: s}
}

type cameraSurface struct {
	cam *Camera
	s   Surface
}

func (cs *cameraSurface) Size() (int, int) { return cs.s.Size() }

func (cs *cameraSurface) Clear(bg Color) { cs.s.Clear(bg) }

func (cs *cameraSurface) Fill(r Rect, bg Color) {
	x, y := cs.cam.Apply(float32(r.X), float32(r.Y))
	z := cs.cam.zoom()
	w := int(math.Ceil(float64(float32(r.W) * z)))
	h := int(math.Ceil(float64(float32(r.H) * z)))
	cs.s.Fill(Rect{X: x, Y: y, W: w, H: h}, bg)
}

func (cs *cameraSurface) Text(x, y int, s string, fg, bg Color) int {
	sx, sy := cs.cam.Apply(float32(x), float32(y))
	return cs.s.Text(sx, sy, s, fg, bg)
}

func (cs *cameraSurface) Blit(x, y int, src *Canvas) {
	sx, sy := cs.cam.Apply(float32(x), float32(y))
	cs.s.Blit(sx, sy, src)
}
