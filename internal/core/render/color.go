package render

// Color is a 24-bit RGB value. ColorDefault leaves the backend's default.
type Color uint32

const ColorDefault Color = 1 << 31

func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Scale multiplies each channel by f in [0,1]. ColorDefault is unchanged.
func (c Color) Scale(f float32) Color {
	if c == ColorDefault {
		return c
	}
	r, g, b := c.RGB()
	return RGB(uint8(float32(r)*f), uint8(float32(g)*f), uint8(float32(b)*f))
}

var (
	Black = RGB(0, 0, 0)
	White = RGB(255, 255, 255)
	Blue  = RGB(0, 121, 241)
	Gray  = RGB(130, 130, 130)
)
