package render

// FillCmd paints a solid rectangle.
type FillCmd struct {
	Rect  Rect
	Color Color
}

func (c FillCmd) Draw(s Surface) { s.Fill(c.Rect, c.Color) }

// TextCmd writes one line of text.
type TextCmd struct {
	X, Y int
	Text string
	FG   Color
	BG   Color
}

func (c TextCmd) Draw(s Surface) { s.Text(c.X, c.Y, c.Text, c.FG, c.BG) }

// SpriteCmd blits an already resolved image.
type SpriteCmd struct {
	X, Y  int
	Image *Canvas
}

func (c SpriteCmd) Draw(s Surface) { s.Blit(c.X, c.Y, c.Image) }

// BoxCmd draws a filled box with a centered label, the shape of a button.
type BoxCmd struct {
	Rect  Rect
	Fill  Color
	Label string
	FG    Color
}

func (c BoxCmd) Draw(s Surface) {
	s.Fill(c.Rect, c.Fill)
	if c.Label == "" {
		return
	}
	x := c.Rect.X + (c.Rect.W-TextWidth(c.Label))/2
	y := c.Rect.Y + c.Rect.H/2
	s.Text(x, y, c.Label, c.FG, c.Fill)
}

// BackdropCmd paints a dimmed copy of a previous frame, for blurred or
// faded backgrounds behind menus. Source must not be the canvas being drawn.
type BackdropCmd struct {
	Source *Canvas
	Dim    float32
}

func (c BackdropCmd) Draw(s Surface) {
	if c.Source == nil {
		return
	}
	w, h := c.Source.Size()
	dim := &Canvas{w: w, h: h, cells: make([]Cell, len(c.Source.cells))}
	for i, cell := range c.Source.cells {
		cell.FG = cell.FG.Scale(c.Dim)
		cell.BG = cell.BG.Scale(c.Dim)
		cell.Dirty = true
		dim.cells[i] = cell
	}
	s.Blit(0, 0, dim)
}
