package render

import "golang.org/x/text/width"

// Rect is a cell rectangle with a top-left origin.
type Rect struct {
	X, Y, W, H int
}

// Cell is one character cell of a canvas. A wide rune occupies its cell and
// the next one, which is marked as a continuation.
type Cell struct {
	Rune  rune
	FG    Color
	BG    Color
	Cont  bool
	Dirty bool
}

// Surface is the draw target handed to draw commands.
type Surface interface {
	Size() (w, h int)
	Clear(bg Color)
	Fill(r Rect, bg Color)
	Text(x, y int, s string, fg, bg Color) int
	Blit(x, y int, src *Canvas)
}

// Canvas is an offscreen cell grid. It is the render target of a frame and
// the pixel store of text sprites.
type Canvas struct {
	w, h  int
	cells []Cell
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{w: w, h: h, cells: make([]Cell, w*h)}
	c.Clear(ColorDefault)
	return c
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) in(x, y int) bool { return x >= 0 && y >= 0 && x < c.w && y < c.h }

// At returns the cell at x, y; out of range yields the zero cell.
func (c *Canvas) At(x, y int) Cell {
	if !c.in(x, y) {
		return Cell{}
	}
	return c.cells[y*c.w+x]
}

// Set writes one cell; out of range writes are clipped.
func (c *Canvas) Set(x, y int, cell Cell) {
	if !c.in(x, y) {
		return
	}
	cell.Dirty = true
	c.cells[y*c.w+x] = cell
}

func (c *Canvas) Clear(bg Color) {
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' ', FG: ColorDefault, BG: bg}
	}
}

func (c *Canvas) Fill(r Rect, bg Color) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			c.Set(x, y, Cell{Rune: ' ', FG: ColorDefault, BG: bg})
		}
	}
}

// RuneWidth is the number of cells r occupies: 2 for East Asian wide and
// fullwidth runes, 1 otherwise.
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// TextWidth sums RuneWidth over s.
func TextWidth(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// Text writes s starting at x, y and returns the number of cells advanced.
// A bg of ColorDefault keeps the background already in the cell.
func (c *Canvas) Text(x, y int, s string, fg, bg Color) int {
	start := x
	for _, r := range s {
		w := RuneWidth(r)
		cellBG := bg
		if bg == ColorDefault {
			cellBG = c.At(x, y).BG
		}
		c.Set(x, y, Cell{Rune: r, FG: fg, BG: cellBG})
		if w == 2 {
			c.Set(x+1, y, Cell{Rune: ' ', FG: fg, BG: cellBG, Cont: true})
		}
		x += w
	}
	return x - start
}

// Blit copies every cell of src that was drawn on, placing src's origin at
// x, y. Untouched cells are transparent.
func (c *Canvas) Blit(x, y int, src *Canvas) {
	if src == nil {
		return
	}
	for sy := 0; sy < src.h; sy++ {
		for sx := 0; sx < src.w; sx++ {
			cell := src.cells[sy*src.w+sx]
			if !cell.Dirty {
				continue
			}
			c.Set(x+sx, y+sy, cell)
		}
	}
}

// CopyFrom overwrites c with src cell by cell where they overlap.
func (c *Canvas) CopyFrom(src *Canvas) {
	for y := 0; y < c.h && y < src.h; y++ {
		for x := 0; x < c.w && x < src.w; x++ {
			c.cells[y*c.w+x] = src.cells[y*src.w+x]
		}
	}
}

// Lines returns the runes of each row, skipping wide-rune continuations.
func (c *Canvas) Lines() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, 0, c.w)
		for x := 0; x < c.w; x++ {
			cell := c.cells[y*c.w+x]
			if cell.Cont {
				continue
			}
			row = append(row, cell.Rune)
		}
		out[y] = string(row)
	}
	return out
}

// FromLines builds a canvas from rows of text, one rune per cell (wide
// runes take two). Spaces stay transparent so sprites can overlap.
func FromLines(lines []string, fg Color) *Canvas {
	w := 0
	for _, l := range lines {
		if n := TextWidth(l); n > w {
			w = n
		}
	}
	c := NewCanvas(w, len(lines))
	for y, l := range lines {
		x := 0
		for _, r := range l {
			rw := RuneWidth(r)
			if r != ' ' {
				c.Set(x, y, Cell{Rune: r, FG: fg, BG: ColorDefault})
				if rw == 2 {
					c.Set(x+1, y, Cell{Rune: ' ', FG: fg, BG: ColorDefault, Cont: true})
				}
			}
			x += rw
		}
	}
	return c
}

// DoubleCanvas keeps the frame being composed and the last finished frame,
// so effects can sample the previous image.
type DoubleCanvas struct {
	frames [2]*Canvas
	cur    int
}

func NewDoubleCanvas(w, h int) *DoubleCanvas {
	return &DoubleCanvas{frames: [2]*Canvas{NewCanvas(w, h), NewCanvas(w, h)}}
}

// Current is the canvas being composed this frame.
func (d *DoubleCanvas) Current() *Canvas { return d.frames[d.cur] }

// Previous is the last fully composed frame.
func (d *DoubleCanvas) Previous() *Canvas { return d.frames[1-d.cur] }

func (d *DoubleCanvas) Swap() { d.cur = 1 - d.cur }
