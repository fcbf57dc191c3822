package platform

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/kagami-vn/engine/internal/core/render"
)

// Terminal presents canvases on a tcell screen.
type Terminal struct {
	screen tcell.Screen
}

// OpenTerminal initializes the real terminal with mouse reporting on.
func OpenTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewTerminal(screen), nil
}

// NewTerminal wraps an initialized screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	screen.EnableMouse()
	screen.HideCursor()
	return &Terminal{screen: screen}
}

func (t *Terminal) Screen() tcell.Screen { return t.screen }

func (t *Terminal) Size() (int, int) { return t.screen.Size() }

// Present copies c to the screen and flushes it. Cells beyond the screen
// are clipped.
func (t *Terminal) Present(c *render.Canvas) error {
	w, h := c.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := c.At(x, y)
			if cell.Cont {
				continue
			}
			t.screen.SetContent(x, y, cell.Rune, nil, styleOf(cell))
		}
	}
	t.screen.Show()
	return nil
}

func styleOf(cell render.Cell) tcell.Style {
	style := tcell.StyleDefault
	if cell.FG != render.ColorDefault {
		style = style.Foreground(tcellColor(cell.FG))
	}
	if cell.BG != render.ColorDefault {
		style = style.Background(tcellColor(cell.BG))
	}
	return style
}

func tcellColor(c render.Color) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Events pumps screen events into a channel until ctx is done or the screen
// is finalized.
func (t *Terminal) Events(ctx context.Context) <-chan tcell.Event {
	ch := make(chan tcell.Event, 100)
	go func() {
		defer close(ch)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}
