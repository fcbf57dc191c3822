package render

import (
	"strings"
	"sync"
	"testing"
)

func TestLayersFlushOrder(t *testing.T) {
	l := NewLayers()
	var got []string
	push := func(layer int, name string) {
		l.Push(layer, CommandFunc(func(Surface) { got = append(got, name) }))
	}
	push(5, "5a")
	push(0, "0a")
	push(5, "5b")
	push(15, "15")
	push(99, "clamped-high")
	push(-3, "clamped-low")

	if l.Len() != 6 {
		t.Fatalf("Len = %d", l.Len())
	}
	l.Flush(NewCanvas(1, 1))
	want := "0a,clamped-low,5a,5b,15,clamped-high"
	if s := strings.Join(got, ","); s != want {
		t.Fatalf("order = %s, want %s", s, want)
	}

	l.Clear()
	if l.Len() != 0 {
		t.Fatal("Clear left commands")
	}
	got = nil
	l.Flush(NewCanvas(1, 1))
	if len(got) != 0 {
		t.Fatal("cleared commands drawn again")
	}
}

func TestLayersConcurrentPush(t *testing.T) {
	l := NewLayers()
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				l.Push(i%LayerCount, FillCmd{})
			}
		}()
	}
	wg.Wait()
	if l.Len() != 1000 {
		t.Fatalf("Len = %d, want 1000", l.Len())
	}
}

func TestCanvasTextWideRunes(t *testing.T) {
	c := NewCanvas(10, 1)
	n := c.Text(0, 0, "a漢b", White, Black)
	if n != 4 {
		t.Fatalf("advance = %d, want 4", n)
	}
	if c.At(1, 0).Rune != '漢' || !c.At(2, 0).Cont || c.At(3, 0).Rune != 'b' {
		t.Fatalf("cells = %+v", c.cells[:4])
	}
	if line := c.Lines()[0]; !strings.HasPrefix(line, "a漢b") {
		t.Fatalf("Lines = %q", line)
	}
	if TextWidth("ｶﾅ漢") != 4 {
		t.Fatalf("TextWidth = %d", TextWidth("ｶﾅ漢"))
	}
}

func TestCanvasClipsAndBlitTransparency(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Fill(Rect{X: -2, Y: 0, W: 10, H: 1}, Blue)
	if c.At(0, 0).BG != Blue || c.At(3, 0).BG != Blue || c.At(0, 1).BG == Blue {
		t.Fatal("Fill did not clip to the canvas")
	}

	sprite := FromLines([]string{"x x"}, White)
	c.Clear(Black)
	c.Text(1, 1, "o", White, Black)
	c.Blit(0, 1, sprite)
	if got := c.Lines()[1]; got != "xox " {
		t.Fatalf("row = %q, want %q", got, "xox ")
	}
}

func TestCameraTransform(t *testing.T) {
	cam := NewCamera()
	cam.TargetX, cam.TargetY = 10, 10
	cam.OffsetX, cam.OffsetY = 2, 1
	cam.Zoom = 2

	if x, y := cam.Apply(11, 10); x != 4 || y != 1 {
		t.Fatalf("Apply = %d,%d, want 4,1", x, y)
	}

	c := NewCanvas(20, 10)
	s := cam.Surface(c)
	s.Fill(Rect{X: 10, Y: 10, W: 2, H: 1}, Blue)
	for x := 2; x < 6; x++ {
		if c.At(x, 1).BG != Blue {
			t.Fatalf("cell %d not filled through camera", x)
		}
	}
	s.Text(12, 12, "hi", White, ColorDefault)
	if c.At(6, 5).Rune != 'h' {
		t.Fatal("text not placed through camera")
	}
}

func TestDoubleCanvas(t *testing.T) {
	d := NewDoubleCanvas(3, 1)
	d.Current().Text(0, 0, "abc", White, Black)
	d.Swap()
	if d.Previous().Lines()[0] != "abc" {
		t.Fatal("previous frame lost after swap")
	}
	if d.Current() == d.Previous() {
		t.Fatal("current and previous alias")
	}
}

func TestBoxAndBackdrop(t *testing.T) {
	prev := NewCanvas(6, 3)
	prev.Fill(Rect{W: 6, H: 3}, White)

	c := NewCanvas(6, 3)
	BackdropCmd{Source: prev, Dim: 0.5}.Draw(c)
	if c.At(0, 0).BG != White.Scale(0.5) {
		t.Fatalf("backdrop bg = %x", c.At(0, 0).BG)
	}
	BoxCmd{Rect: Rect{X: 0, Y: 0, W: 6, H: 3}, Fill: Blue, Label: "ok", FG: White}.Draw(c)
	if got := c.Lines()[1]; got != "  ok  " {
		t.Fatalf("label row = %q", got)
	}
}
