package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap/zaptest"

	"github.com/kagami-vn/engine/internal/core/render"
	"github.com/kagami-vn/engine/internal/resource"
)

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return NewTerminal(screen), screen
}

func TestTerminalPresent(t *testing.T) {
	term, screen := newSimTerminal(t, 8, 2)

	c := render.NewCanvas(8, 2)
	c.Text(0, 0, "hi", render.White, render.Blue)
	c.Text(0, 1, "漢x", render.Gray, render.ColorDefault)
	if err := term.Present(c); err != nil {
		t.Fatal(err)
	}

	r, _, style, _ := screen.GetContent(0, 0)
	if r != 'h' {
		t.Fatalf("rune = %q, want 'h'", r)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 255, 255) || bg != tcell.NewRGBColor(0, 121, 241) {
		t.Fatalf("style fg=%v bg=%v", fg, bg)
	}
	if r, _, _, _ := screen.GetContent(0, 1); r != '漢' {
		t.Fatalf("wide rune = %q", r)
	}
	if r, _, _, _ := screen.GetContent(2, 1); r != 'x' {
		t.Fatalf("rune after wide = %q, want 'x'", r)
	}
}

func TestInputEdgesLastOneFrame(t *testing.T) {
	in := NewInputState()

	in.HandleEvent(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone))
	in.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	in.BeginFrame()
	if x, y := in.MousePosition(); x != 3 || y != 4 {
		t.Fatalf("position = %d,%d", x, y)
	}
	if !in.MousePressed() || !in.MouseDown() || in.MouseReleased() {
		t.Fatal("press edge missing")
	}
	if !in.KeyPressed('q') {
		t.Fatal("key missing")
	}

	in.BeginFrame()
	if in.MousePressed() || !in.MouseDown() || in.KeyPressed('q') {
		t.Fatal("edges survived into the next frame")
	}

	in.HandleEvent(tcell.NewEventMouse(5, 4, tcell.ButtonNone, tcell.ModNone))
	in.BeginFrame()
	if !in.MouseReleased() || in.MouseDown() {
		t.Fatal("release edge missing")
	}
	if in.HandleEvent(tcell.NewEventResize(10, 10)) {
		t.Fatal("resize treated as input")
	}
}

func TestClockCapsDelta(t *testing.T) {
	now := time.Unix(100, 0)
	c := newClock(50*time.Millisecond, func() time.Time { return now })

	now = now.Add(16 * time.Millisecond)
	if dt := c.Tick(); dt != 16*time.Millisecond {
		t.Fatalf("dt = %v", dt)
	}
	now = now.Add(2 * time.Second)
	if dt := c.Tick(); dt != 50*time.Millisecond {
		t.Fatalf("capped dt = %v", dt)
	}
}

func TestAudioMixesUntilDrained(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Silence(400), format); err != nil {
		t.Fatal(err)
	}
	f.Close()

	m, err := resource.LoadMusic(path)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Stream.Close()

	a := NewAudio(8000, zaptest.NewLogger(t))
	defer a.Close()
	if _, err := a.Play(m, false); err != nil {
		t.Fatal(err)
	}
	if a.Playing() != 1 {
		t.Fatalf("Playing = %d", a.Playing())
	}

	buf := make([][2]float64, 256)
	for i := 0; i < 4; i++ {
		a.Mixer().Stream(buf)
	}
	if a.Playing() != 0 {
		t.Fatalf("track still playing after drain: %d", a.Playing())
	}
	if _, err := a.Play(resource.Music{}, false); err != ErrNoStream {
		t.Fatalf("err = %v", err)
	}
}
