package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap/zaptest"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/message"
	"github.com/kagami-vn/engine/internal/core/render"
	coresys "github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/system"
	"github.com/kagami-vn/engine/internal/world"
)

func newEngine(t *testing.T, scripts map[string]string) (*world.World, *Engine) {
	t.Helper()
	dir := t.TempDir()
	for name, src := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	w := world.New(world.Options{Workers: 1}, zaptest.NewLogger(t))
	t.Cleanup(w.Close)
	e, err := NewEngine(w, dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	w.AddSystem(e)
	return w, e
}

func TestScriptMessaging(t *testing.T) {
	w, e := newEngine(t, map[string]string{
		"main.lua": `
received = nil
function update(dt)
  for _, m in ipairs(inbox()) do
    if m.kind == "ping" then received = m.text end
  end
  if frame() == 0 then broadcast("ping", "hello") end
end
`,
	})

	w.Update(16 * time.Millisecond)
	if got := e.vm.GetGlobal("received"); got != lua.LNil {
		t.Fatalf("message visible in the frame it was sent: %v", got)
	}
	w.Update(16 * time.Millisecond)
	if got := e.vm.GetGlobal("received"); got.String() != "hello" {
		t.Fatalf("received = %v", got)
	}
	if e.Errors() != 0 {
		t.Fatalf("Errors = %d", e.Errors())
	}
}

func TestScriptUnicastToGoUnit(t *testing.T) {
	w, e := newEngine(t, nil)
	target := w.CreateUnit()
	if err := e.DoString(`function update(dt) if frame() == 0 then unicast(target, "note", "for you") end end`); err != nil {
		t.Fatal(err)
	}
	e.vm.SetGlobal("target", entityValue(target))

	var got []message.Text
	kind := w.Messages().Types().RegisterName("note")
	w.AddSystem(&inboxHook{fn: func() {
		msgs, _ := w.Messages().Inbox(target)
		got = append(got, message.Filter[message.Text](msgs, kind)...)
	}})
	w.Update(time.Millisecond)
	w.Update(time.Millisecond)
	if len(got) != 1 || got[0].Body != "for you" || got[0].Sender() != e.Self() {
		t.Fatalf("target inbox = %+v", got)
	}
}

func TestScriptErrorsDoNotStopTheFrame(t *testing.T) {
	w, e := newEngine(t, map[string]string{"bad.lua": `function update(dt) error("boom") end`})
	w.Update(time.Millisecond)
	w.Update(time.Millisecond)
	if e.Errors() != 2 || w.Frame() != 2 {
		t.Fatalf("Errors = %d Frame = %d", e.Errors(), w.Frame())
	}
}

func TestScriptLoadFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	w := world.New(world.Options{Workers: 1}, zaptest.NewLogger(t))
	defer w.Close()
	if _, err := NewEngine(w, dir, zaptest.NewLogger(t)); err == nil {
		t.Fatal("syntax error loaded")
	}
}

func TestScriptSpawnHashAndAnimate(t *testing.T) {
	w, e := newEngine(t, nil)
	w.AddSystem(system.NewAnimationSystem(w))

	if err := e.DoString(`unit = spawn(4, 2); h = hash("a"); v = API_VERSION`); err != nil {
		t.Fatal(err)
	}
	if e.vm.GetGlobal("h").(lua.LNumber) != lua.LNumber(world.StringHash("a")) {
		t.Fatal("hash mismatch")
	}
	if e.vm.GetGlobal("v").(lua.LNumber) != APIVersion {
		t.Fatal("API_VERSION missing")
	}
	n, ok := e.vm.GetGlobal("unit").(lua.LNumber)
	if !ok {
		t.Fatal("spawn did not return an id")
	}
	unit := ecs.EntityID(uint64(n))
	tr, found := world.Pools[component.Transform](w).Active().Get(unit)
	if !found || tr.X != 4 || tr.Y != 2 {
		t.Fatalf("spawned transform = %+v", tr)
	}

	frames := []*render.Canvas{render.NewCanvas(1, 1)}
	world.Attach(w, unit, component.Sprite{Image: frames[0]})
	world.Attach(w, unit, component.Animation{Frames: frames, FrameTime: time.Second})
	if err := e.DoString(`ok = animate(unit, false); missing = animate(self)`); err != nil {
		t.Fatal(err)
	}
	if e.vm.GetGlobal("ok") != lua.LTrue || e.vm.GetGlobal("missing") != lua.LFalse {
		t.Fatal("animate results wrong")
	}

	if err := e.DoString(`delete(unit)`); err != nil {
		t.Fatal(err)
	}
	w.Update(time.Millisecond)
	if w.Alive(unit) {
		t.Fatal("delete from script did not remove the unit")
	}
}

type inboxHook struct{ fn func() }

func (p *inboxHook) Phase() coresys.Phase   { return coresys.PhasePostUpdate }
func (p *inboxHook) Update(_ time.Duration) { p.fn() }
