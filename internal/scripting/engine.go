package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/message"
	coresys "github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/system"
	"github.com/kagami-vn/engine/internal/world"
)

// APIVersion is exposed to scripts as API_VERSION.
const APIVersion = 1

// Engine wraps a single gopher-lua VM and runs it as a system: each frame
// it calls the global update(dt). The engine owns a unit of its own, which
// is the sender of every message a script sends and the default inbox.
// Single-goroutine access only (game loop).
type Engine struct {
	vm     *lua.LState
	world  *world.World
	self   ecs.EntityID
	errors int
	log    *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir in
// name order. A missing directory loads nothing.
func NewEngine(w *world.World, scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine{vm: vm, world: w, self: w.CreateUnit(), log: log}
	e.register()

	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Self is the unit scripts send from.
func (e *Engine) Self() ecs.EntityID { return e.self }

// Errors counts failed update calls.
func (e *Engine) Errors() int { return e.errors }

func (e *Engine) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Update calls the script's update(dt) with dt in seconds. A script error
// is logged and the frame goes on.
func (e *Engine) Update(dt time.Duration) {
	fn := e.vm.GetGlobal("update")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt.Seconds())); err != nil {
		e.errors++
		e.log.Warn("lua update error", zap.Uint64("frame", e.world.Frame()), zap.Error(err))
	}
}

// Close shuts down the Lua VM and schedules the engine's unit for deletion.
func (e *Engine) Close() {
	e.world.DeleteUnit(e.self)
	e.vm.Close()
}

func (e *Engine) register() {
	api := map[string]lua.LGFunction{
		"broadcast": e.luaBroadcast,
		"unicast":   e.luaUnicast,
		"multicast": e.luaMulticast,
		"inbox":     e.luaInbox,
		"frame":     e.luaFrame,
		"hash":      e.luaHash,
		"log":       e.luaLog,
		"spawn":     e.luaSpawn,
		"delete":    e.luaDelete,
		"animate":   e.luaAnimate,
	}
	for name, fn := range api {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
	e.vm.SetGlobal("self", entityValue(e.self))
}

func entityValue(id ecs.EntityID) lua.LNumber { return lua.LNumber(uint64(id)) }

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	return ecs.EntityID(uint64(L.CheckNumber(n)))
}

func (e *Engine) text(L *lua.LState, kindArg int) message.Text {
	kind := e.world.Messages().Types().RegisterName(L.CheckString(kindArg))
	return message.Text{Header: message.NewHeader(e.self, kind), Body: L.OptString(kindArg+1, "")}
}

// broadcast(kind, text)
func (e *Engine) luaBroadcast(L *lua.LState) int {
	e.world.Messages().Broadcast(e.text(L, 1))
	return 0
}

// unicast(target, kind, text)
func (e *Engine) luaUnicast(L *lua.LState) int {
	target := checkEntity(L, 1)
	e.world.Messages().Unicast(e.text(L, 2), target)
	return 0
}

// multicast({targets}, kind, text)
func (e *Engine) luaMulticast(L *lua.LState) int {
	tbl := L.CheckTable(1)
	var targets []ecs.EntityID
	tbl.ForEach(func(_, v lua.LValue) {
		if n, ok := v.(lua.LNumber); ok {
			targets = append(targets, ecs.EntityID(uint64(n)))
		}
	})
	e.world.Messages().Multicast(e.text(L, 2), targets)
	return 0
}

// inbox([id]) returns a list of {from, kind, text} or nil when id has no
// inbox. id defaults to the engine's own unit.
func (e *Engine) luaInbox(L *lua.LState) int {
	id := e.self
	if L.GetTop() >= 1 {
		id = checkEntity(L, 1)
	}
	msgs, ok := e.world.Messages().Inbox(id)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	types := e.world.Messages().Types()
	list := L.NewTable()
	for _, m := range msgs {
		t := L.NewTable()
		t.RawSetString("from", entityValue(m.Sender()))
		t.RawSetString("kind", lua.LString(types.Name(m.Type())))
		switch v := m.(type) {
		case message.Text:
			t.RawSetString("text", lua.LString(v.Body))
		case component.ButtonPressed:
			t.RawSetString("button", entityValue(v.Button))
		case component.Contact:
			t.RawSetString("other", entityValue(v.Other))
		}
		list.Append(t)
	}
	L.Push(list)
	return 1
}

func (e *Engine) luaFrame(L *lua.LState) int {
	L.Push(lua.LNumber(e.world.Frame()))
	return 1
}

func (e *Engine) luaHash(L *lua.LState) int {
	L.Push(lua.LNumber(world.StringHash(L.CheckString(1))))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// spawn(x, y) creates a unit at x, y and returns its id.
func (e *Engine) luaSpawn(L *lua.LState) int {
	id := e.world.CreateUnit()
	world.Attach(e.world, id, component.Transform{
		X: float32(L.OptNumber(1, 0)),
		Y: float32(L.OptNumber(2, 0)),
	})
	L.Push(entityValue(id))
	return 1
}

func (e *Engine) luaDelete(L *lua.LState) int {
	e.world.DeleteUnit(checkEntity(L, 1))
	return 0
}

// animate(id, playing) starts or stops a unit's animation. It returns false
// when the unit has none or no animation system is running.
func (e *Engine) luaAnimate(L *lua.LState) int {
	anims, ok := world.FindSystem[*system.AnimationSystem](e.world)
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	id := checkEntity(L, 1)
	var done bool
	if L.OptBool(2, true) {
		done = anims.Play(id)
	} else {
		done = anims.Stop(id)
	}
	L.Push(lua.LBool(done))
	return 1
}
