package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/message"
	"github.com/kagami-vn/engine/internal/core/render"
	"github.com/kagami-vn/engine/internal/core/system"
	"github.com/kagami-vn/engine/internal/core/worker"
)

// UI layers used by the built-in widgets.
const (
	LayerButtons = 10
	LayerLabels  = 11
)

type Options struct {
	Width, Height    int
	Workers          int // 0 = runtime.NumCPU()
	ParallelMessages bool
	Background       render.Color // zero is black
}

// World drives one scene: it owns the entity store, the message bus, the
// units and UI layers, the systems and the frame canvases.
// Update and Draw are called from the game loop goroutine only.
type World struct {
	entities *ecs.World
	messages *message.Manager
	runner   *system.Runner
	workers  *worker.Pool
	units    *render.Layers
	ui       *render.Layers
	canvas   *render.DoubleCanvas
	camera   *render.Camera
	opts     Options
	frame    uint64
	log      *zap.Logger
}

func New(opts Options, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		entities: ecs.NewWorld(),
		messages: message.NewManager(log.Named("message")),
		runner:   system.NewRunner(),
		workers:  worker.New(opts.Workers, log.Named("worker")),
		units:    render.NewLayers(),
		ui:       render.NewLayers(),
		canvas:   render.NewDoubleCanvas(opts.Width, opts.Height),
		camera:   render.NewCamera(),
		opts:     opts,
		log:      log,
	}
}

func (w *World) Entities() *ecs.World { return w.entities }
func (w *World) Messages() *message.Manager { return w.messages }
func (w *World) Workers() *worker.Pool { return w.workers }
func (w *World) Camera() *render.Camera { return w.camera }
func (w *World) Units() *render.Layers { return w.units }
func (w *World) UI() *render.Layers { return w.ui }
func (w *World) Frame() uint64 { return w.frame }
func (w *World) Systems() []system.System { return w.runner.Systems() }
func (w *World) Size() (width, height int) { return w.canvas.Current().Size() }
func (w *World) Logger() *zap.Logger { return w.log }
func (w *World) Options() Options { return w.opts }
func (w *World) Previous() *render.Canvas { return w.canvas.Previous() }
func (w *World) AddSystem(s system.System) { w.runner.Register(s) }
func (w *World) Alive(id ecs.EntityID) bool { return w.entities.Alive(id) }
func (w *World) Live() int { return w.entities.IDs().Live() }
func (w *World) PendingDeletes() int { return w.entities.Pending() }

// FindSystem returns the first registered system of type T.
func FindSystem[T system.System](w *World) (T, bool) {
	return system.Find[T](w.runner)
}

// Pools returns T's double-buffered pools, registering them on first use.
func Pools[T any](w *World) ecs.Pools[T] {
	return ecs.AddPool[T](w.entities)
}

// Attach gives id the component v in both generations.
func Attach[T any](w *World, id ecs.EntityID, v T) {
	ecs.Attach(w.entities, id, v)
}

// CreateEntity allocates an id without an inbox. Call Subscribe to opt in
// to messages.
func (w *World) CreateEntity() ecs.EntityID {
	return w.entities.CreateEntity()
}

// Subscribe gives a live id an inbox.
func (w *World) Subscribe(id ecs.EntityID) {
	if w.entities.Alive(id) {
		w.messages.Subscribe(id)
	}
}

// CreateUnit is CreateEntity followed by Subscribe: every unit it returns
// already receives messages. Use CreateEntity for silent entities.
func (w *World) CreateUnit() ecs.EntityID {
	id := w.entities.CreateEntity()
	w.messages.Subscribe(id)
	return id
}

// DeleteUnit schedules id for removal at the start of the next Update.
// Its components stay readable for the rest of this frame.
func (w *World) DeleteUnit(id ecs.EntityID) {
	w.entities.MarkForDeletion(id)
}

// Update advances the scene by one frame.
func (w *World) Update(dt time.Duration) {
	for _, id := range w.entities.FlushDeletions() {
		w.messages.Unsubscribe(id)
		w.entities.IDs().Recycle(id)
	}

	if w.opts.ParallelMessages {
		w.messages.SendAllParallel(w.workers)
	} else {
		w.messages.SendAll()
	}

	w.runner.Tick(dt)

	w.entities.Registry().SwapAll()
	w.messages.Swap()
	w.frame++

	if w.frame%600 == 0 {
		w.log.Debug("frame",
			zap.Uint64("frame", w.frame),
			zap.Int("units", w.Live()),
			zap.Int("subscribers", w.messages.Subscribers()),
			zap.Uint64("dropped_messages", w.messages.Dropped()),
		)
	}
}

// Draw composes the queued commands, units through the camera first and UI
// on top, clears both layer sets and hands the frame to p. The composed
// frame becomes the screenshot for the next frame.
func (w *World) Draw(p render.Presenter) error {
	cur := w.canvas.Current()
	cur.Clear(w.opts.Background)
	w.units.Flush(w.camera.Surface(cur))
	w.ui.Flush(cur)
	w.units.Clear()
	w.ui.Clear()

	var err error
	if p != nil {
		err = p.Present(cur)
		if err != nil {
			w.log.Error("present frame", zap.Uint64("frame", w.frame), zap.Error(err))
		}
	}
	w.canvas.Swap()
	return err
}

// Screenshot returns a copy of the last composed frame.
func (w *World) Screenshot() *render.Canvas {
	prev := w.canvas.Previous()
	width, height := prev.Size()
	shot := render.NewCanvas(width, height)
	shot.CopyFrom(prev)
	return shot
}

// Resize replaces the frame canvases. The previous screenshot is lost.
func (w *World) Resize(width, height int) {
	if cw, ch := w.Size(); cw == width && ch == height {
		return
	}
	w.canvas = render.NewDoubleCanvas(width, height)
	w.log.Debug("canvas resized", zap.Int("width", width), zap.Int("height", height))
}

// Close drains and stops the worker pool.
func (w *World) Close() {
	w.workers.Close()
}
