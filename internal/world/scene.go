package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/kagami-vn/engine/internal/component"
	"github.com/kagami-vn/engine/internal/core/ecs"
	"github.com/kagami-vn/engine/internal/core/render"
	"github.com/kagami-vn/engine/internal/data"
	"github.com/kagami-vn/engine/internal/resource"
)

// SpawnScene creates the units and widgets of scene and returns their ids
// by name. Textures that fail to load leave the unit without an image;
// the failure is logged by the cache.
func (w *World) SpawnScene(scene *data.Scene, assets *resource.Manager) map[string]ecs.EntityID {
	ids := make(map[string]ecs.EntityID, scene.Count())
	for _, def := range scene.Units {
		id := w.CreateUnit()
		if def.Name != "" {
			ids[def.Name] = id
		}
		w.spawnUnit(id, def, assets)
	}

	widgets := make([]ecs.EntityID, len(scene.Widgets))
	for i, def := range scene.Widgets {
		id := w.CreateUnit()
		widgets[i] = id
		if def.Name != "" {
			ids[def.Name] = id
		}
	}
	for i, def := range scene.Widgets {
		id := widgets[i]
		switch {
		case def.Button != nil:
			b := def.Button
			listeners := make([]ecs.EntityID, 0, len(b.Listeners))
			for _, name := range b.Listeners {
				if l, ok := ids[name]; ok {
					listeners = append(listeners, l)
				}
			}
			Attach(w, id, component.Button{
				Rect:      render.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H},
				Text:      b.Text,
				Fill:      render.Gray,
				HoverFill: render.Blue,
				FG:        render.White,
				Listeners: listeners,
			})
		case def.Label != nil:
			l := def.Label
			layer := l.Layer
			if layer == 0 {
				layer = LayerLabels
			}
			Attach(w, id, component.Label{
				Text: l.Text, X: l.X, Y: l.Y,
				FG: render.White, BG: render.ColorDefault,
				Layer: layer,
			})
		}
	}

	w.log.Info("scene spawned",
		zap.String("scene", scene.Name),
		zap.Int("units", len(scene.Units)),
		zap.Int("widgets", len(scene.Widgets)),
	)
	return ids
}

func (w *World) spawnUnit(id ecs.EntityID, def data.UnitDef, assets *resource.Manager) {
	Attach(w, id, component.Transform{X: def.X, Y: def.Y, Layer: def.Layer})
	if def.Velocity != nil {
		Attach(w, id, component.Velocity{X: def.Velocity.X, Y: def.Velocity.Y})
	}
	if def.Bounds != nil {
		Attach(w, id, component.Bounds{HalfW: def.Bounds.W / 2, HalfH: def.Bounds.H / 2})
	}
	if assets == nil {
		return
	}

	var sprite component.Sprite
	if def.Sprite != "" {
		if h, err := assets.Texture(def.Sprite); err == nil {
			sprite.Texture = h
			sprite.Image = h.Get().Image
		}
	}
	if len(def.Frames) > 0 {
		anim := component.Animation{
			FrameTime: time.Duration(def.FrameMS) * time.Millisecond,
			Loop:      def.Loop,
			Playing:   true,
		}
		for _, name := range def.Frames {
			h, err := assets.Texture(name)
			if err != nil {
				continue
			}
			anim.Frames = append(anim.Frames, h.Get().Image)
			// the cache keeps the frame alive; this caller reference is not needed
			h.Release()
		}
		if len(anim.Frames) > 0 {
			if sprite.Image == nil {
				sprite.Image = anim.Frames[0]
			}
			Attach(w, id, anim)
		}
	}
	if sprite.Image != nil {
		Attach(w, id, sprite)
	}
}
