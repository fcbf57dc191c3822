package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleScene = `
name: title
units:
  - name: hero
    x: 10
    y: 4
    layer: 2
    sprite: hero.txt
    velocity: {x: 3, y: 0}
    bounds: {w: 2, h: 2}
  - name: crowd
    frames: [a.txt, b.txt]
    frame_ms: 250
    loop: true
widgets:
  - name: start
    button: {x: 2, y: 1, w: 10, h: 3, text: Start, listeners: [hero, caption]}
  - name: caption
    label: {x: 0, y: 0, text: "はじめる"}
`

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sampleScene), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "title" || s.Count() != 4 {
		t.Fatalf("name %q count %d", s.Name, s.Count())
	}
	hero := s.Units[0]
	if hero.Velocity == nil || hero.Velocity.X != 3 || hero.Bounds == nil || hero.Bounds.W != 2 {
		t.Fatalf("hero = %+v", hero)
	}
	if s.Units[1].Velocity != nil || len(s.Units[1].Frames) != 2 || !s.Units[1].Loop {
		t.Fatalf("crowd = %+v", s.Units[1])
	}
	if b := s.Widgets[0].Button; b == nil || b.W != 10 || len(b.Listeners) != 2 {
		t.Fatalf("button = %+v", b)
	}
	if !s.Has("caption") || s.Has("nobody") {
		t.Fatal("name index wrong")
	}
}

func TestParseSceneRejects(t *testing.T) {
	cases := map[string]string{
		"duplicate":        "units: [{name: a}, {name: a}]",
		"unknown listener": "widgets: [{name: b, button: {listeners: [ghost]}}]",
		"empty widget":     "widgets: [{name: c}]",
		"both kinds":       "widgets: [{name: d, button: {}, label: {}}]",
		"bad yaml":         "units: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseScene([]byte(raw)); err == nil {
				t.Fatal("accepted")
			}
		})
	}
	if _, err := LoadScene(filepath.Join(t.TempDir(), "none.yaml")); err == nil || !strings.Contains(err.Error(), "scene: read") {
		t.Fatalf("missing file err = %v", err)
	}
}
