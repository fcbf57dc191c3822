package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnitDef describes one world-space entity of a scene.
type UnitDef struct {
	Name     string   `yaml:"name"`
	X        float32  `yaml:"x"`
	Y        float32  `yaml:"y"`
	Layer    int      `yaml:"layer"`
	Sprite   string   `yaml:"sprite"`
	Frames   []string `yaml:"frames"`
	FrameMS  int      `yaml:"frame_ms"`
	Loop     bool     `yaml:"loop"`
	Velocity *Vec     `yaml:"velocity"`
	Bounds   *Size    `yaml:"bounds"` // full width and height
}

type Vec struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

type Size struct {
	W float32 `yaml:"w"`
	H float32 `yaml:"h"`
}

// WidgetDef describes one screen-space element. Exactly one of Button and
// Label is set.
type WidgetDef struct {
	Name   string     `yaml:"name"`
	Button *ButtonDef `yaml:"button"`
	Label  *LabelDef  `yaml:"label"`
}

type ButtonDef struct {
	X         int      `yaml:"x"`
	Y         int      `yaml:"y"`
	W         int      `yaml:"w"`
	H         int      `yaml:"h"`
	Text      string   `yaml:"text"`
	Listeners []string `yaml:"listeners"` // unit or widget names
}

type LabelDef struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Text  string `yaml:"text"`
	Layer int    `yaml:"layer"`
}

// Scene is a parsed scene manifest.
type Scene struct {
	Name    string      `yaml:"name"`
	Units   []UnitDef   `yaml:"units"`
	Widgets []WidgetDef `yaml:"widgets"`

	names map[string]struct{}
}

// Has reports whether a unit or widget is called name.
func (s *Scene) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Count returns the number of units and widgets.
func (s *Scene) Count() int {
	return len(s.Units) + len(s.Widgets)
}

// LoadScene loads a scene manifest from YAML.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	s, err := ParseScene(raw)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return s, nil
}

// ParseScene decodes and validates a manifest.
func ParseScene(raw []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	s.names = make(map[string]struct{}, s.Count())
	add := func(name string) error {
		if name == "" {
			return nil
		}
		if _, dup := s.names[name]; dup {
			return fmt.Errorf("duplicate name %q", name)
		}
		s.names[name] = struct{}{}
		return nil
	}
	for _, u := range s.Units {
		if err := add(u.Name); err != nil {
			return nil, err
		}
	}
	for _, w := range s.Widgets {
		if err := add(w.Name); err != nil {
			return nil, err
		}
		if (w.Button == nil) == (w.Label == nil) {
			return nil, fmt.Errorf("widget %q: need exactly one of button, label", w.Name)
		}
	}
	for _, w := range s.Widgets {
		if w.Button == nil {
			continue
		}
		for _, l := range w.Button.Listeners {
			if !s.Has(l) {
				return nil, fmt.Errorf("widget %q: unknown listener %q", w.Name, l)
			}
		}
	}
	return &s, nil
}
