package platform

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Input is the per-frame view of the pointer and keyboard that systems
// read. Edges (pressed, released) hold for exactly one frame.
type Input interface {
	MousePosition() (x, y int)
	MouseDown() bool
	MousePressed() bool
	MouseReleased() bool
	KeyPressed(r rune) bool
}

type inputFrame struct {
	x, y     int
	down     bool
	pressed  bool
	released bool
	keys     map[rune]bool
}

// InputState accumulates tcell events between frames. Events may arrive
// from the pump goroutine while systems read the last snapshot.
type InputState struct {
	mu      sync.Mutex
	pending inputFrame
	frame   inputFrame
}

func NewInputState() *InputState {
	return &InputState{pending: inputFrame{keys: make(map[rune]bool)}}
}

// HandleEvent folds ev into the pending frame. It reports whether ev was an
// input event.
func (s *InputState) HandleEvent(ev tcell.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		s.pending.x, s.pending.y = ev.Position()
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !s.pending.down {
			s.pending.pressed = true
		}
		if !down && s.pending.down {
			s.pending.released = true
		}
		s.pending.down = down
		return true
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyRune:
			s.pending.keys[ev.Rune()] = true
		case tcell.KeyEnter:
			s.pending.keys['\n'] = true
		case tcell.KeyEscape:
			s.pending.keys[0x1b] = true
		case tcell.KeyTab:
			s.pending.keys['\t'] = true
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			s.pending.keys['\b'] = true
		default:
			return false
		}
		return true
	}
	return false
}

// BeginFrame publishes everything received since the previous call and
// clears the edges.
func (s *InputState) BeginFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = s.pending
	s.pending.pressed = false
	s.pending.released = false
	s.pending.keys = make(map[rune]bool)
}

func (s *InputState) MousePosition() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.x, s.frame.y
}

func (s *InputState) MouseDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.down
}

func (s *InputState) MousePressed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.pressed
}

func (s *InputState) MouseReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.released
}

func (s *InputState) KeyPressed(r rune) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.keys[r]
}
