package platform

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/kagami-vn/engine/internal/resource"
)

var ErrNoStream = errors.New("platform: music has no stream")

// Audio mixes every playing track into one output. Without Open it mixes
// silently, which is what headless runs and tests use.
type Audio struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	opened bool
	log    *zap.Logger
}

func NewAudio(rate int, log *zap.Logger) *Audio {
	if rate <= 0 {
		rate = 44100
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Audio{rate: beep.SampleRate(rate), mixer: &beep.Mixer{}, log: log}
}

// Open starts the speaker with a 100ms buffer and plays the mixer into it.
func (a *Audio) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.opened {
		return nil
	}
	if err := speaker.Init(a.rate, a.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(a.mixer)
	a.opened = true
	a.log.Info("audio opened", zap.Int("sample_rate", int(a.rate)))
	return nil
}

// Play rewinds m and adds it to the mix, resampled to the output rate.
// The returned Ctrl pauses or resumes the track.
func (a *Audio) Play(m resource.Music, loop bool) (*beep.Ctrl, error) {
	if m.Stream == nil {
		return nil, ErrNoStream
	}
	a.lock()
	defer a.unlock()
	if err := m.Stream.Seek(0); err != nil {
		return nil, err
	}
	var s beep.Streamer = m.Stream
	if loop {
		s = beep.Loop(-1, m.Stream)
	}
	if m.Format.SampleRate != 0 && m.Format.SampleRate != a.rate {
		s = beep.Resample(4, m.Format.SampleRate, a.rate, s)
	}
	ctrl := &beep.Ctrl{Streamer: s}
	a.mixer.Add(ctrl)
	a.log.Debug("track started", zap.String("path", m.Path), zap.Bool("loop", loop))
	return ctrl, nil
}

// Playing is the number of tracks still in the mix.
func (a *Audio) Playing() int {
	a.lock()
	defer a.unlock()
	return a.mixer.Len()
}

// Mixer exposes the mix for headless streaming.
func (a *Audio) Mixer() beep.Streamer { return a.mixer }

func (a *Audio) Stop() {
	a.lock()
	defer a.unlock()
	a.mixer.Clear()
}

func (a *Audio) Close() {
	a.Stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.opened {
		speaker.Close()
		a.opened = false
	}
}

// lock guards the mixer against the speaker goroutine once it is running.
func (a *Audio) lock() {
	a.mu.Lock()
	if a.opened {
		speaker.Lock()
	}
}

func (a *Audio) unlock() {
	if a.opened {
		speaker.Unlock()
	}
	a.mu.Unlock()
}
