package resource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap/zaptest"
)

func TestHandleRefCounting(t *testing.T) {
	released := 0
	h := NewHandle("asset", func(string) { released++ })
	if !h.Valid() || h.Get() != "asset" || h.Refs() != 1 {
		t.Fatal("new handle not valid")
	}

	other := h.Retain()
	if h.Refs() != 2 {
		t.Fatalf("Refs = %d after Retain", h.Refs())
	}
	h.Release()
	if h.Valid() {
		t.Fatal("released handle still valid")
	}
	if released != 0 || !other.Valid() {
		t.Fatal("asset released while a reference remained")
	}
	other.Release()
	if released != 1 {
		t.Fatalf("release ran %d times, want 1", released)
	}
	other.Release()
	if released != 1 {
		t.Fatal("double Release ran the release func again")
	}
}

func TestZeroHandleInvalid(t *testing.T) {
	var h Handle[int]
	if h.Valid() || h.Get() != 0 || h.Retain().Valid() {
		t.Fatal("zero handle reports valid")
	}
	h.Release()
}

func TestCacheSharesAndFailsWithoutCaching(t *testing.T) {
	loads := 0
	fail := true
	c := NewCache("thing", Loader[int]{Load: func(path string) (int, error) {
		loads++
		if fail {
			return 0, errors.New("disk on fire")
		}
		return len(path), nil
	}}, zaptest.NewLogger(t))

	h, err := c.Load("abc")
	if err == nil || h.Valid() {
		t.Fatal("failed load returned a valid handle")
	}
	if c.Len() != 0 {
		t.Fatal("failed load was cached")
	}

	fail = false
	a, err := c.Load("abc")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Load("abc")
	if loads != 2 {
		t.Fatalf("loader ran %d times, want 2", loads)
	}
	if a.Get() != 3 || a.Refs() != 3 {
		t.Fatalf("Get = %d Refs = %d", a.Get(), a.Refs())
	}

	c.Purge("abc")
	if !b.Valid() {
		t.Fatal("purge invalidated a caller's handle")
	}
	a.Release()
	b.Release()
	if _, err := c.Load(""); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("empty path err = %v", err)
	}
}

func TestManagerLoadsAssets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hero.txt"), []byte("# hero\n o \n/|\\\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeWAV(t, filepath.Join(dir, "theme.wav"))

	m := NewManager(dir, zaptest.NewLogger(t))
	defer m.Close()

	tex, err := m.Texture("hero.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer tex.Release()
	w, h := tex.Get().Image.Size()
	if w != 3 || h != 2 {
		t.Fatalf("texture size %dx%d, want 3x2", w, h)
	}

	song, err := m.Song("theme.wav")
	if err != nil {
		t.Fatal(err)
	}
	if song.Get().Format.SampleRate != beep.SampleRate(8000) {
		t.Fatalf("sample rate = %d", song.Get().Format.SampleRate)
	}
	song.Release()

	if _, err := m.Song("theme.mp3"); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("mp3 err = %v", err)
	}
	if missing, err := m.Font("missing.ttf"); err == nil || missing.Valid() {
		t.Fatal("missing font produced a valid handle")
	}
	raw, err := m.File("hero.txt")
	if err != nil || len(raw.Get()) == 0 {
		t.Fatalf("File = %v", err)
	}
	raw.Release()
}

func writeWAV(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Silence(800), format); err != nil {
		t.Fatal(err)
	}
}
