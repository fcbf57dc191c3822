package resource

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"github.com/kagami-vn/engine/internal/core/render"
)

// Texture is a decoded text sprite.
type Texture struct {
	Path  string
	Image *render.Canvas
}

// Font is an opaque font blob. The core stores and copies it; only the
// presentation backend would interpret the bytes.
type Font struct {
	Path string
	Data []byte
}

// Music is an open audio stream and its format.
type Music struct {
	Path   string
	Stream beep.StreamSeekCloser
	Format beep.Format
}

// LoadFile reads a file into memory.
func LoadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadTexture reads a text sprite: each line of the file is a row of cells,
// spaces are transparent. Lines starting with "#" are comments.
func LoadTexture(path string) (Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Texture{}, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return Texture{}, err
	}
	if len(lines) == 0 {
		return Texture{}, fmt.Errorf("%s: %w", path, ErrNotLoaded)
	}
	return Texture{Path: path, Image: render.FromLines(lines, render.White)}, nil
}

func LoadFont(path string) (Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Font{}, err
	}
	return Font{Path: path, Data: data}, nil
}

// LoadMusic opens a WAV file as a seekable stream.
func LoadMusic(path string) (Music, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".wav" {
		return Music{}, fmt.Errorf("unsupported audio format %q: %w", ext, ErrNotLoaded)
	}
	f, err := os.Open(path)
	if err != nil {
		return Music{}, err
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return Music{}, err
	}
	return Music{Path: path, Stream: stream, Format: format}, nil
}

// Manager bundles one cache per asset kind, rooted at a base directory.
type Manager struct {
	root     string
	Textures *Cache[Texture]
	Fonts    *Cache[Font]
	Music    *Cache[Music]
	Files    *Cache[[]byte]
}

func NewManager(root string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		root:     root,
		Textures: NewCache("texture", Loader[Texture]{Load: LoadTexture}, log),
		Fonts:    NewCache("font", Loader[Font]{Load: LoadFont}, log),
		Music: NewCache("music", Loader[Music]{
			Load: LoadMusic,
			Release: func(m Music) {
				if err := m.Stream.Close(); err != nil {
					log.Warn("close music stream", zap.String("path", m.Path), zap.Error(err))
				}
			},
		}, log),
		Files: NewCache("file", Loader[[]byte]{Load: LoadFile}, log),
	}
}

// Path resolves name against the manager root.
func (m *Manager) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.root, name)
}

// Texture loads a texture by name relative to the root.
func (m *Manager) Texture(name string) (Handle[Texture], error) {
	return m.Textures.Load(m.Path(name))
}

func (m *Manager) Font(name string) (Handle[Font], error) {
	return m.Fonts.Load(m.Path(name))
}

func (m *Manager) Song(name string) (Handle[Music], error) {
	return m.Music.Load(m.Path(name))
}

func (m *Manager) File(name string) (Handle[[]byte], error) {
	return m.Files.Load(m.Path(name))
}

// Close drops every cached reference.
func (m *Manager) Close() {
	m.Textures.PurgeAll()
	m.Fonts.PurgeAll()
	m.Music.PurgeAll()
	m.Files.PurgeAll()
}
