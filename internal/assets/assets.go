// Package assets loads textures from an asset directory, shares them by name
// and reloads them when their files change.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"  // .bmp sprite sheets
	_ "golang.org/x/image/webp" // .webp sprite sheets

	"github.com/Faultbox/quadra/internal/engine/gfx"
	"github.com/Faultbox/quadra/internal/engine/texture" // also registers .tga
)

// ErrNotFound is returned when no texture is loaded under a name.
var ErrNotFound = errors.New("asset not found")

// Manager owns every texture it loads. Textures are keyed by file name, so
// "sprites/player.png" and "player.png" share one handle.
//
// Loading and Poll must run on the render thread; the file watcher only
// records which names changed.
type Manager struct {
	ctx   *gfx.Context
	dir   string
	log   *zap.Logger
	cache *Cache

	mu       sync.RWMutex
	textures map[string]*gfx.Texture
	paths    map[string]string

	watcher *watcher

	keyed     bool
	key       color.RGBA
	tolerance uint8
}

// NewManager creates a manager resolving relative paths against dir.
func NewManager(ctx *gfx.Context, dir string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		ctx:      ctx,
		dir:      dir,
		log:      log,
		cache:    NewCache(),
		textures: make(map[string]*gfx.Texture),
		paths:    make(map[string]string),
	}
}

// Dir returns the asset directory.
func (m *Manager) Dir() string { return m.dir }

// Cache returns the raw file cache.
func (m *Manager) Cache() *Cache { return m.cache }

func (m *Manager) resolve(path string) string {
	if filepath.IsAbs(path) || m.dir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(m.dir, path)
}

// SetColorKey makes pixels within tolerance of key transparent in every
// texture loaded afterwards. Sheets drawn on a magenta background use
// texture.Magenta.
func (m *Manager) SetColorKey(key color.RGBA, tolerance uint8) {
	m.keyed, m.key, m.tolerance = true, key, tolerance
}

// decode turns file contents into a texture, applying the color key.
func (m *Manager) decode(data []byte, name string) (*gfx.Texture, error) {
	if !m.keyed {
		return gfx.NewTextureFromBytes(m.ctx, data, name)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	rgba := texture.ToRGBA(img)
	if n := texture.ApplyColorKey(rgba, m.key, m.tolerance); n > 0 {
		m.log.Debug("color key applied", zap.String("name", name), zap.Int("pixels", n))
	}
	return gfx.NewTextureFromImage(m.ctx, rgba, name)
}

// Load returns the contents of the file at path, reading it at most once.
func (m *Manager) Load(path string) ([]byte, error) {
	full := m.resolve(path)
	if data, ok := m.cache.Get(full); ok {
		return data, nil
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m.cache.Set(full, data)
	return data, nil
}

// LoadTexture loads the image at path, or returns the texture already loaded
// under its file name.
func (m *Manager) LoadTexture(path string) (*gfx.Texture, error) {
	name := filepath.Base(path)

	m.mu.RLock()
	tex, ok := m.textures[name]
	m.mu.RUnlock()
	if ok {
		return tex, nil
	}

	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}
	tex, err = m.decode(data, name)
	if err != nil {
		return nil, fmt.Errorf("loading texture %s: %w", path, err)
	}

	m.mu.Lock()
	m.textures[name] = tex
	m.paths[name] = m.resolve(path)
	m.mu.Unlock()

	m.log.Info("texture loaded",
		zap.String("name", name),
		zap.Uint32("width", tex.Width()),
		zap.Uint32("height", tex.Height()),
	)
	if m.watcher != nil {
		m.watcher.watch(m.resolve(path))
	}
	return tex, nil
}

// Texture returns the texture loaded under name.
func (m *Manager) Texture(name string) (*gfx.Texture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tex, ok := m.textures[name]
	if !ok {
		return nil, fmt.Errorf("texture %q: %w", name, ErrNotFound)
	}
	return tex, nil
}

// MustTexture is like Texture but panics when name is not loaded.
func (m *Manager) MustTexture(name string) *gfx.Texture {
	tex, err := m.Texture(name)
	if err != nil {
		panic(err)
	}
	return tex
}

// TextureOrPlaceholder returns the texture loaded under name, or the
// context's 1×1 white placeholder.
func (m *Manager) TextureOrPlaceholder(name string) *gfx.Texture {
	tex, err := m.Texture(name)
	if err != nil {
		m.log.Warn("using placeholder texture", zap.String("name", name))
		return m.ctx.Placeholder()
	}
	return tex
}

// Names returns the names of all loaded textures.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.textures))
	for name := range m.textures {
		names = append(names, name)
	}
	return names
}

// Reload reads the file behind name again and swaps the new image into the
// existing handle, so every sprite holding it draws the new pixels.
func (m *Manager) Reload(name string) error {
	m.mu.RLock()
	tex, ok := m.textures[name]
	path := m.paths[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("texture %q: %w", name, ErrNotFound)
	}

	m.cache.Delete(path)
	data, err := m.Load(path)
	if err != nil {
		return err
	}
	next, err := m.decode(data, name)
	if err != nil {
		return fmt.Errorf("reloading texture %s: %w", name, err)
	}
	tex.Replace(next)

	m.log.Info("texture reloaded", zap.String("name", name))
	return nil
}

// Poll reloads every texture whose file changed since the last call. It
// returns the number of textures reloaded.
func (m *Manager) Poll() (int, error) {
	if m.watcher == nil {
		return 0, nil
	}
	var errs error
	reloaded := 0
	for _, path := range m.watcher.drain() {
		name := filepath.Base(path)
		if err := m.Reload(name); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		reloaded++
	}
	return reloaded, errs
}

// Close stops watching and destroys every texture.
func (m *Manager) Close() error {
	var err error
	if m.watcher != nil {
		err = m.watcher.close()
		m.watcher = nil
	}

	m.mu.Lock()
	for name, tex := range m.textures {
		tex.Destroy()
		delete(m.textures, name)
	}
	m.paths = make(map[string]string)
	m.mu.Unlock()

	m.cache.Clear()
	return err
}
