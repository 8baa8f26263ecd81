package assets

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watcher records which loaded files changed on disk. It watches parent
// directories so editors that replace files by rename are still noticed.
type watcher struct {
	fs  *fsnotify.Watcher
	log *zap.Logger

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	changed map[string]bool

	done chan struct{}
	wg   sync.WaitGroup
}

// Watch starts reloading textures when their files change. Changes are
// applied by Poll.
func (m *Manager) Watch() error {
	if m.watcher != nil {
		return nil
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w := &watcher{
		fs:      fs,
		log:     m.log.Named("watch"),
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		changed: make(map[string]bool),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()

	m.mu.RLock()
	for _, path := range m.paths {
		w.watch(path)
	}
	m.mu.RUnlock()

	m.watcher = w
	return nil
}

func (w *watcher) watch(path string) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = true
	if w.dirs[dir] {
		return
	}
	if err := w.fs.Add(dir); err != nil {
		w.log.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.dirs[dir] = true
}

func (w *watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(e.Name)
			w.mu.Lock()
			if w.files[path] {
				w.changed[path] = true
			}
			w.mu.Unlock()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// drain returns and forgets the changed paths.
func (w *watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.changed))
	for path := range w.changed {
		out = append(out, path)
	}
	clear(w.changed)
	return out
}

func (w *watcher) close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
