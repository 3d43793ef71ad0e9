// Package watch reports changes to scene files on disk.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher sends the path of a changed scene file on Events. Directories are
// watched rather than files so that editors which save by renaming still
// trigger events.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	dirs    map[string]struct{}
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New watches the given paths. A file path reports changes to that file
// only; a directory path reports changes to any YAML file inside it.
func New(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]struct{})
	dirs := make(map[string]struct{})
	added := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		dir := abs
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			dirs[abs] = struct{}{}
		} else {
			files[abs] = struct{}{}
			dir = filepath.Dir(abs)
		}
		if _, ok := added[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		added[dir] = struct{}{}
	}

	watcher := &Watcher{
		watcher: w,
		files:   files,
		dirs:    dirs,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.relevant(name) {
				continue
			}
			now := time.Now()
			if t, ok := last[name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[name] = now
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) relevant(path string) bool {
	if _, ok := w.files[path]; ok {
		return true
	}
	_, ok := w.dirs[filepath.Dir(path)]
	return ok && isSceneFile(path)
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
