package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of catalog file change detected
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // catalog file written or created
	ChangeRemoved                    // catalog file deleted or renamed away
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// CatalogChange is a debounced change to one catalog file
type CatalogChange struct {
	Kind ChangeKind
	Name string // catalog id, the file name without extension
	File string
	Err  error // validation error of the new contents, if any
}

// Watcher monitors the catalog directory and drops changed catalogs from the
// manager cache so the next session picks up the new levels
type Watcher struct {
	Changes <-chan CatalogChange

	manager *Manager
	changes chan CatalogChange
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the manager's catalog directory
func NewWatcher(m *Manager) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan CatalogChange, 16)
	return &Watcher{
		Changes: ch,
		manager: m,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching the catalog directory
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.manager.Dir()); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Editors write a file in several steps; wait for it to settle
	const debounce = 100 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.emitChange(file)
				}
				return
			}

			if !IsCatalogFile(event.Name) || strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.emitChange(file)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal
		}
	}
}

func (w *Watcher) emitChange(file string) {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	w.manager.Invalidate(name)

	change := CatalogChange{Kind: ChangeModified, Name: name, File: file}
	if _, err := ReadCatalogFile(file); err != nil {
		if err == ErrCatalogNotFound {
			change.Kind = ChangeRemoved
		} else {
			change.Err = err
		}
	}

	if name == BuiltinCatalog {
		_ = w.manager.RefreshCache()
	}

	select {
	case w.changes <- change:
	default:
		// Nobody is listening; the cache is already invalidated
	}
}
