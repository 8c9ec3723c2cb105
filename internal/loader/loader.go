// Package loader populates the index from directories of JSON item files and
// optionally watches them with fsnotify so edits re-index and deletions
// remove the corresponding item.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/index"
	"github.com/hyperjump/shirabe/internal/models"
)

const defaultDebounce = 400 * time.Millisecond

// Loader reads item files into the index store and tracks which item id each
// file produced, so re-indexing a file replaces its previous item.
type Loader struct {
	store *index.Store

	mu      sync.Mutex
	pathIDs map[string]string // file path -> item id

	watcher     *fsnotify.Watcher
	debounce    time.Duration
	debounceMap map[string]*time.Timer
	done        chan struct{}
	started     bool
	stopOnce    sync.Once
	logger      *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets a logger for debug output (file loaded, removed, etc.).
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// NewLoader creates a loader indexing into store.
func NewLoader(store *index.Store, opts ...LoaderOption) *Loader {
	ld := &Loader{
		store:       store,
		pathIDs:     make(map[string]string),
		debounce:    defaultDebounce,
		debounceMap: make(map[string]*time.Timer),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadDirectory walks dir and indexes every .json file. Returns the number of
// items indexed and the first error encountered.
func (ld *Loader) LoadDirectory(dir string) (int, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	n := 0
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isItemFile(path) {
			return nil
		}
		if loadErr := ld.LoadFile(path); loadErr != nil {
			return loadErr
		}
		n++
		return nil
	})
	return n, err
}

// LoadFile reads one JSON item file and indexes it, replacing any item the
// same file produced earlier.
func (ld *Loader) LoadFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read item file: %w", err)
	}
	var item models.IndexedItem
	if err := json.Unmarshal(data, &item); err != nil {
		return fmt.Errorf("parse item file %s: %w", absPath, err)
	}

	ld.mu.Lock()
	oldID, reload := ld.pathIDs[absPath]
	ld.mu.Unlock()
	if reload {
		ld.store.Remove(oldID)
	}

	stored := ld.store.Add(item)
	ld.mu.Lock()
	ld.pathIDs[absPath] = stored.ID
	ld.mu.Unlock()

	if ld.logger != nil {
		ld.logger.Debug("content file loaded",
			zap.String("path", absPath), zap.String("item_id", stored.ID))
	}
	return nil
}

// removeFile drops the item previously loaded from path, if any.
func (ld *Loader) removeFile(path string) {
	ld.mu.Lock()
	id, ok := ld.pathIDs[path]
	if ok {
		delete(ld.pathIDs, path)
	}
	ld.mu.Unlock()
	if !ok {
		return
	}
	ld.store.Remove(id)
	if ld.logger != nil {
		ld.logger.Debug("content file removed", zap.String("path", path), zap.String("item_id", id))
	}
}

// Watch watches dirs for item file changes until ctx is cancelled or Stop is
// called. Writes and creates re-index the file after a debounce; removes and
// renames drop the item.
func (ld *Loader) Watch(ctx context.Context, dirs []string) error {
	ld.mu.Lock()
	if ld.started {
		ld.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		ld.mu.Unlock()
		return err
	}
	for _, dir := range dirs {
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			continue
		}
		if addErr := watcher.Add(abs); addErr != nil {
			_ = watcher.Close()
			ld.mu.Unlock()
			return fmt.Errorf("watch %s: %w", abs, addErr)
		}
	}
	ld.watcher = watcher
	ld.started = true
	ld.mu.Unlock()

	if ld.logger != nil {
		ld.logger.Debug("content watch started", zap.Strings("dirs", dirs))
	}
	go ld.run(ctx)
	return nil
}

func (ld *Loader) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ld.Stop()
			return
		case <-ld.done:
			return
		case ev, ok := <-ld.watcher.Events:
			if !ok {
				return
			}
			ld.handleEvent(ev)
		case err, ok := <-ld.watcher.Errors:
			if !ok {
				return
			}
			if err != nil && ld.logger != nil {
				ld.logger.Debug("content watch error", zap.Error(err))
			}
		}
	}
}

func (ld *Loader) handleEvent(ev fsnotify.Event) {
	if !isItemFile(ev.Name) {
		return
	}
	switch {
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		// Editors fire bursts of writes; collapse them per path.
		ld.mu.Lock()
		if t, ok := ld.debounceMap[ev.Name]; ok {
			t.Stop()
		}
		path := ev.Name
		ld.debounceMap[path] = time.AfterFunc(ld.debounce, func() {
			if err := ld.LoadFile(path); err != nil && ld.logger != nil {
				ld.logger.Warn("content reload failed", zap.String("path", path), zap.Error(err))
			}
		})
		ld.mu.Unlock()
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		ld.removeFile(ev.Name)
	}
}

// Stop stops watching. Safe to call more than once.
func (ld *Loader) Stop() {
	ld.stopOnce.Do(func() {
		close(ld.done)
		ld.mu.Lock()
		if ld.watcher != nil {
			_ = ld.watcher.Close()
		}
		for _, t := range ld.debounceMap {
			t.Stop()
		}
		ld.mu.Unlock()
	})
}

func isItemFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
