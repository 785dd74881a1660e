package issuer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/zkattest/zkattest/pkg/credential"
)

// Registry maps subject ids to their attribute values. It is backed by a
// JSON file ({"alice": 25, "bob": 17}) and can hot-reload when the file
// changes, so operators can add subjects without restarting the issuer.
//
// Registry is safe for concurrent use. Lookups during a reload see either
// the old or the new snapshot, never a partial one.
type Registry struct {
	path string

	mu       sync.RWMutex
	subjects map[string]uint64

	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry loads the registry file at path.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{
		path: path,
		done: make(chan struct{}),
	}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// reload reads and swaps the subject snapshot.
func (r *Registry) reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}

	subjects := make(map[string]uint64)
	if err := json.Unmarshal(data, &subjects); err != nil {
		return fmt.Errorf("parse registry: %w", err)
	}
	for id, attr := range subjects {
		if err := credential.CheckAttributeRange(attr); err != nil {
			return fmt.Errorf("subject %q: %w", id, err)
		}
	}

	r.mu.Lock()
	r.subjects = subjects
	r.mu.Unlock()
	return nil
}

// Lookup returns the attribute value for a subject id.
func (r *Registry) Lookup(subjectID string) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	attr, ok := r.subjects[subjectID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrSubjectNotFound, subjectID)
	}
	return attr, nil
}

// Len returns the number of registered subjects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subjects)
}

// Watch reloads the registry whenever its file is rewritten. It watches
// the parent directory because editors and atomic-write tools replace the
// file rather than writing in place. Returns after the watcher is armed;
// reloading continues in the background until Close.
func (r *Registry) Watch() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(r.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watch registry dir: %w", err)
	}

	go func() {
		defer fsw.Close()
		for {
			select {
			case <-r.done:
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(r.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := r.reload(); err != nil {
					// Keep serving the previous snapshot.
					slog.Warn("registry reload failed", "path", r.path, "error", err)
					continue
				}
				slog.Info("registry reloaded", "path", r.path, "subjects", r.Len())
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				slog.Warn("registry watcher error", "error", err)
			}
		}
	}()
	return nil
}

// Close stops a running watcher. Safe to call when Watch was never started
// and safe for concurrent callers.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}
