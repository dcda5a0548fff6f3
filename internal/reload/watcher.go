// Package reload detects changes to the host configuration file and the
// provider artifact set between polls.
package reload

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher keeps a snapshot of the watched files and reports modifications.
type Watcher struct {
	mu    sync.Mutex
	files map[string]fileState
}

// NewWatcher snapshots the configuration file plus every regular file found
// under the artifact directory. An empty artifact directory path watches the
// configuration file only.
func NewWatcher(cfgPath, artifactDir string) (*Watcher, error) {
	watcher := &Watcher{}
	if err := watcher.Update(cfgPath, artifactDir); err != nil {
		return nil, err
	}
	return watcher, nil
}

// Update rebuilds the snapshot from the current state of the watched files.
func (w *Watcher) Update(cfgPath, artifactDir string) error {
	if w == nil {
		return nil
	}
	paths := make([]string, 0, 8)
	if cfgPath != "" {
		if abs, err := filepath.Abs(cfgPath); err == nil {
			paths = append(paths, abs)
		}
	}
	if artifactDir != "" {
		err := filepath.WalkDir(artifactDir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if entry.Type().IsRegular() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	states := make(map[string]fileState, len(paths))
	for _, path := range uniquePaths(paths) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}
		states[path] = fileState{modTime: info.ModTime(), size: info.Size()}
	}
	w.mu.Lock()
	w.files = states
	w.mu.Unlock()
	return nil
}

// Check reports the files that changed or disappeared since the last
// snapshot.
func (w *Watcher) Check() ([]string, error) {
	if w == nil {
		return nil, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := make([]string, 0)
	for path, state := range w.files {
		info, err := os.Stat(path)
		if err != nil {
			changed = append(changed, path)
			continue
		}
		if info.IsDir() {
			continue
		}
		if info.ModTime().After(state.modTime) || info.Size() != state.size {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

func uniquePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		result = append(result, path)
	}
	return result
}
