package reload

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"
)

func TestUniquePathsFiltersDuplicatesAndEmptyValues(t *testing.T) {
	paths := []string{"", "/tmp/a", "/tmp/b", "/tmp/a", "/tmp/c", "/tmp/b"}
	got := uniquePaths(paths)
	want := []string{"/tmp/a", "/tmp/b", "/tmp/c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("uniquePaths() = %v, want %v", got, want)
	}
}

func TestWatcherUpdateIncludesConfigAndArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	libsDir := filepath.Join(dir, "libs")
	if err := os.Mkdir(libsDir, 0o755); err != nil {
		t.Fatalf("Mkdir(%s) error = %v", libsDir, err)
	}
	artifactA := filepath.Join(libsDir, "provider-a.so")
	artifactB := filepath.Join(libsDir, "provider-b.so")

	writeFile(t, cfgFile, "config")
	writeFile(t, artifactA, "a")
	writeFile(t, artifactB, "b")

	var watcher Watcher
	if err := watcher.Update(cfgFile, libsDir); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(watcher.files) != 3 {
		t.Fatalf("expected 3 tracked files, got %d", len(watcher.files))
	}
	for _, path := range []string{artifactA, artifactB} {
		if _, ok := watcher.files[path]; !ok {
			t.Fatalf("artifact %s not tracked", path)
		}
	}
}

func TestWatcherUpdateSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.yaml")

	var watcher Watcher
	if err := watcher.Update(missing, ""); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(watcher.files) != 0 {
		t.Fatalf("expected 0 tracked files, got %d", len(watcher.files))
	}
}

func TestWatcherCheckDetectsChangesAndRemovals(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	libsDir := filepath.Join(dir, "libs")
	if err := os.Mkdir(libsDir, 0o755); err != nil {
		t.Fatalf("Mkdir(%s) error = %v", libsDir, err)
	}
	artifact := filepath.Join(libsDir, "provider.so")
	writeFile(t, cfgFile, "first")
	writeFile(t, artifact, "second")

	watcher, err := NewWatcher(cfgFile, libsDir)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	if changed, err := watcher.Check(); err != nil {
		t.Fatalf("Check() error = %v", err)
	} else if len(changed) != 0 {
		t.Fatalf("expected no changes on first check, got %v", changed)
	}

	time.Sleep(10 * time.Millisecond)
	writeFile(t, cfgFile, "first-UPDATED")
	if err := os.Remove(artifact); err != nil {
		t.Fatalf("Remove(%s) error = %v", artifact, err)
	}

	changed, err := watcher.Check()
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	sort.Strings(changed)
	expected := []string{cfgFile, artifact}
	sort.Strings(expected)
	if !reflect.DeepEqual(changed, expected) {
		t.Fatalf("Check() = %v, want %v", changed, expected)
	}
}

func TestWatcherHandlesNilReceiver(t *testing.T) {
	var watcher *Watcher
	if err := watcher.Update("", ""); err != nil {
		t.Fatalf("nil watcher Update() error = %v", err)
	}
	if changed, err := watcher.Check(); err != nil {
		t.Fatalf("nil watcher Check() error = %v", err)
	} else if changed != nil {
		t.Fatalf("expected nil slice from nil watcher, got %v", changed)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}
