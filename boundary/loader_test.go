package boundary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func staticOpener(tables map[string]Exports) Opener {
	return func(path string) (Exports, error) {
		table, ok := tables[filepath.Base(path)]
		if !ok {
			return nil, errors.New("unreadable artifact")
		}
		return table, nil
	}
}

func constructorReturning(value string) Constructor {
	return func() (any, error) { return value, nil }
}

func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("artifact"), 0o644))
	return path
}

func TestLoaderSharedNamesResolveThroughParentOnly(t *testing.T) {
	parent := NewRegistry()
	require.NoError(t, parent.Register("classic.jms.Message", constructorReturning("host")))

	dir := t.TempDir()
	writeArtifact(t, dir, "vendor.so")

	// The artifact bundles its own copy of the shared-API name.
	loader, err := New(parent,
		WithArtifactDir(dir),
		WithOpener(staticOpener(map[string]Exports{
			"vendor.so": {
				"classic.jms.Message":    constructorReturning("bundled"),
				"vendor.ConnectionImpl": constructorReturning("vendor"),
			},
		})),
	)
	require.NoError(t, err)

	inside, err := Resolve(loader, "classic.jms.Message")
	require.NoError(t, err)
	outside, err := Resolve(parent, "classic.jms.Message")
	require.NoError(t, err)
	require.Equal(t, outside, inside, "shared-API name must keep one identity across the boundary")
	require.Equal(t, "host", inside)

	vendor, err := Resolve(loader, "vendor.ConnectionImpl")
	require.NoError(t, err)
	require.Equal(t, "vendor", vendor)
}

func TestLoaderSearchOrderOwnArtifactsBeforeParent(t *testing.T) {
	parent := NewRegistry()
	require.NoError(t, parent.Register("vendor.Factory", constructorReturning("parent")))
	require.NoError(t, parent.Register("host.Helper", constructorReturning("helper")))

	dir := t.TempDir()
	writeArtifact(t, dir, "vendor.so")

	loader, err := New(parent,
		WithArtifactDir(dir),
		WithOpener(staticOpener(map[string]Exports{
			"vendor.so": {"vendor.Factory": constructorReturning("artifact")},
		})),
	)
	require.NoError(t, err)

	fromArtifact, err := Resolve(loader, "vendor.Factory")
	require.NoError(t, err)
	require.Equal(t, "artifact", fromArtifact)

	delegated, err := Resolve(loader, "host.Helper")
	require.NoError(t, err)
	require.Equal(t, "helper", delegated)

	_, err = loader.Lookup("vendor.Missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoaderFirstArtifactWins(t *testing.T) {
	dir := t.TempDir()
	first := writeArtifact(t, dir, "a.so")
	second := writeArtifact(t, dir, "b.so")

	loader, err := New(nil,
		WithArtifacts(first, second),
		WithOpener(staticOpener(map[string]Exports{
			"a.so": {"vendor.Factory": constructorReturning("first")},
			"b.so": {"vendor.Factory": constructorReturning("second")},
		})),
	)
	require.NoError(t, err)

	got, err := Resolve(loader, "vendor.Factory")
	require.NoError(t, err)
	require.Equal(t, "first", got)
}

func TestLoaderWithoutArtifactsIsTransparent(t *testing.T) {
	parent := NewRegistry()
	require.NoError(t, parent.Register("vendor.Factory", constructorReturning("parent")))

	loader, err := New(parent)
	require.NoError(t, err)

	got, err := Resolve(loader, "vendor.Factory")
	require.NoError(t, err)
	require.Equal(t, "parent", got)
	require.Empty(t, loader.Artifacts())
}

func TestLoaderSkipsUnreadableArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "good.so")
	writeArtifact(t, dir, "broken.so")

	loader, err := New(nil,
		WithArtifactDir(dir),
		WithLogger(zerolog.Nop()),
		WithOpener(staticOpener(map[string]Exports{
			"good.so": {"vendor.Factory": constructorReturning("good")},
		})),
	)
	require.NoError(t, err, "an unreadable artifact must not fail construction")

	got, err := Resolve(loader, "vendor.Factory")
	require.NoError(t, err)
	require.Equal(t, "good", got)
}

func TestLoaderFailsWhenDirectoryCannotBeScanned(t *testing.T) {
	_, err := New(nil, WithArtifactDir(filepath.Join(t.TempDir(), "does-not-exist")))
	require.Error(t, err)
}

func TestLoaderChainListsArtifactsPerLevel(t *testing.T) {
	parent := NewRegistry()
	dir := t.TempDir()
	path := writeArtifact(t, dir, "vendor.so")

	loader, err := New(parent,
		WithArtifacts(path),
		WithOpener(staticOpener(map[string]Exports{"vendor.so": {}})),
	)
	require.NoError(t, err)

	chain := loader.Chain()
	require.Contains(t, chain, path)
	require.Contains(t, chain, "host registry")
}

func TestSharedName(t *testing.T) {
	require.True(t, SharedName("classic.jms.Message"))
	require.True(t, SharedName("modern.jms.Connection"))
	require.False(t, SharedName("vendor.ConnectionFactory"))
	require.False(t, SharedName("classic.naming.InitialContext"))
}
