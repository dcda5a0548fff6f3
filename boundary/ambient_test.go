package boundary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithResolutionContextRestoresOnReturn(t *testing.T) {
	require.Nil(t, Ambient())

	loader, err := New(NewRegistry())
	require.NoError(t, err)

	var seen Resolver
	err = WithResolutionContext(loader, func() error {
		seen = Ambient()
		return nil
	})
	require.NoError(t, err)
	require.Same(t, loader, seen)
	require.Nil(t, Ambient())
}

func TestWithResolutionContextRestoresOnError(t *testing.T) {
	loader, err := New(NewRegistry())
	require.NoError(t, err)

	wantErr := errors.New("vendor failure")
	err = WithResolutionContext(loader, func() error { return wantErr })
	require.ErrorIs(t, err, wantErr)
	require.Nil(t, Ambient())
}

func TestWithResolutionContextRestoresOnPanic(t *testing.T) {
	loader, err := New(NewRegistry())
	require.NoError(t, err)

	require.Panics(t, func() {
		_ = WithResolutionContext(loader, func() error { panic("vendor panic") })
	})
	require.Nil(t, Ambient())
}

func TestWithResolutionContextRestoresPreviousResolver(t *testing.T) {
	outer, err := New(NewRegistry())
	require.NoError(t, err)
	inner, err := New(NewRegistry())
	require.NoError(t, err)

	err = WithResolutionContext(outer, func() error {
		err := WithResolutionContext(inner, func() error {
			require.Same(t, inner, Ambient())
			return nil
		})
		require.NoError(t, err)
		require.Same(t, outer, Ambient())
		return nil
	})
	require.NoError(t, err)
	require.Nil(t, Ambient())
}

func TestFromContextPrefersExplicitValue(t *testing.T) {
	loader, err := New(NewRegistry())
	require.NoError(t, err)

	ctx := NewContext(context.Background(), loader)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Same(t, loader, got)

	_, ok = FromContext(context.Background())
	require.False(t, ok)

	other, err := New(NewRegistry())
	require.NoError(t, err)
	_ = WithResolutionContext(other, func() error {
		ambient, ok := FromContext(context.Background())
		require.True(t, ok)
		require.Same(t, other, ambient)
		return nil
	})
}
