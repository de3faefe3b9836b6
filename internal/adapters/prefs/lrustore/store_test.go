package lrustore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestStore_GetSetRemove(t *testing.T) {
	s, err := New(8)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "u1/background")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "u1/background", "bg-forest"))
	v, ok, err := s.Get(ctx, "u1/background")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bg-forest", v)

	require.NoError(t, s.Remove(ctx, "u1/background"))
	_, ok, _ = s.Get(ctx, "u1/background")
	assert.False(t, ok)

	// borrar algo que no existe no falla
	assert.NoError(t, s.Remove(ctx, "nope"))
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	_, _, _ = s.Get(ctx, "a")
	require.NoError(t, s.Set(ctx, "c", "3"))

	_, ok, _ := s.Get(ctx, "b")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s, err := New(1024)
	require.NoError(t, err)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		key := fmt.Sprintf("u%d/background", i)
		g.Go(func() error {
			if err := s.Set(ctx, key, "bg-room"); err != nil {
				return err
			}
			_, _, err := s.Get(ctx, key)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 32, s.Len())
}

func TestNew_RejectsBadSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}
