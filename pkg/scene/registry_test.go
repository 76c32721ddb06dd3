package scene

import (
	"fmt"
	"image"
	"testing"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures formatted log lines
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func wall(img any, temporary bool) SurfaceConfig {
	return SurfaceConfig{
		Image:     img,
		A:         core.NewVec3(1, 1, -1),
		B:         core.NewVec3(1, -1, 1),
		Temporary: temporary,
	}
}

func newTexture(t *testing.T) *pixel.Shared {
	t.Helper()
	shared, err := pixel.NewSolid(2, 2, pixel.RGBA8{R: 255, A: 255})
	require.NoError(t, err)
	return shared
}

func TestRegistry_Add(t *testing.T) {
	reg := NewRegistry(nil)
	tex := newTexture(t)

	id, err := reg.Add(wall(tex, false))
	require.NoError(t, err)

	s, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, s.ID())
	assert.Equal(t, core.NewVec3(1, -1, -1), s.BasisCorner(), "default basis corner")
	assert.Equal(t, core.NewVec3(4, 0, 0), s.Plane().Normal)
	assert.False(t, s.PendingRemoval())
	assert.Equal(t, 2, s.View().Width())
	assert.Equal(t, 1, tex.Refs())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_AddExplicitBasisCorner(t *testing.T) {
	reg := NewRegistry(nil)
	c := core.NewVec3(1, 1, 1)
	cfg := wall(newTexture(t), false)
	cfg.C = &c

	id, err := reg.Add(cfg)
	require.NoError(t, err)
	s, _ := reg.Get(id)
	assert.Equal(t, c, s.BasisCorner())
}

func TestRegistry_AddInvalidSurface(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Add(wall(image.NewGray(image.Rect(0, 0, 1, 1)), false))
	assert.ErrorIs(t, err, core.ErrInvalidSurface)
	assert.Zero(t, reg.Len())
}

func TestRegistry_AddDegenerateIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	reg := NewRegistry(logger)

	// Horizontal rectangle with the default third corner: C == A
	_, err := reg.Add(SurfaceConfig{
		Image: newTexture(t),
		A:     core.NewVec3(-1, 0, -1),
		B:     core.NewVec3(1, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], core.ErrDegenerateGeometry.Error())
}

func TestRegistry_AddSmallSurfaceIsNotLogged(t *testing.T) {
	logger := &recordingLogger{}
	reg := NewRegistry(logger)

	id, err := reg.Add(SurfaceConfig{
		Image: newTexture(t),
		A:     core.NewVec3(1, 0.01, -0.01),
		B:     core.NewVec3(1, -0.01, 0.01),
	})
	require.NoError(t, err)

	s, _ := reg.Get(id)
	assert.False(t, s.Plane().Degenerate())
	assert.Empty(t, logger.lines)
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry(nil)
	tex := newTexture(t)
	for i := 0; i < 3; i++ {
		_, err := reg.Add(wall(tex, i%2 == 0))
		require.NoError(t, err)
	}
	require.Equal(t, 3, tex.Refs())

	reg.Clear()

	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.Surfaces())
	assert.Zero(t, tex.Refs())
}

func TestRegistry_SweepRemovesOnlyTemporary(t *testing.T) {
	reg := NewRegistry(nil)
	persistentTex := newTexture(t)
	temporaryTex := newTexture(t)

	var persistent []SurfaceID
	for i := 0; i < 5; i++ {
		// Interleave persistent and temporary surfaces
		id, err := reg.Add(wall(persistentTex, false))
		require.NoError(t, err)
		persistent = append(persistent, id)
		if i < 3 {
			_, err = reg.Add(wall(temporaryTex, true))
			require.NoError(t, err)
		}
	}
	require.Equal(t, 8, reg.Len())

	removed := reg.Sweep()

	assert.Equal(t, 3, removed)
	assert.Equal(t, 5, reg.Len())
	assert.Zero(t, temporaryTex.Refs())
	assert.Equal(t, 5, persistentTex.Refs())

	var remaining []SurfaceID
	for _, s := range reg.Surfaces() {
		remaining = append(remaining, s.ID())
	}
	assert.Equal(t, persistent, remaining, "relative order is preserved")

	// Lookups still work after compaction
	for _, id := range persistent {
		s, ok := reg.Get(id)
		require.True(t, ok)
		assert.Equal(t, id, s.ID())
	}
}

func TestRegistry_RemoveAndMark(t *testing.T) {
	reg := NewRegistry(nil)
	tex := newTexture(t)
	a, _ := reg.Add(wall(tex, false))
	b, _ := reg.Add(wall(tex, false))
	c, _ := reg.Add(wall(tex, false))

	assert.True(t, reg.Remove(b))
	assert.False(t, reg.Remove(b), "second remove is a no-op")
	assert.Equal(t, 2, tex.Refs(), "removal releases immediately")
	assert.Equal(t, 2, reg.Len())

	assert.True(t, reg.MarkForRemoval(a))
	assert.False(t, reg.MarkForRemoval(b))
	assert.Equal(t, 1, reg.Sweep())

	surfaces := reg.Surfaces()
	require.Len(t, surfaces, 1)
	assert.Equal(t, c, surfaces[0].ID())
	assert.Equal(t, 1, tex.Refs())

	_, ok := reg.Get(a)
	assert.False(t, ok)
}

func TestRegistry_IDsAreNotReused(t *testing.T) {
	reg := NewRegistry(nil)
	tex := newTexture(t)
	a, _ := reg.Add(wall(tex, true))
	reg.Sweep()
	b, _ := reg.Add(wall(tex, true))
	assert.NotEqual(t, a, b)
}
