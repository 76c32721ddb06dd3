package pixel

import (
	"testing"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShared_ReferenceCounting(t *testing.T) {
	shared, err := NewSolid(2, 2, RGBA8{R: 200, A: 255})
	require.NoError(t, err)
	assert.Equal(t, 0, shared.Refs())

	a, err := Acquire(shared)
	require.NoError(t, err)
	b, err := Acquire(shared)
	require.NoError(t, err)
	assert.Equal(t, 2, shared.Refs())
	assert.Same(t, shared, a.Owner())

	a.Release()
	a.Release()
	assert.Equal(t, 1, shared.Refs())

	b.Release()
	assert.Equal(t, 0, shared.Refs())
}

func TestShared_NilIsInvalid(t *testing.T) {
	var shared *Shared
	_, err := Acquire(shared)
	assert.ErrorIs(t, err, core.ErrInvalidSurface)
}

func TestNewSolid(t *testing.T) {
	red := RGBA8{R: 255, A: 255}
	shared, err := NewSolid(3, 2, red)
	require.NoError(t, err)

	v, err := shared.PixelView()
	require.NoError(t, err)
	defer v.Release()

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			px, ok := v.At(x, y)
			require.True(t, ok)
			assert.Equal(t, red, px)
		}
	}

	_, err = NewSolid(0, 1, red)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestNewChecker(t *testing.T) {
	white := RGBA8{R: 255, G: 255, B: 255, A: 255}
	black := RGBA8{A: 255}
	shared, err := NewChecker(4, 4, 2, white, black)
	require.NoError(t, err)

	v, err := shared.PixelView()
	require.NoError(t, err)
	defer v.Release()

	tests := []struct {
		x, y     int
		expected RGBA8
	}{
		{0, 0, white},
		{1, 1, white},
		{2, 0, black},
		{0, 2, black},
		{3, 3, white},
	}
	for _, tt := range tests {
		px, _ := v.At(tt.x, tt.y)
		assert.Equal(t, tt.expected, px, "pixel (%d,%d)", tt.x, tt.y)
	}

	_, err = NewChecker(4, 4, 0, white, black)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in       string
		expected RGBA8
		wantErr  bool
	}{
		{"#ff0000", RGBA8{R: 255, A: 255}, false},
		{"#00ff0080", RGBA8{G: 255, A: 128}, false},
		{"#fff", RGBA8{R: 255, G: 255, B: 255, A: 255}, false},
		{"#0f08", RGBA8{G: 255, A: 136}, false},
		{"  #102030 ", RGBA8{R: 0x10, G: 0x20, B: 0x30, A: 255}, false},
		{"#12345", RGBA8{}, true},
		{"#gg0000", RGBA8{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRGBA8_Helpers(t *testing.T) {
	c := RGBA8{R: 1, G: 2, B: 3, A: 255}
	assert.True(t, c.Opaque())
	assert.False(t, c.Transparent())
	assert.False(t, c.IsZero())
	assert.True(t, RGBA8{}.IsZero())
	assert.Equal(t, RGBA8{R: 1, G: 2, B: 3}, c.WithAlpha(0))
	assert.Equal(t, "#010203ff", c.String())
	assert.Equal(t, c, FromBytes([]uint8{1, 2, 3, 255}))
}
