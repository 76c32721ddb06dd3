package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCamera(t *testing.T) {
	cam := DefaultCamera()
	assert.Equal(t, 120.0, cam.FOV)
	assert.Equal(t, 1000.0, cam.ViewDistance)
	assert.False(t, cam.Radians)
	assert.NoError(t, cam.Validate())
}

func TestCamera_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Camera)
	}{
		{"zero fov", func(c *Camera) { c.FOV = 0 }},
		{"negative fov", func(c *Camera) { c.FOV = -10 }},
		{"NaN fov", func(c *Camera) { c.FOV = math.NaN() }},
		{"zero view distance", func(c *Camera) { c.ViewDistance = 0 }},
		{"infinite view distance", func(c *Camera) { c.ViewDistance = math.Inf(1) }},
		{"non-finite position", func(c *Camera) { c.Position = core.NewVec3(math.NaN(), 0, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := DefaultCamera()
			tt.modify(&cam)
			assert.ErrorIs(t, cam.Validate(), core.ErrInvalidArgument)
		})
	}
}

func TestCamera_Ray(t *testing.T) {
	cam := Camera{FOV: 90, ViewDistance: 10}

	// Top row looks 45 degrees up, third column straight ahead
	ray := cam.Ray(4, 4, 1, 2, 0)
	s := 10 * math.Sqrt2 / 2
	assert.True(t, ray.B.Equals(core.NewVec3(s, s, 0), 1e-9), "got %v", ray.B)
	assert.Equal(t, core.Vec3{}, ray.A)

	// Row 2 is level, column 0 turns 45 degrees towards +z
	ray = cam.Ray(4, 4, 1, 0, 2)
	assert.True(t, ray.B.Equals(core.NewVec3(s, 0, s), 1e-9), "got %v", ray.B)
}

func TestCamera_RayLengthIsViewDistance(t *testing.T) {
	cam := Camera{AngleX: 10, AngleY: 33, FOV: 80, ViewDistance: 50}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			ray := cam.Ray(8, 8, 1, col, row)
			assert.InDelta(t, 50.0, ray.Length(), 1e-9)
		}
	}
}

func TestCamera_RadiansFlag(t *testing.T) {
	degrees := Camera{AngleX: 30, AngleY: 60, FOV: 90, ViewDistance: 10}
	radians := Camera{AngleX: math.Pi / 6, AngleY: math.Pi / 3, FOV: math.Pi / 2, ViewDistance: 10, Radians: true}

	for _, rc := range [][2]int{{0, 0}, {1, 3}, {3, 2}} {
		a := degrees.Ray(4, 4, 1, rc[0], rc[1])
		b := radians.Ray(4, 4, 1, rc[0], rc[1])
		assert.True(t, a.B.Equals(b.B, 1e-9), "col %d row %d: %v vs %v", rc[0], rc[1], a.B, b.B)
	}
}

func TestCamera_RayAboveViewDistance(t *testing.T) {
	// The row height is measured against the camera height, which can exceed
	// the view distance; the horizontal part collapses instead of going NaN
	cam := Camera{Position: core.NewVec3(0, 100, 0), FOV: 90, ViewDistance: 10}
	ray := cam.Ray(4, 4, 1, 1, 1)
	assert.True(t, ray.B.IsFinite())
	assert.Zero(t, ray.B.X)
	assert.Zero(t, ray.B.Z)
}
