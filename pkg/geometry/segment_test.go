package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinePlaneIntersection(t *testing.T) {
	planePoint := core.NewVec3(0, 0, 0)
	planeNormal := core.NewVec3(0, 1, 0)
	origin := core.NewVec3(0, 5, 0)

	tests := []struct {
		name      string
		direction core.Vec3
		expectHit bool
		expected  core.Vec3
	}{
		{"parallel", core.NewVec3(1, 0, 0), false, core.Vec3{}},
		{"nearly parallel", core.NewVec3(1, Epsilon/2, 0), false, core.Vec3{}},
		{"straight down, long enough", core.NewVec3(0, -10, 0), true, core.NewVec3(0, 0, 0)},
		{"exactly reaches the plane", core.NewVec3(0, -5, 0), true, core.NewVec3(0, 0, 0)},
		{"too short", core.NewVec3(0, -1, 0), false, core.Vec3{}},
		{"pointing away", core.NewVec3(0, 10, 0), false, core.Vec3{}},
		{"diagonal", core.NewVec3(10, -10, 0), true, core.NewVec3(5, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, ok := LinePlaneIntersection(planePoint, planeNormal, origin, tt.direction)
			require.Equal(t, tt.expectHit, ok)
			if tt.expectHit {
				assert.True(t, point.Equals(tt.expected, 1e-9), "got %v, want %v", point, tt.expected)
			}
		})
	}
}

func TestLinePlaneIntersection_NaNDirection(t *testing.T) {
	_, ok := LinePlaneIntersection(
		core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 5, 0), core.NewVec3(math.NaN(), math.NaN(), math.NaN()),
	)
	assert.False(t, ok)
}

func TestSegmentPlaneIntersection_Length(t *testing.T) {
	plane := Plane{
		A:      core.NewVec3(-10, 0, -10),
		B:      core.NewVec3(10, 0, 10),
		Normal: core.NewVec3(0, 1, 0),
	}
	origin := core.NewVec3(0, 5, 0)

	// Unit direction cannot reach a plane 5 units away
	_, _, ok := SegmentPlaneIntersection(plane, NewSegment(origin, core.NewVec3(0, -1, 0)))
	assert.False(t, ok)

	point, distance, ok := SegmentPlaneIntersection(plane, NewSegment(origin, core.NewVec3(0, -10, 0)))
	require.True(t, ok)
	assert.True(t, point.Equals(core.NewVec3(0, 0, 0), 1e-9))
	assert.InDelta(t, 5.0, distance, 1e-9)
}

func TestSegmentPlaneIntersection_Rejections(t *testing.T) {
	plane := Plane{
		A:      core.NewVec3(-1, 0, -1),
		B:      core.NewVec3(1, 0, 1),
		Normal: core.NewVec3(0, 1, 0),
	}

	tests := []struct {
		name    string
		segment Segment
	}{
		{
			name:    "outside the rectangle",
			segment: NewSegment(core.NewVec3(5, 5, 0), core.NewVec3(0, -10, 0)),
		},
		{
			name:    "origin on the plane",
			segment: NewSegment(core.NewVec3(0, 0, 0), core.NewVec3(0, -10, 0)),
		},
		{
			name:    "origin within epsilon of the plane",
			segment: NewSegment(core.NewVec3(0, Epsilon/2, 0), core.NewVec3(0, -10, 0)),
		},
		{
			name:    "parallel",
			segment: NewSegment(core.NewVec3(0, 1, 0), core.NewVec3(10, 0, 0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := SegmentPlaneIntersection(plane, tt.segment)
			assert.False(t, ok)
		})
	}
}

func TestSegmentPlaneIntersection_Oblique(t *testing.T) {
	a := core.NewVec3(3, 1, -1)
	b := core.NewVec3(3, -1, 1)
	plane := NewPlane(a, b, DefaultBasisCorner(a, b))

	segment := NewSegment(core.NewVec3(0, 0, 0), core.NewVec3(10, 0, 2))
	point, distance, ok := SegmentPlaneIntersection(plane, segment)
	require.True(t, ok)
	assert.True(t, point.Equals(core.NewVec3(3, 0, 0.6), 1e-9), "got %v", point)
	assert.InDelta(t, math.Sqrt(9+0.36), distance, 1e-9)
}

func TestSegment_EndAndLength(t *testing.T) {
	s := NewSegment(core.NewVec3(1, 1, 1), core.NewVec3(0, 3, 4))
	assert.Equal(t, core.NewVec3(1, 4, 5), s.End())
	assert.InDelta(t, 5.0, s.Length(), 1e-12)
}
