package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/geometry"
)

// Camera describes the viewpoint of a frame.
//
// AngleX tilts the view up and down (rotation through the y axis), AngleY
// turns it left and right. Angles are in degrees unless Radians is set.
type Camera struct {
	Position     core.Vec3
	AngleX       float64 // Pitch
	AngleY       float64 // Yaw
	FOV          float64 // Field of view, used both horizontally and vertically
	ViewDistance float64 // Far clip distance; every ray is this long
	Radians      bool
}

// DefaultCamera returns a camera at the origin with a 120 degree field of view
// and a view distance of 1000
func DefaultCamera() Camera {
	return Camera{
		FOV:          120,
		ViewDistance: 1000,
	}
}

// Validate checks the camera for values no frame can be rendered with
func (c Camera) Validate() error {
	if !(c.FOV > 0) || math.IsInf(c.FOV, 0) {
		return fmt.Errorf("%w: fov must be greater than 0, got %g", core.ErrInvalidArgument, c.FOV)
	}
	if !(c.ViewDistance > 0) || math.IsInf(c.ViewDistance, 0) {
		return fmt.Errorf("%w: view distance must be greater than 0, got %g", core.ErrInvalidArgument, c.ViewDistance)
	}
	if !c.Position.IsFinite() {
		return fmt.Errorf("%w: camera position %v is not finite", core.ErrInvalidArgument, c.Position)
	}
	return nil
}

// radians returns pitch, yaw and fov in radians
func (c Camera) radians() (float64, float64, float64) {
	if c.Radians {
		return c.AngleX, c.AngleY, c.FOV
	}
	return core.Radians(c.AngleX), core.Radians(c.AngleY), core.Radians(c.FOV)
}

// rayGrid generates one ray per step x step block of a width x height frame.
// Rows sweep from fov/2 above the pitch downwards, columns from fov/2 past
// the yaw the other way.
type rayGrid struct {
	origin       core.Vec3
	viewDistance float64
	topAngle     float64
	leftAngle    float64
	rowDelta     float64
	colDelta     float64
	rows, cols   int
	step         int
}

func newRayGrid(c Camera, width, height, step int) rayGrid {
	pitch, yaw, fov := c.radians()
	// Integer division matches the block count; zero blocks give an
	// infinite delta and no rows or columns below.
	return rayGrid{
		origin:       c.Position,
		viewDistance: c.ViewDistance,
		topAngle:     fov/2 + pitch,
		leftAngle:    fov/2 + yaw,
		rowDelta:     fov / float64(height/step),
		colDelta:     fov / float64(width/step),
		rows:         height / step,
		cols:         width / step,
		step:         step,
	}
}

// rowRay holds the parts of a ray shared by a whole row
type rowRay struct {
	y    float64
	hypo float64
}

func (g rayGrid) row(i int) rowRay {
	angle := g.topAngle - float64(i)*g.rowDelta
	y := g.viewDistance * math.Sin(angle)
	dy := y - g.origin.Y
	return rowRay{
		y:    y,
		hypo: math.Sqrt(math.Max(0, g.viewDistance*g.viewDistance-dy*dy)),
	}
}

// ray returns the segment for block column j of a row
func (g rayGrid) ray(r rowRay, j int) geometry.Segment {
	angle := g.leftAngle - float64(j)*g.colDelta
	direction := core.NewVec3(r.hypo*math.Cos(angle), r.y, r.hypo*math.Sin(angle))
	return geometry.NewSegment(g.origin, direction)
}

// Ray returns the ray cast for destination pixel block (col, row) of a
// width x height frame rendered at the given step
func (c Camera) Ray(width, height, step, col, row int) geometry.Segment {
	g := newRayGrid(c, width, height, step)
	return g.ray(g.row(row), col)
}
