package geometry

import (
	"github.com/df07/go-surface-raycaster/pkg/core"
)

// Epsilon is the tolerance used by every intersection test
const Epsilon = 0.001

// Plane represents a bounded rectangle: two opposite corners and the normal
// of its supporting plane.
//
//	A ------ *
//	|  N ->  |
//	* ------ B
type Plane struct {
	A      core.Vec3 // First corner, also the plane's reference point
	B      core.Vec3 // Opposite corner
	Normal core.Vec3 // Not normalized; its length is irrelevant to the tests below

	// edges is |A-C|² * |B-C|², the squared normal length of a right angle
	edges float64
}

// DefaultBasisCorner returns the third corner used when none is supplied:
// below A, at the same height as B.
func DefaultBasisCorner(a, b core.Vec3) core.Vec3 {
	return core.NewVec3(a.X, b.Y, a.Z)
}

// NewPlane builds a rectangle from two opposite corners and a third corner c.
// The normal is (A-C) x (B-C); collinear corners yield a zero normal.
func NewPlane(a, b, c core.Vec3) Plane {
	ac, bc := a.Subtract(c), b.Subtract(c)
	return Plane{
		A:      a,
		B:      b,
		Normal: ac.Cross(bc),
		edges:  ac.LengthSquared() * bc.LengthSquared(),
	}
}

// Degenerate reports whether the corners are collinear: the sine of the angle
// at the third corner is below Epsilon. The result does not depend on the
// size of the rectangle.
func (p Plane) Degenerate() bool {
	return p.Normal.LengthSquared() <= Epsilon*Epsilon*p.edges
}

// Contains reports whether point lies inside the axis-aligned box spanned by
// A and B, allowing Epsilon on every axis. Since the point is already on the
// plane, this approximates a point-in-rectangle test.
func (p Plane) Contains(point core.Vec3) bool {
	return within(point.X, p.A.X, p.B.X) &&
		within(point.Y, p.A.Y, p.B.Y) &&
		within(point.Z, p.A.Z, p.B.Z)
}

// within is false only when v is beyond both bounds on the same side
func within(v, a, b float64) bool {
	if a-v > Epsilon && b-v > Epsilon {
		return false
	}
	if v-a > Epsilon && v-b > Epsilon {
		return false
	}
	return true
}
