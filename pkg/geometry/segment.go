package geometry

import (
	"math"

	"github.com/df07/go-surface-raycaster/pkg/core"
)

// Segment is a bounded ray: an origin and a direction whose length is the
// maximum distance the ray travels.
//
//	A [---------> A+B
type Segment struct {
	A core.Vec3 // Origin
	B core.Vec3 // Direction, scaled to the far clip distance
}

// NewSegment creates a new segment
func NewSegment(origin, direction core.Vec3) Segment {
	return Segment{A: origin, B: direction}
}

// End returns the far endpoint of the segment
func (s Segment) End() core.Vec3 {
	return s.A.Add(s.B)
}

// Length returns the maximum travel distance of the segment
func (s Segment) Length() float64 {
	return s.B.Length()
}

// LinePlaneIntersection intersects a bounded line with an infinite plane.
// The line runs from linePoint to linePoint+lineDirection; hits outside that
// span, hits on a parallel line and non-finite results are rejected.
func LinePlaneIntersection(planePoint, planeNormal, linePoint, lineDirection core.Vec3) (core.Vec3, bool) {
	normalDotDirection := planeNormal.Dot(lineDirection)
	if math.Abs(normalDotDirection) < Epsilon {
		return core.Vec3{}, false
	}

	w := linePoint.Subtract(planePoint)
	fac := -planeNormal.Dot(w) / normalDotDirection

	// Written so that NaN also fails
	if !(fac >= 0 && fac <= 1) {
		return core.Vec3{}, false
	}

	return linePoint.Add(lineDirection.Multiply(fac)), true
}

// SegmentPlaneIntersection intersects a segment with a rectangle and returns
// the hit point and its distance from the segment origin.
func SegmentPlaneIntersection(plane Plane, segment Segment) (core.Vec3, float64, bool) {
	intersection, ok := LinePlaneIntersection(plane.A, plane.Normal, segment.A, segment.B)
	if !ok {
		return core.Vec3{}, 0, false
	}

	distance := segment.A.Distance(intersection)

	if distance > segment.Length() {
		return core.Vec3{}, 0, false
	}

	if distance < Epsilon {
		return core.Vec3{}, 0, false
	}

	if !plane.Contains(intersection) {
		return core.Vec3{}, 0, false
	}

	return intersection, distance, true
}
