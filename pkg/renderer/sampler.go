package renderer

import (
	"math"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/geometry"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
	"github.com/df07/go-surface-raycaster/pkg/scene"
)

// Sample maps a point on the plane of s to a texel of its image.
//
// The rectangle's local axes run along the edges A->C (vertical) and C->B
// (horizontal), where C is the basis corner:
//
//	A
//	|  x grows away from A-C
//	|  y grows away from C-B (row 0 is the top)
//	C ------ B
//
// Points that map outside the image, including negative coordinates, yield
// no sample.
func Sample(s *scene.Surface, p core.Vec3) (pixel.RGBA8, bool) {
	view := s.View()
	if view == nil || view.Width() == 0 || view.Height() == 0 {
		return pixel.RGBA8{}, false
	}

	plane := s.Plane()
	bc := s.BasisCorner()

	vertical := bc.Subtract(plane.A)
	horizontal := plane.B.Subtract(bc)

	yLen := vertical.Length()
	xLen := horizontal.Length()
	if xLen < geometry.Epsilon || yLen < geometry.Epsilon {
		return pixel.RGBA8{}, false
	}

	// Point-to-line distances via the parallelogram area
	xDist := vertical.Cross(p.Subtract(plane.A)).Length() / yLen
	yDist := horizontal.Cross(p.Subtract(bc)).Length() / xLen

	fx := math.Floor(xDist * float64(view.Width()) / xLen)
	fy := float64(view.Height()-1) - math.Floor(yDist*float64(view.Height())/yLen)
	if math.IsNaN(fx) || math.IsNaN(fy) || fx < 0 || fy < 0 ||
		fx >= float64(view.Width()) || fy >= float64(view.Height()) {
		return pixel.RGBA8{}, false
	}

	return view.At(int(fx), int(fy))
}
