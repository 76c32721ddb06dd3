package scene

import (
	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/geometry"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
)

// SurfaceID identifies a registered surface. IDs are never reused within a
// registry.
type SurfaceID uint64

// SurfaceConfig describes a surface to register
type SurfaceConfig struct {
	Image     any        // *image.RGBA, *image.NRGBA or pixel.Viewer
	A         core.Vec3  // First corner
	B         core.Vec3  // Opposite corner
	C         *core.Vec3 // Optional third corner; defaults to {A.X, B.Y, A.Z}
	Temporary bool       // Removed after the next rendered frame
}

// Surface is a textured rectangle placed in the scene. It borrows the pixels
// of an external image for as long as it stays registered.
type Surface struct {
	id             SurfaceID
	plane          geometry.Plane
	basisCorner    core.Vec3
	pendingRemoval bool
	view           *pixel.View
}

// ID returns the registry handle of the surface
func (s *Surface) ID() SurfaceID {
	return s.id
}

// Plane returns the corners and normal of the surface
func (s *Surface) Plane() geometry.Plane {
	return s.plane
}

// BasisCorner returns the third corner used for texel mapping
func (s *Surface) BasisCorner() core.Vec3 {
	return s.basisCorner
}

// PendingRemoval reports whether the surface goes away on the next sweep
func (s *Surface) PendingRemoval() bool {
	return s.pendingRemoval
}

// View returns the borrowed pixel buffer
func (s *Surface) View() *pixel.View {
	return s.view
}

// release drops the buffer view and with it the image reference
func (s *Surface) release() {
	if s.view != nil {
		s.view.Release()
	}
}
