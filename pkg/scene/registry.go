package scene

import (
	"fmt"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/geometry"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
)

// Registry owns the surfaces of a scene in insertion order.
//
// Slots of removed surfaces are tombstoned (set to nil) and reclaimed by the
// next Sweep. The registry is not safe for concurrent mutation; callers must
// not add or remove surfaces while a frame is being rendered.
type Registry struct {
	slots  []*Surface
	index  map[SurfaceID]int
	live   int
	nextID SurfaceID
	logger core.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger core.Logger) *Registry {
	return &Registry{
		index:  make(map[SurfaceID]int),
		nextID: 1,
		logger: core.OrNop(logger),
	}
}

// Add registers a new surface and acquires its pixel view.
// Collinear corners are logged and the surface is kept.
func (r *Registry) Add(cfg SurfaceConfig) (SurfaceID, error) {
	view, err := pixel.Acquire(cfg.Image)
	if err != nil {
		return 0, fmt.Errorf("failed to add surface: %w", err)
	}

	c := geometry.DefaultBasisCorner(cfg.A, cfg.B)
	if cfg.C != nil {
		c = *cfg.C
	}

	surface := &Surface{
		id:             r.nextID,
		plane:          geometry.NewPlane(cfg.A, cfg.B, c),
		basisCorner:    c,
		pendingRemoval: cfg.Temporary,
		view:           view,
	}
	r.nextID++

	if surface.plane.Degenerate() {
		r.logger.Printf("surface %d: %v: corners %v %v %v are collinear\n",
			surface.id, core.ErrDegenerateGeometry, cfg.A, cfg.B, c)
	}

	r.index[surface.id] = len(r.slots)
	r.slots = append(r.slots, surface)
	r.live++
	return surface.id, nil
}

// Get returns the surface registered under id
func (r *Registry) Get(id SurfaceID) (*Surface, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.slots[i], true
}

// Remove releases a surface immediately and tombstones its slot
func (r *Registry) Remove(id SurfaceID) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.slots[i].release()
	r.slots[i] = nil
	delete(r.index, id)
	r.live--
	return true
}

// MarkForRemoval flags a surface to be released by the next Sweep
func (r *Registry) MarkForRemoval(id SurfaceID) bool {
	s, ok := r.Get(id)
	if !ok {
		return false
	}
	s.pendingRemoval = true
	return true
}

// Clear releases and removes every surface
func (r *Registry) Clear() {
	for _, s := range r.slots {
		if s != nil {
			s.release()
		}
	}
	r.slots = nil
	r.index = make(map[SurfaceID]int)
	r.live = 0
}

// Sweep releases every surface pending removal and compacts the remaining
// ones, preserving their relative order. It returns the number removed.
func (r *Registry) Sweep() int {
	removed := 0
	kept := r.slots[:0]
	for _, s := range r.slots {
		if s == nil {
			continue
		}
		if s.pendingRemoval {
			s.release()
			delete(r.index, s.id)
			removed++
			continue
		}
		r.index[s.id] = len(kept)
		kept = append(kept, s)
	}
	// Drop references held by the tail of the old backing array
	for i := len(kept); i < len(r.slots); i++ {
		r.slots[i] = nil
	}
	r.slots = kept
	r.live -= removed
	return removed
}

// Len returns the number of registered surfaces
func (r *Registry) Len() int {
	return r.live
}

// Surfaces returns the registered surfaces in insertion order
func (r *Registry) Surfaces() []*Surface {
	out := make([]*Surface, 0, r.live)
	for _, s := range r.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
