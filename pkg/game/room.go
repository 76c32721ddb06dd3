package game

import (
	"fmt"
	"image"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/loaders"
	"github.com/df07/go-surface-raycaster/pkg/scene"
)

// Room owns the surfaces of its furniture in a registry
type Room struct {
	name       string
	registry   *scene.Registry
	items      []Furniture
	collisions []image.Rectangle
	logger     core.Logger
}

// NewRoom registers the static surfaces of items
func NewRoom(name string, registry *scene.Registry, collisions []image.Rectangle, logger core.Logger, items ...Furniture) (*Room, error) {
	r := &Room{
		name:       name,
		registry:   registry,
		items:      items,
		collisions: collisions,
		logger:     core.OrNop(logger),
	}

	count := 0
	for _, item := range items {
		for _, cfg := range item.StaticSurfaces() {
			cfg.Temporary = false
			if _, err := registry.Add(cfg); err != nil {
				registry.Clear()
				return nil, fmt.Errorf("failed to register %s: %w", item.Name(), err)
			}
			count++
		}
	}
	r.logger.Printf("Room %s: %d furniture items, %d static surfaces\n", name, len(items), count)
	return r, nil
}

// LoadRoom builds a room from a scene file and its textures
func LoadRoom(sf *loaders.SceneFile, registry *scene.Registry, logger core.Logger) (*Room, error) {
	textures, err := sf.LoadTextures()
	if err != nil {
		return nil, err
	}

	items := make([]Furniture, 0, len(sf.Furniture))
	for _, spec := range sf.Furniture {
		f, err := NewFixture(spec, textures)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}

	collisions := make([]image.Rectangle, 0, len(sf.Collisions))
	for _, c := range sf.Collisions {
		collisions = append(collisions, c.Rect())
	}

	return NewRoom(sf.Name, registry, collisions, logger, items...)
}

// PrepareFrame registers the dynamic surfaces of every item for one frame.
// They are removed by the sweep that follows the next render.
func (r *Room) PrepareFrame(frame uint64) (int, error) {
	count := 0
	for _, item := range r.items {
		for _, cfg := range item.DynamicSurfaces(frame) {
			cfg.Temporary = true
			if _, err := r.registry.Add(cfg); err != nil {
				return count, fmt.Errorf("failed to register %s: %w", item.Name(), err)
			}
			count++
		}
	}
	return count, nil
}

// Name returns the room name
func (r *Room) Name() string {
	return r.name
}

// Registry returns the registry holding the room's surfaces
func (r *Room) Registry() *scene.Registry {
	return r.registry
}

// Collisions returns the obstacles on the floor plane in centi-units
func (r *Room) Collisions() []image.Rectangle {
	return r.collisions
}

// Close releases every surface of the room
func (r *Room) Close() {
	r.registry.Clear()
}
