package game

import (
	"fmt"
	"math"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/loaders"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
	"github.com/df07/go-surface-raycaster/pkg/scene"
)

// Furniture is anything placed in a room. Static surfaces are registered
// once; dynamic surfaces are asked for before every frame and live for
// that frame only.
type Furniture interface {
	Name() string
	StaticSurfaces() []scene.SurfaceConfig
	DynamicSurfaces(frame uint64) []scene.SurfaceConfig
}

// Oscillation moves surface corners along fixed directions by
// Amplitude * sin(Phase + Speed*frame)
type Oscillation struct {
	A, B, C   core.Vec3 // Per-corner directions
	Amplitude float64
	Speed     float64
	Phase     float64
}

// Offset returns the displacement factor at frame
func (o Oscillation) Offset(frame uint64) float64 {
	return o.Amplitude * math.Sin(o.Phase+o.Speed*float64(frame))
}

// Apply moves the corners of cfg to their position at frame. A default
// basis corner follows the moved A and B.
func (o Oscillation) Apply(cfg scene.SurfaceConfig, frame uint64) scene.SurfaceConfig {
	off := o.Offset(frame)
	cfg.A = cfg.A.Add(o.A.Multiply(off))
	cfg.B = cfg.B.Add(o.B.Multiply(off))
	if cfg.C != nil {
		c := cfg.C.Add(o.C.Multiply(off))
		cfg.C = &c
	}
	return cfg
}

type dynamicSurface struct {
	config scene.SurfaceConfig
	motion *Oscillation
}

// Fixture is furniture described by a scene file
type Fixture struct {
	name    string
	static  []scene.SurfaceConfig
	dynamic []dynamicSurface
}

// NewFixture builds a fixture, binding each surface to its texture
func NewFixture(spec loaders.FurnitureSpec, textures map[string]*pixel.Shared) (*Fixture, error) {
	f := &Fixture{name: spec.Name}
	for i, s := range spec.Surfaces {
		tex, ok := textures[s.Texture]
		if !ok {
			return nil, fmt.Errorf("%w: furniture %q surface %d uses unknown texture %q",
				core.ErrInvalidArgument, spec.Name, i, s.Texture)
		}

		cfg := scene.SurfaceConfig{
			Image: tex,
			A:     s.A.Vec(),
			B:     s.B.Vec(),
		}
		if s.C != nil {
			c := s.C.Vec()
			cfg.C = &c
		}

		if !s.Dynamic {
			f.static = append(f.static, cfg)
			continue
		}
		f.dynamic = append(f.dynamic, dynamicSurface{config: cfg, motion: oscillation(s.Oscillate)})
	}
	return f, nil
}

// oscillation converts a scene file oscillation, defaulting every corner
// direction to the axis (or straight up)
func oscillation(spec *loaders.OscillationSpec) *Oscillation {
	if spec == nil {
		return nil
	}
	axis := core.NewVec3(0, 1, 0)
	if spec.Axis != nil {
		axis = spec.Axis.Vec()
	}
	pick := func(v *loaders.Vec3) core.Vec3 {
		if v == nil {
			return axis
		}
		return v.Vec()
	}
	return &Oscillation{
		A:         pick(spec.A),
		B:         pick(spec.B),
		C:         pick(spec.C),
		Amplitude: spec.Amplitude,
		Speed:     spec.Speed,
		Phase:     spec.Phase,
	}
}

// Name returns the fixture name
func (f *Fixture) Name() string {
	return f.name
}

// StaticSurfaces returns the surfaces that never move
func (f *Fixture) StaticSurfaces() []scene.SurfaceConfig {
	return append([]scene.SurfaceConfig(nil), f.static...)
}

// DynamicSurfaces returns the per-frame surfaces placed for frame
func (f *Fixture) DynamicSurfaces(frame uint64) []scene.SurfaceConfig {
	out := make([]scene.SurfaceConfig, 0, len(f.dynamic))
	for _, d := range f.dynamic {
		cfg := d.config
		if d.motion != nil {
			cfg = d.motion.Apply(cfg, frame)
		}
		out = append(out, cfg)
	}
	return out
}
