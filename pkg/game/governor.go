package game

import "math"

// Render scale bounds and the frame rates that move it
const (
	MinScale     = 0.1
	MaxScale     = 1.0
	DefaultScale = 0.1
	LowFPS       = 30.0
	HighFPS      = 60.0
)

// Governor adapts the render resolution to the frame rate: it shrinks the
// render surface by 1% per frame under LowFPS and grows it by 1% over
// HighFPS.
type Governor struct {
	scale float64
}

// NewGovernor returns a governor starting at scale, clamped to
// [MinScale, MaxScale]
func NewGovernor(scale float64) *Governor {
	return &Governor{scale: math.Max(MinScale, math.Min(MaxScale, scale))}
}

// Scale returns the current render scale
func (g *Governor) Scale() float64 {
	return g.scale
}

// Adjust updates the scale for the measured frame rate and returns it
func (g *Governor) Adjust(fps float64) float64 {
	switch {
	case fps < LowFPS:
		g.scale = math.Max(g.scale*0.99, MinScale)
	case fps > HighFPS:
		g.scale = math.Min(g.scale*1.01, MaxScale)
	}
	return g.scale
}

// Size returns the render surface size for a display, at least 1x1
func (g *Governor) Size(width, height int) (int, int) {
	return scaled(width, g.scale), scaled(height, g.scale)
}

func scaled(n int, scale float64) int {
	return max(1, int(float64(n)*scale))
}
