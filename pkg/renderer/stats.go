package renderer

import "time"

// RenderStats contains statistics about a rendered frame
type RenderStats struct {
	Width         int           // Destination width in pixels
	Height        int           // Destination height in pixels
	Step          int           // Block size one ray covers
	Surfaces      int           // Surfaces tested by every ray
	RaysCast      int           // Number of rays composited
	BlocksWritten int           // Rays that produced a pixel
	PixelsWritten int           // Destination pixels written
	SurfacesSwept int           // Temporary surfaces released after the frame
	Duration      time.Duration // Wall time of the frame
}

// Coverage returns the fraction of destination pixels written
func (s RenderStats) Coverage() float64 {
	total := s.Width * s.Height
	if total == 0 {
		return 0
	}
	return float64(s.PixelsWritten) / float64(total)
}

// merge adds the counters of other to s
func (s *RenderStats) merge(other RenderStats) {
	s.RaysCast += other.RaysCast
	s.BlocksWritten += other.BlocksWritten
	s.PixelsWritten += other.PixelsWritten
}
