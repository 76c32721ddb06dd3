package renderer

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
	"github.com/df07/go-surface-raycaster/pkg/scene"
	"golang.org/x/sync/errgroup"
)

// FrameRenderer casts one ray per destination block against the surfaces of
// a registry and writes the composited pixels into a destination image.
//
// The registry must not be mutated while Render runs.
type FrameRenderer struct {
	registry *scene.Registry
	logger   core.Logger
	workers  int
}

// NewFrameRenderer creates a single-threaded renderer over registry
func NewFrameRenderer(registry *scene.Registry, logger core.Logger) *FrameRenderer {
	return &FrameRenderer{
		registry: registry,
		logger:   core.OrNop(logger),
		workers:  1,
	}
}

// SetWorkers sets how many goroutines share the block rows of a frame.
// Values below 1 select runtime.NumCPU().
func (fr *FrameRenderer) SetWorkers(n int) {
	if n < 1 {
		n = runtime.NumCPU()
	}
	fr.workers = n
}

// Workers returns the configured worker count
func (fr *FrameRenderer) Workers() int {
	return fr.workers
}

// Registry returns the surfaces rendered by fr
func (fr *FrameRenderer) Registry() *scene.Registry {
	return fr.registry
}

// Render draws one frame into dst, which must be an *image.RGBA,
// *image.NRGBA or pixel.Viewer. Only the color channels of dst are written,
// and blocks whose ray hits nothing are left untouched.
//
// Surfaces marked for removal are swept once the frame is complete.
func (fr *FrameRenderer) Render(dst any, cam Camera, step int) (RenderStats, error) {
	if err := cam.Validate(); err != nil {
		return RenderStats{}, err
	}
	if step < 1 {
		return RenderStats{}, fmt.Errorf("%w: step must be at least 1, got %d", core.ErrInvalidArgument, step)
	}

	view, err := pixel.Acquire(dst)
	if err != nil {
		return RenderStats{}, fmt.Errorf("failed to acquire destination: %w", err)
	}
	defer view.Release()

	start := time.Now()
	surfaces := fr.registry.Surfaces()
	grid := newRayGrid(cam, view.Width(), view.Height(), step)

	stats := RenderStats{
		Width:    view.Width(),
		Height:   view.Height(),
		Step:     step,
		Surfaces: len(surfaces),
	}

	workers := min(fr.workers, max(grid.rows, 1))
	if workers <= 1 {
		stats.merge(fr.renderRows(view, grid, surfaces, 0, 1))
	} else {
		partial := make([]RenderStats, workers)
		var g errgroup.Group
		for w := 0; w < workers; w++ {
			w := w
			g.Go(func() error {
				// Each worker owns every workers-th block row, so writes never overlap
				partial[w] = fr.renderRows(view, grid, surfaces, w, workers)
				return nil
			})
		}
		// Ray misses are not errors, so workers cannot fail
		g.Wait()
		for _, p := range partial {
			stats.merge(p)
		}
	}

	stats.SurfacesSwept = fr.registry.Sweep()
	stats.Duration = time.Since(start)

	fr.logger.Printf("Rendered %dx%d (step %d) against %d surfaces: %d rays, %d pixels written, %d swept in %v\n",
		stats.Width, stats.Height, step, stats.Surfaces, stats.RaysCast, stats.PixelsWritten, stats.SurfacesSwept, stats.Duration)

	return stats, nil
}

// renderRows renders block rows first, first+stride, ...
func (fr *FrameRenderer) renderRows(view *pixel.View, grid rayGrid, surfaces []*scene.Surface, first, stride int) RenderStats {
	var stats RenderStats
	for i := first; i < grid.rows; i += stride {
		row := grid.row(i)
		y := i * grid.step
		for j := 0; j < grid.cols; j++ {
			stats.RaysCast++
			px := Composite(grid.ray(row, j), surfaces)
			if px.IsZero() {
				continue
			}
			x := j * grid.step
			stats.BlocksWritten++
			stats.PixelsWritten += view.FillRGB(image.Rect(x, y, x+grid.step, y+grid.step), px)
		}
	}
	return stats
}
