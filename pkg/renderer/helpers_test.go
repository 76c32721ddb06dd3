package renderer

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
	"github.com/df07/go-surface-raycaster/pkg/scene"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures formatted log lines
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// wallAt returns a 4x4 square facing the origin in the plane x = depth
func wallAt(img any, depth float64, temporary bool) scene.SurfaceConfig {
	return scene.SurfaceConfig{
		Image:     img,
		A:         core.NewVec3(depth, 2, -2),
		B:         core.NewVec3(depth, -2, 2),
		Temporary: temporary,
	}
}

func solid(t *testing.T, c pixel.RGBA8) *pixel.Shared {
	t.Helper()
	shared, err := pixel.NewSolid(2, 2, c)
	require.NoError(t, err)
	return shared
}

// quadrants returns a 2x2 texture with a different color in each texel
func quadrants() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, A: 255})
	return img
}

func register(t *testing.T, reg *scene.Registry, cfgs ...scene.SurfaceConfig) []*scene.Surface {
	t.Helper()
	for _, cfg := range cfgs {
		_, err := reg.Add(cfg)
		require.NoError(t, err)
	}
	return reg.Surfaces()
}
