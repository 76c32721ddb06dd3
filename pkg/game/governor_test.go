package game

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGovernor_Adjust(t *testing.T) {
	g := NewGovernor(DefaultScale)
	assert.Equal(t, 0.1, g.Scale())

	assert.Equal(t, MinScale, g.Adjust(10), "never below the minimum")
	assert.InDelta(t, 0.101, g.Adjust(75), 1e-12)
	assert.InDelta(t, 0.101, g.Adjust(45), 1e-12, "steady between the thresholds")
	assert.InDelta(t, 0.101, g.Adjust(30), 1e-12)
	assert.InDelta(t, 0.101, g.Adjust(60), 1e-12)
	assert.InDelta(t, 0.101*1.01, g.Adjust(61), 1e-12)
	assert.InDelta(t, 0.101*1.01*0.99, g.Adjust(29), 1e-12)
	assert.Equal(t, MinScale, g.Adjust(29), "clamped to the minimum")

	for i := 0; i < 1000; i++ {
		g.Adjust(120)
	}
	assert.Equal(t, MaxScale, g.Scale(), "never above the maximum")
}

func TestGovernor_Size(t *testing.T) {
	tests := []struct {
		scale         float64
		width, height int
		expectedW     int
		expectedH     int
	}{
		{0.1, 1920, 1080, 192, 108},
		{1, 320, 180, 320, 180},
		{0.5, 5, 3, 2, 1},
		{0.1, 4, 4, 1, 1},
	}

	for _, tt := range tests {
		w, h := NewGovernor(tt.scale).Size(tt.width, tt.height)
		assert.Equal(t, tt.expectedW, w)
		assert.Equal(t, tt.expectedH, h)
	}

	assert.Equal(t, MaxScale, NewGovernor(3).Scale())
	assert.Equal(t, MinScale, NewGovernor(0).Scale())
}

func TestUpscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	src.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	src.SetRGBA(1, 1, color.RGBA{R: 255, G: 255, A: 255})

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Upscale(dst, src)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, src.RGBAAt(x/2, y/2), dst.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestClear(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 9, G: 9, B: 9, A: 9})
	Clear(img)
	assert.Equal(t, []uint8{0, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255}, img.Pix)
}
