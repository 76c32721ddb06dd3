package pixel

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/df07/go-surface-raycaster/pkg/core"
)

// Shared is a reference-counted owner of an NRGBA image. Every view it
// lends holds one reference until released, so the image can be shared by
// many registered surfaces.
type Shared struct {
	img  *image.NRGBA
	refs atomic.Int64
}

// NewShared wraps img. The image must not be resized while views are out.
func NewShared(img *image.NRGBA) *Shared {
	return &Shared{img: img}
}

// Image returns the underlying image
func (s *Shared) Image() *image.NRGBA {
	return s.img
}

// Bounds returns the size of the shared image
func (s *Shared) Bounds() image.Rectangle {
	if s == nil || s.img == nil {
		return image.Rectangle{}
	}
	return s.img.Rect
}

// Refs returns the number of views currently outstanding
func (s *Shared) Refs() int {
	return int(s.refs.Load())
}

// PixelView lends a view over the image and takes a reference
func (s *Shared) PixelView() (*View, error) {
	if s == nil || s.img == nil {
		return nil, errors.New("shared image is empty")
	}
	rect := s.img.Rect
	v, err := NewView(s.img.Pix, rect.Dx(), rect.Dy(), s.img.Stride, s, func() {
		s.refs.Add(-1)
	})
	if err != nil {
		return nil, err
	}
	s.refs.Add(1)
	return v, nil
}

// NewSolid creates a width x height image filled with c
func NewSolid(width, height int, c RGBA8) (*Shared, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: solid texture must be at least 1x1, got %dx%d", core.ErrInvalidArgument, width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += BytesPerPixel {
		img.Pix[i+ChR] = c.R
		img.Pix[i+ChG] = c.G
		img.Pix[i+ChB] = c.B
		img.Pix[i+ChA] = c.A
	}
	return NewShared(img), nil
}

// NewChecker creates a checkerboard of cell x cell squares alternating
// between a (top-left) and b.
func NewChecker(width, height, cell int, a, b RGBA8) (*Shared, error) {
	if width <= 0 || height <= 0 || cell <= 0 {
		return nil, fmt.Errorf("%w: checker texture needs positive size and cell, got %dx%d cell %d",
			core.ErrInvalidArgument, width, height, cell)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetNRGBA(x, y, c.NRGBA())
		}
	}
	return NewShared(img), nil
}
