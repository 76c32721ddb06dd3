package pixel

import (
	"fmt"
	"image"
	"sync"

	"github.com/df07/go-surface-raycaster/pkg/core"
)

// Viewer is implemented by image-like values that can lend their pixel
// memory directly.
type Viewer interface {
	PixelView() (*View, error)
}

// View is a borrowed, strided window over an external RGBA pixel buffer.
// The owner stays referenced until Release is called.
type View struct {
	pix    []uint8
	width  int
	height int
	stride int

	owner     any
	onRelease func()
	once      sync.Once
	released  bool
}

// NewView wraps pix as a width x height buffer with the given row stride in
// bytes. owner is kept alive for the lifetime of the view and onRelease, if
// set, runs exactly once when the view is released.
func NewView(pix []uint8, width, height, stride int, owner any, onRelease func()) (*View, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative buffer shape %dx%d", core.ErrInvalidSurface, width, height)
	}
	if stride < width*BytesPerPixel {
		return nil, fmt.Errorf("%w: stride %d shorter than a row of %d pixels", core.ErrInvalidSurface, stride, width)
	}
	if width > 0 && height > 0 {
		need := (height-1)*stride + width*BytesPerPixel
		if len(pix) < need {
			return nil, fmt.Errorf("%w: buffer holds %d bytes, shape %dx%d needs %d",
				core.ErrInvalidSurface, len(pix), width, height, need)
		}
	}
	return &View{
		pix:       pix,
		width:     width,
		height:    height,
		stride:    stride,
		owner:     owner,
		onRelease: onRelease,
	}, nil
}

// Acquire obtains a view over the pixels of src.
// Supported sources are *image.RGBA, *image.NRGBA and any Viewer.
func Acquire(src any) (*View, error) {
	switch img := src.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil image", core.ErrInvalidSurface)
	case Viewer:
		v, err := img.PixelView()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidSurface, err)
		}
		if v == nil {
			return nil, fmt.Errorf("%w: %T returned no view", core.ErrInvalidSurface, src)
		}
		return v, nil
	case *image.RGBA:
		if img == nil {
			return nil, fmt.Errorf("%w: nil image", core.ErrInvalidSurface)
		}
		return viewOf(img.Pix, img.Stride, img.Rect, img)
	case *image.NRGBA:
		if img == nil {
			return nil, fmt.Errorf("%w: nil image", core.ErrInvalidSurface)
		}
		return viewOf(img.Pix, img.Stride, img.Rect, img)
	default:
		return nil, fmt.Errorf("%w: %T does not expose an RGBA pixel buffer", core.ErrInvalidSurface, src)
	}
}

// viewOf wraps an image's Pix, which always starts at Rect.Min (sub-images included)
func viewOf(pix []uint8, stride int, rect image.Rectangle, owner any) (*View, error) {
	if rect.Empty() {
		return NewView(nil, 0, 0, stride, owner, nil)
	}
	return NewView(pix, rect.Dx(), rect.Dy(), stride, owner, nil)
}

// Width returns the width of the view in pixels
func (v *View) Width() int {
	return v.width
}

// Height returns the height of the view in pixels
func (v *View) Height() int {
	return v.height
}

// Stride returns the distance in bytes between vertically adjacent pixels
func (v *View) Stride() int {
	return v.stride
}

// Owner returns the value keeping the buffer alive, or nil once released
func (v *View) Owner() any {
	return v.owner
}

// Released reports whether Release has been called
func (v *View) Released() bool {
	return v.released
}

// InBounds reports whether (x, y) addresses a pixel of the view
func (v *View) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.width && y < v.height
}

func (v *View) offset(x, y int) int {
	return y*v.stride + x*BytesPerPixel
}

// At returns the pixel at (x, y). It fails for out-of-range coordinates and
// for released views.
func (v *View) At(x, y int) (RGBA8, bool) {
	if v.released || !v.InBounds(x, y) {
		return RGBA8{}, false
	}
	return FromBytes(v.pix[v.offset(x, y):]), true
}

// Set writes all four channels at (x, y)
func (v *View) Set(x, y int, c RGBA8) bool {
	if v.released || !v.InBounds(x, y) {
		return false
	}
	i := v.offset(x, y)
	v.pix[i+ChR] = c.R
	v.pix[i+ChG] = c.G
	v.pix[i+ChB] = c.B
	v.pix[i+ChA] = c.A
	return true
}

// SetRGB writes the color channels at (x, y) and leaves alpha untouched
func (v *View) SetRGB(x, y int, c RGBA8) bool {
	if v.released || !v.InBounds(x, y) {
		return false
	}
	i := v.offset(x, y)
	v.pix[i+ChR] = c.R
	v.pix[i+ChG] = c.G
	v.pix[i+ChB] = c.B
	return true
}

// FillRGB writes c to every pixel of the rectangle, clipped to the view.
// It returns the number of pixels written.
func (v *View) FillRGB(r image.Rectangle, c RGBA8) int {
	r = r.Intersect(image.Rect(0, 0, v.width, v.height))
	if v.released || r.Empty() {
		return 0
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v.SetRGB(x, y, c)
		}
	}
	return r.Dx() * r.Dy()
}

// Release relinquishes the buffer and the owner reference.
// Only the first call has an effect.
func (v *View) Release() {
	v.once.Do(func() {
		v.released = true
		v.pix = nil
		v.owner = nil
		if v.onRelease != nil {
			v.onRelease()
		}
	})
}
