// Package pixel provides typed access to external RGBA pixel buffers.
//
// Buffers use the byte layout of Go's image.RGBA and image.NRGBA: four bytes
// per pixel, red, green, blue, alpha from low to high address.
package pixel

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Channel offsets inside one 4-byte pixel.
const (
	ChR = 0
	ChG = 1
	ChB = 2
	ChA = 3

	BytesPerPixel = 4
)

// RGBA8 is one raw pixel as stored in a buffer
type RGBA8 struct {
	R, G, B, A uint8
}

// IsZero reports whether every channel is zero
func (c RGBA8) IsZero() bool {
	return c == RGBA8{}
}

// Opaque reports whether the alpha channel is fully opaque
func (c RGBA8) Opaque() bool {
	return c.A == 255
}

// Transparent reports whether the alpha channel is zero
func (c RGBA8) Transparent() bool {
	return c.A == 0
}

// WithAlpha returns a copy of c with its alpha channel replaced
func (c RGBA8) WithAlpha(a uint8) RGBA8 {
	c.A = a
	return c
}

// NRGBA converts to the standard library's non-premultiplied color
func (c RGBA8) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// String formats the pixel as #rrggbbaa
func (c RGBA8) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// FromBytes reads a pixel from the first four bytes of b
func FromBytes(b []uint8) RGBA8 {
	_ = b[ChA]
	return RGBA8{R: b[ChR], G: b[ChG], B: b[ChB], A: b[ChA]}
}

// ParseHex parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
// Missing alpha defaults to 255.
func ParseHex(s string) (RGBA8, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 || len(hex) == 4 {
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return RGBA8{}, fmt.Errorf("invalid color %q: expected #rgb, #rgba, #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA8{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGBA8{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
