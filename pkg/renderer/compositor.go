package renderer

import (
	"math"

	"github.com/df07/go-surface-raycaster/pkg/geometry"
	"github.com/df07/go-surface-raycaster/pkg/pixel"
	"github.com/df07/go-surface-raycaster/pkg/scene"
)

// Composite casts ray against every surface and blends the visible samples
// into one pixel in a single pass, without sorting by distance.
//
// The nearest fully opaque sample replaces everything accumulated so far;
// once the accumulated pixel is opaque, farther surfaces are skipped.
// Other samples are mixed in with weights proportional to their alpha. On
// equal distances the first surface in the slice wins.
//
// The returned alpha is always 0. A zero result means nothing was hit.
func Composite(ray geometry.Segment, surfaces []*scene.Surface) pixel.RGBA8 {
	var acc pixel.RGBA8
	alphaSum := 0
	minDistance := math.Inf(1)

	for _, s := range surfaces {
		if s == nil {
			continue
		}

		point, distance, ok := geometry.SegmentPlaneIntersection(s.Plane(), ray)
		if !ok {
			continue
		}

		far := distance >= minDistance
		if far && acc.A == 255 {
			continue
		}

		sample, ok := Sample(s, point)
		if !ok || sample.Transparent() {
			continue
		}

		if !far {
			minDistance = distance
			if sample.Opaque() {
				acc = sample
				alphaSum = 255
				continue
			}
		}

		alphaSum += int(sample.A)
		wNew := float64(sample.A) / float64(alphaSum)
		wOld := float64(acc.A) / float64(alphaSum)

		acc = pixel.RGBA8{
			R: blendChannel(acc.R, sample.R, wNew, wOld),
			G: blendChannel(acc.G, sample.G, wNew, wOld),
			B: blendChannel(acc.B, sample.B, wNew, wOld),
			A: blendChannel(acc.A, sample.A, wNew, wOld),
		}
	}

	return acc.WithAlpha(0)
}

// blendChannel applies acc += new*wNew - acc*wOld, truncating the delta
// toward zero and clamping to a byte
func blendChannel(acc, sample uint8, wNew, wOld float64) uint8 {
	delta := math.Trunc(float64(sample)*wNew - float64(acc)*wOld)
	v := float64(acc) + delta
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
