package game

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Upscale stretches src over all of dst with nearest-neighbour sampling
func Upscale(dst xdraw.Image, src image.Image) {
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

// Clear fills img with opaque black
func Clear(img xdraw.Image) {
	xdraw.Draw(img, img.Bounds(), image.Black, image.Point{}, xdraw.Src)
}
