package imagefmt

import (
	"image"

	"github.com/disintegration/gift"
)

// Fit downscales img with Lanczos resampling so it fits inside box,
// keeping the aspect ratio. A zero box axis is unconstrained. Images that
// already fit are returned unchanged.
func Fit(img image.Image, box image.Point) image.Image {
	b := img.Bounds()
	fitsX := box.X <= 0 || b.Dx() <= box.X
	fitsY := box.Y <= 0 || b.Dy() <= box.Y
	if fitsX && fitsY {
		return img
	}

	var filter gift.Filter
	switch {
	case box.X <= 0:
		filter = gift.Resize(0, box.Y, gift.LanczosResampling)
	case box.Y <= 0:
		filter = gift.Resize(box.X, 0, gift.LanczosResampling)
	default:
		filter = gift.ResizeToFit(box.X, box.Y, gift.LanczosResampling)
	}

	g := gift.New(filter)
	dst := image.NewNRGBA(g.Bounds(b))
	g.Draw(dst, img)

	return dst
}
