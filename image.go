package pixbin

import (
	"fmt"
	"image"
	"image/draw"
)

// FromImage converts img to an RGBA RawImage. Sources in other color models
// are converted to non-premultiplied 8-bit RGBA.
func FromImage(img image.Image) (*RawImage, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImageData)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrInvalidImageData, b.Dx(), b.Dy())
	}

	w32, err := u32FromInt(b.Dx())
	if err != nil {
		return nil, err
	}
	h32, err := u32FromInt(b.Dy())
	if err != nil {
		return nil, err
	}

	size, err := pixelDataLength(w32, h32, ModeRGBA)
	if err != nil {
		return nil, err
	}
	n, err := intFromU64(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d", err, w32, h32)
	}

	rowLen := b.Dx() * 4
	pix := make([]byte, n)

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*rowLen:(y+1)*rowLen], src.Pix[off:off+rowLen])
		}
	} else {
		dst := &image.NRGBA{Pix: pix, Stride: rowLen, Rect: image.Rect(0, 0, b.Dx(), b.Dy())}
		draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	}

	return &RawImage{Width: w32, Height: h32, Mode: ModeRGBA, Pixels: pix}, nil
}

// Image returns the pixels as an *image.NRGBA sharing no memory with img.
func (img *RawImage) Image() (*image.NRGBA, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	switch img.Mode {
	case ModeRGBA:
		w, h := int(img.Width), int(img.Height)
		out := image.NewNRGBA(image.Rect(0, 0, w, h))
		copy(out.Pix, img.Pixels)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, img.Mode)
	}
}
