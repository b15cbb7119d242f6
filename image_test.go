package pixbin

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestFromImageNRGBASubImage(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 6, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 50), B: 7, A: uint8(100 + x)})
		}
	}
	sub := src.SubImage(image.Rect(2, 1, 5, 4))

	raw, err := FromImage(sub)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if raw.Width != 3 || raw.Height != 3 || raw.Mode != ModeRGBA {
		t.Fatalf("unexpected layout %dx%d %s", raw.Width, raw.Height, raw.Mode)
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			c := src.NRGBAAt(x+2, y+1)
			got := raw.Pixels[(y*3+x)*4 : (y*3+x)*4+4]
			if !bytes.Equal(got, []byte{c.R, c.G, c.B, c.A}) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestFromImageConvertsColorModels(t *testing.T) {
	t.Parallel()

	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(0, 0, color.Gray{Y: 10})
	gray.SetGray(1, 0, color.Gray{Y: 200})

	raw, err := FromImage(gray)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}

	want := []byte{10, 10, 10, 255, 200, 200, 200, 255}
	if !bytes.Equal(raw.Pixels, want) {
		t.Fatalf("pixels = %v, want %v", raw.Pixels, want)
	}
}

func TestFromImageEmpty(t *testing.T) {
	t.Parallel()

	if _, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 10))); !errors.Is(err, ErrInvalidImageData) {
		t.Fatalf("FromImage(empty) error = %v, want %v", err, ErrInvalidImageData)
	}
	if _, err := FromImage(nil); !errors.Is(err, ErrInvalidImageData) {
		t.Fatalf("FromImage(nil) error = %v, want %v", err, ErrInvalidImageData)
	}
}

func TestRawImageImage(t *testing.T) {
	t.Parallel()

	raw := testImage(4, 2)
	img, err := raw.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if !bytes.Equal(img.Pix, raw.Pixels) {
		t.Fatalf("pixel mismatch")
	}

	back, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if !bytes.Equal(back.Pixels, raw.Pixels) {
		t.Fatalf("round-trip pixel mismatch")
	}

	bad := &RawImage{Width: 4, Height: 2, Mode: ModeRGBA, Pixels: raw.Pixels[:31]}
	if _, err := bad.Image(); !errors.Is(err, ErrInvalidImageData) {
		t.Fatalf("Image(short) error = %v, want %v", err, ErrInvalidImageData)
	}
}
