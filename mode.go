package pixbin

import (
	"fmt"
	"math/bits"
)

// Mode is the channel layout tag stored in the container MODE byte.
type Mode uint8

// ModeRGBA is 8-bit red, green, blue, alpha, non-premultiplied.
const ModeRGBA Mode = 4

type modeInfo struct {
	name          string
	bytesPerPixel int
}

// modes is the single source of truth for channel layouts.
// A new layout is added here and nowhere else.
var modes = map[Mode]modeInfo{
	ModeRGBA: {name: "RGBA", bytesPerPixel: 4},
}

// BytesPerPixel returns the pixel size in bytes for mode.
func BytesPerPixel(mode Mode) (int, error) {
	info, ok := modes[mode]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedMode, uint8(mode))
	}

	return info.bytesPerPixel, nil
}

// Valid reports whether the mode is a known layout.
func (m Mode) Valid() bool {
	_, ok := modes[m]
	return ok
}

// String returns the layout name, or MODE(n) for unknown tags.
func (m Mode) String() string {
	if info, ok := modes[m]; ok {
		return info.name
	}

	return fmt.Sprintf("MODE(%d)", uint8(m))
}

// pixelDataLength returns width*height*bpp for mode, or ErrSizeOverflow
// when the product does not fit in 64 bits.
func pixelDataLength(width, height uint32, mode Mode) (uint64, error) {
	bpp, err := BytesPerPixel(mode)
	if err != nil {
		return 0, err
	}

	hi, n := bits.Mul64(uint64(width)*uint64(height), uint64(bpp))
	if hi != 0 {
		return 0, fmt.Errorf("%w: %dx%d %s", ErrSizeOverflow, width, height, mode)
	}

	return n, nil
}
