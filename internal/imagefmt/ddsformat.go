package imagefmt

import (
	"fmt"

	"github.com/woozymasta/bcn"
)

const (
	ddsMagic = "DDS "
	// ddsHeaderEnd is the offset of the payload when no DX10 header follows.
	ddsHeaderEnd = 4 + bcn.DDSHeaderSize
	// ddsDX10Size is the length of the optional DX10 extension header.
	ddsDX10Size = 20
	// ddsFourCCOffset is the FourCC position inside the file, magic included.
	ddsFourCCOffset = 84
	// maxMipLevels caps the EDDS mip chain.
	maxMipLevels = 11
	// maxDimension bounds the width and height accepted from a DDS header.
	maxDimension = 32768
)

var fourCCFormats = map[string]bcn.Format{
	"DXT1": bcn.FormatDXT1,
	"DXT2": bcn.FormatDXT3,
	"DXT3": bcn.FormatDXT3,
	"DXT4": bcn.FormatDXT5,
	"DXT5": bcn.FormatDXT5,
	"ATI1": bcn.FormatBC4,
	"BC4U": bcn.FormatBC4,
	"BC4S": bcn.FormatBC4,
	"ATI2": bcn.FormatBC5,
	"BC5U": bcn.FormatBC5,
	"BC5S": bcn.FormatBC5,
}

var dxgiFormats = map[uint32]bcn.Format{
	28: bcn.FormatRGBA8,
	71: bcn.FormatDXT1,
	74: bcn.FormatDXT3,
	77: bcn.FormatDXT5,
	80: bcn.FormatBC4,
	83: bcn.FormatBC5,
	87: bcn.FormatBGRA8,
}

// pixelFormat maps DDS headers to a bcn format; the string names the source
// of the decision for error messages.
func pixelFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (bcn.Format, string) {
	if dx10 != nil {
		if f, ok := dxgiFormats[dx10.DXGIFormat]; ok {
			return f, fmt.Sprintf("DXGI %d", dx10.DXGIFormat)
		}
		return bcn.FormatUnknown, fmt.Sprintf("DXGI %d", dx10.DXGIFormat)
	}

	pf := header.PixelFormat
	if pf.Flags&bcn.DDSPFFourCC != 0 {
		cc := fourCCString(pf.FourCC)
		if f, ok := fourCCFormats[cc]; ok {
			return f, cc
		}
		return bcn.FormatUnknown, cc
	}

	if pf.Flags&bcn.DDSPFRGB != 0 && pf.Flags&bcn.DDSPFAlphaPixels != 0 && pf.RGBBitCount == 32 &&
		pf.GBitMask == 0x0000ff00 && pf.ABitMask == 0xff000000 {
		switch {
		case pf.RBitMask == 0x000000ff && pf.BBitMask == 0x00ff0000:
			return bcn.FormatRGBA8, "RGBA8"
		case pf.RBitMask == 0x00ff0000 && pf.BBitMask == 0x000000ff:
			return bcn.FormatBGRA8, "BGRA8"
		}
	}

	return bcn.FormatUnknown, fmt.Sprintf("flags 0x%x", pf.Flags)
}

func fourCCString(v uint32) string {
	return string([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func fourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

// levelSize returns the payload length of one mip level.
func levelSize(format bcn.Format, width, height int) (int, error) {
	bw, bh := (width+3)/4, (height+3)/4

	var (
		n   int
		err error
	)
	switch format {
	case bcn.FormatDXT1, bcn.FormatBC4:
		n, err = gridBytes(bw, bh, 8)
	case bcn.FormatDXT3, bcn.FormatDXT5, bcn.FormatBC5:
		n, err = gridBytes(bw, bh, 16)
	case bcn.FormatRGBA8, bcn.FormatBGRA8:
		n, err = gridBytes(width, height, 4)
	default:
		return 0, fmt.Errorf("%w: %v", ErrDDSPixelFormat, format)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %dx%d", err, width, height)
	}

	return n, nil
}

// mipLevels returns the full mip chain length for width x height, capped at maxMipLevels.
func mipLevels(width, height int) (int, error) {
	w, err := u32FromInt(width)
	if err != nil {
		return 0, err
	}
	h, err := u32FromInt(height)
	if err != nil {
		return 0, err
	}

	n := 1
	for (w > 1 || h > 1) && n < maxMipLevels {
		w = max(w/2, 1)
		h = max(h/2, 1)
		n++
	}

	return n, nil
}

// mipSize returns the extent of a base dimension at level.
func mipSize(base, level int) int {
	return max(base>>level, 1)
}

// newDDSHeader builds an uncompressed 32-bit DDS header with the Enfusion
// reserved tag.
func newDDSHeader(width, height, levels uint32, format bcn.Format) (*bcn.DDSHeader, error) {
	hdr := &bcn.DDSHeader{
		Size:              bcn.DDSHeaderSize,
		Flags:             uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat | bcn.DDSFlagPitch),
		Height:            height,
		Width:             width,
		Depth:             1,
		MipMapCount:       levels,
		PitchOrLinearSize: width * 4,
		Caps:              uint32(bcn.DDSCapsTexture),
	}
	hdr.Reserved1[1] = fourCC("ENF1")
	if levels > 1 {
		hdr.Flags |= bcn.DDSFlagMipmapCount
		hdr.Caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	pf := &hdr.PixelFormat
	pf.Size = bcn.DDSPixelFormatSize
	pf.Flags = bcn.DDSPFRGB | bcn.DDSPFAlphaPixels
	pf.RGBBitCount = 32
	pf.GBitMask = 0x0000ff00
	pf.ABitMask = 0xff000000

	switch format {
	case bcn.FormatRGBA8:
		pf.RBitMask, pf.BBitMask = 0x000000ff, 0x00ff0000
	case bcn.FormatBGRA8:
		pf.RBitMask, pf.BBitMask = 0x00ff0000, 0x000000ff
	default:
		return nil, fmt.Errorf("%w: %v", ErrDDSPixelFormat, format)
	}

	return hdr, nil
}
