package imagefmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/woozymasta/bcn"
)

// payloadOffset returns where mip data starts, accounting for the DX10 header.
func payloadOffset(data []byte) int {
	if len(data) >= ddsFourCCOffset+4 && string(data[ddsFourCCOffset:ddsFourCCOffset+4]) == "DX10" {
		return ddsHeaderEnd + ddsDX10Size
	}
	return ddsHeaderEnd
}

// hasBlockTable reports whether a block table magic follows the DDS headers.
func hasBlockTable(data []byte) bool {
	off := payloadOffset(data)
	if len(data) < off+4 {
		return false
	}

	magic := string(data[off : off+4])
	return magic == blockMagicCOPY || magic == blockMagicLZ4
}

// decodeDDS decodes the top mip level of a DDS or EDDS file.
func decodeDDS(data []byte) (image.Image, error) {
	r := bytes.NewReader(data)

	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}
	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, fmt.Errorf("%w: DX10: %v", ErrDDSHeaderRead, err)
	}

	format, desc := pixelFormat(header, dx10)
	if format == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrDDSPixelFormat, desc)
	}

	if header.Width == 0 || header.Height == 0 || header.Width > maxDimension || header.Height > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d, limit %d", ErrDDSDimensions, header.Width, header.Height, maxDimension)
	}

	width, height := int(header.Width), int(header.Height)
	want, err := levelSize(format, width, height)
	if err != nil {
		return nil, err
	}

	payload := data[len(data)-r.Len():]

	var pix []byte
	if hasBlockTable(data) {
		levels := uint32(1)
		if header.Caps&bcn.DDSCapsMipmap != 0 && header.MipMapCount > 0 {
			levels = header.MipMapCount
		}
		pix, err = readBlockChain(payload, levels, want)
	} else {
		pix, err = readSinglePayload(payload, want)
	}
	if err != nil {
		return nil, err
	}

	img, err := bcn.DecodeImageWithOptions(pix, width, height, format, nil)
	if err != nil {
		return nil, err
	}

	return img, nil
}

// readBlockChain reads an EDDS block table and returns the largest level,
// which is stored last.
func readBlockChain(payload []byte, levels uint32, want int) ([]byte, error) {
	tableLen := int(levels) * 8
	if len(payload) < tableLen {
		return nil, fmt.Errorf("%w: %d entries need %d bytes, have %d", ErrBlockTable, levels, tableLen, len(payload))
	}

	table, bodies := payload[:tableLen], payload[tableLen:]
	var top block
	for i := 0; i < int(levels); i++ {
		entry := table[i*8 : i*8+8]
		magic := string(entry[:4])
		size := int32(binary.LittleEndian.Uint32(entry[4:]))

		if magic != blockMagicCOPY && magic != blockMagicLZ4 {
			return nil, fmt.Errorf("%w: entry %d: magic %q", ErrBlockTable, i, magic)
		}
		if size < 0 || int(size) > len(bodies) {
			return nil, fmt.Errorf("%w: entry %d: size %d, %d bytes left", ErrBlockBody, i, size, len(bodies))
		}

		top = block{magic: magic, body: bodies[:size]}
		bodies = bodies[size:]
	}

	return unpackBlock(&top, want)
}

// readSinglePayload handles plain DDS files and legacy EDDS files that
// store one blob without a block table.
func readSinglePayload(payload []byte, want int) ([]byte, error) {
	if len(payload) >= want {
		out := make([]byte, want)
		copy(out, payload)
		return out, nil
	}

	pix, err := unpackChunks(stripSizePrefix(payload, want), want)
	if err != nil {
		return nil, fmt.Errorf("%w: %d of %d bytes: %v", ErrDDSPayload, len(payload), want, err)
	}

	return pix, nil
}

// encodeDDS writes a single-level uncompressed RGBA8 DDS file.
func encodeDDS(w io.Writer, img image.Image, _ *WriteOptions) error {
	b := img.Bounds()
	w32, err := u32FromInt(b.Dx())
	if err != nil {
		return err
	}
	h32, err := u32FromInt(b.Dy())
	if err != nil {
		return err
	}

	header, err := newDDSHeader(w32, h32, 1, bcn.FormatRGBA8)
	if err != nil {
		return err
	}

	data, _, _, err := bcn.EncodeImageWithOptions(img, bcn.FormatRGBA8, nil)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		return err
	}
	if err := bcn.WriteDDSHeader(&buf, header); err != nil {
		return err
	}
	buf.Write(data)

	_, err = w.Write(buf.Bytes())
	return err
}

// encodeEDDS writes a BGRA8 EDDS file with a mip chain. Levels are listed
// and stored smallest first.
func encodeEDDS(w io.Writer, img image.Image, opts *WriteOptions) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	levels, err := mipLevels(width, height)
	if err != nil {
		return err
	}
	if opts.MaxMipMaps > 0 && opts.MaxMipMaps < levels {
		levels = opts.MaxMipMaps
	}

	mips := bcn.GenerateMipmaps(img, false)
	if len(mips) > levels {
		mips = mips[:levels]
	}

	blocks := make([]*block, len(mips))
	for i, mip := range mips {
		data, _, _, err := bcn.EncodeImageWithOptions(mip, bcn.FormatBGRA8, nil)
		if err != nil {
			return fmt.Errorf("mipmap %d: %v", i, err)
		}
		want, err := levelSize(bcn.FormatBGRA8, mipSize(width, i), mipSize(height, i))
		if err != nil {
			return fmt.Errorf("mipmap %d: %w", i, err)
		}
		if len(data) != want {
			return fmt.Errorf("%w: mipmap %d: expected %d, got %d", ErrBlockBody, i, want, len(data))
		}

		blocks[i], err = packBlock(data, !opts.NoCompress)
		if err != nil {
			return fmt.Errorf("mipmap %d: %w", i, err)
		}
	}

	w32, err := u32FromInt(width)
	if err != nil {
		return err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return err
	}
	n32, err := u32FromInt(len(blocks))
	if err != nil {
		return err
	}

	header, err := newDDSHeader(w32, h32, n32, bcn.FormatBGRA8)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		return err
	}
	if err := bcn.WriteDDSHeader(&buf, header); err != nil {
		return err
	}

	out := buf.Bytes()
	for i := len(blocks) - 1; i >= 0; i-- {
		out = append(out, blocks[i].magic...)
		out = binary.LittleEndian.AppendUint32(out, uint32(blocks[i].size()))
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		out = blocks[i].appendBody(out)
	}

	_, err = w.Write(out)
	return err
}
