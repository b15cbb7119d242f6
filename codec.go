package pixbin

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic opens every framed container.
	Magic = "PNG\x00"
	// HeaderSize is the framed header length: magic, width, height, mode, data size.
	HeaderSize = 17
)

// RawImage is an uncompressed pixel buffer in row-major order.
type RawImage struct {
	Pixels []byte
	Width  uint32
	Height uint32
	Mode   Mode
}

// Header is the fixed-layout metadata that precedes pixel data in a framed container.
type Header struct {
	Width    uint32
	Height   uint32
	DataSize uint32
	Mode     Mode
}

// Dimensions supplies the layout of a headerless container.
type Dimensions struct {
	Width  uint32
	Height uint32
	Mode   Mode
}

// Validate checks the RawImage size invariant.
func (img *RawImage) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImageData)
	}
	if img.Width == 0 || img.Height == 0 {
		return fmt.Errorf("%w: empty image %dx%d", ErrInvalidImageData, img.Width, img.Height)
	}

	want, err := pixelDataLength(img.Width, img.Height, img.Mode)
	if err != nil && !errors.Is(err, ErrSizeOverflow) {
		return err
	}
	if err != nil || uint64(len(img.Pixels)) != want {
		return fmt.Errorf("%w: %dx%d %s needs %d bytes, got %d",
			ErrInvalidImageData, img.Width, img.Height, img.Mode, want, len(img.Pixels))
	}

	return nil
}

// Encode serializes img. With includeMetadata the pixel data is framed by
// the 17-byte header, otherwise only the pixel bytes are returned.
func Encode(img *RawImage, includeMetadata bool) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	if !includeMetadata {
		return bytes.Clone(img.Pixels), nil
	}

	dataSize, err := u32FromInt(len(img.Pixels))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes of pixel data", err, len(img.Pixels))
	}

	hdr := Header{
		Width:    img.Width,
		Height:   img.Height,
		Mode:     img.Mode,
		DataSize: dataSize,
	}

	out := make([]byte, 0, HeaderSize+len(img.Pixels))
	out = hdr.appendTo(out)
	out = append(out, img.Pixels...)

	return out, nil
}

// HasHeader reports whether data starts with the container magic.
func HasHeader(data []byte) bool {
	return len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic
}

// DecodeHeader parses the framed header at the start of data.
// It does not check the pixel payload.
func DecodeHeader(data []byte) (Header, error) {
	if !HasHeader(data) {
		return Header{}, fmt.Errorf("%w: missing magic", ErrTruncatedHeader)
	}
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedHeader, HeaderSize, len(data))
	}

	hdr := Header{
		Width:    binary.LittleEndian.Uint32(data[4:8]),
		Height:   binary.LittleEndian.Uint32(data[8:12]),
		Mode:     Mode(data[12]),
		DataSize: binary.LittleEndian.Uint32(data[13:17]),
	}
	if !hdr.Mode.Valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedMode, uint8(hdr.Mode))
	}

	return hdr, nil
}

// Decode deserializes a container. Framed data is self-describing and dims
// is ignored; headerless data requires dims.
func Decode(data []byte, dims *Dimensions) (*RawImage, error) {
	if HasHeader(data) {
		return decodeFramed(data)
	}

	return decodeHeaderless(data, dims)
}

func decodeFramed(data []byte) (*RawImage, error) {
	hdr, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[HeaderSize:]
	if uint64(len(payload)) != uint64(hdr.DataSize) {
		return nil, fmt.Errorf("%w: header declares %d bytes, %d follow", ErrSizeMismatch, hdr.DataSize, len(payload))
	}

	want, err := pixelDataLength(hdr.Width, hdr.Height, hdr.Mode)
	if err != nil && !errors.Is(err, ErrSizeOverflow) {
		return nil, err
	}
	if err != nil || want != uint64(hdr.DataSize) {
		return nil, fmt.Errorf("%w: %dx%d %s needs %d bytes, header declares %d",
			ErrDimensionMismatch, hdr.Width, hdr.Height, hdr.Mode, want, hdr.DataSize)
	}

	img := &RawImage{
		Width:  hdr.Width,
		Height: hdr.Height,
		Mode:   hdr.Mode,
		Pixels: bytes.Clone(payload),
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}

	return img, nil
}

func decodeHeaderless(data []byte, dims *Dimensions) (*RawImage, error) {
	if dims == nil || dims.Width == 0 || dims.Height == 0 || dims.Mode == 0 {
		return nil, fmt.Errorf("%w: headerless container needs width, height and mode", ErrMissingDimensions)
	}

	want, err := pixelDataLength(dims.Width, dims.Height, dims.Mode)
	if err != nil && !errors.Is(err, ErrSizeOverflow) {
		return nil, err
	}
	if err != nil || uint64(len(data)) != want {
		return nil, fmt.Errorf("%w: %dx%d %s needs %d bytes, have %d",
			ErrDimensionMismatch, dims.Width, dims.Height, dims.Mode, want, len(data))
	}

	return &RawImage{
		Width:  dims.Width,
		Height: dims.Height,
		Mode:   dims.Mode,
		Pixels: bytes.Clone(data),
	}, nil
}

func (h Header) appendTo(dst []byte) []byte {
	dst = append(dst, Magic...)
	dst = binary.LittleEndian.AppendUint32(dst, h.Width)
	dst = binary.LittleEndian.AppendUint32(dst, h.Height)
	dst = append(dst, byte(h.Mode))
	return binary.LittleEndian.AppendUint32(dst, h.DataSize)
}
