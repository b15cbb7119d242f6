package imagefmt

import "errors"

var (
	// ErrUnknownFormat indicates data that matches no supported image format.
	ErrUnknownFormat = errors.New("unknown image format")
	// ErrEncodeUnsupported indicates a format that can be read but not written.
	ErrEncodeUnsupported = errors.New("encoding not supported")
	// ErrDecodeImage indicates the format decoder rejected the data.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrEncodeImage indicates the format encoder failed.
	ErrEncodeImage = errors.New("encode image failed")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrDDSHeaderRead indicates DDS header read failed.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSPixelFormat indicates a DDS pixel format bcn cannot decode.
	ErrDDSPixelFormat = errors.New("unsupported DDS pixel format")
	// ErrDDSDimensions indicates DDS width or height is zero or above the supported limit.
	ErrDDSDimensions = errors.New("invalid DDS dimensions")
	// ErrDDSPayload indicates the DDS payload is shorter than the top mip level.
	ErrDDSPayload = errors.New("DDS payload truncated")
	// ErrBlockTable indicates a malformed EDDS block table.
	ErrBlockTable = errors.New("invalid block table")
	// ErrBlockBody indicates a missing or short EDDS block body.
	ErrBlockBody = errors.New("invalid block body")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrChunkStream indicates a malformed LZ4 chunk stream.
	ErrChunkStream = errors.New("invalid LZ4 chunk stream")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
)
