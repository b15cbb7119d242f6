package imagefmt

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

const (
	blockMagicCOPY = "COPY"
	blockMagicLZ4  = "LZ4 "

	// chunkSize is the uncompressed span of one LZ4 chunk and the
	// dictionary window carried between chunks.
	chunkSize = 64 * 1024
	// chunkLast flags the final chunk of a stream.
	chunkLast = 0x80
	// maxChunkLen is the largest compressed chunk the 24-bit length field holds.
	maxChunkLen = 0x7fffff
	// minCompressLen keeps tiny levels as COPY blocks.
	minCompressLen = 1024
	// worthRatio is the largest compressed/raw ratio kept as LZ4.
	worthRatio = 0.85
	// maxExpansion is the LZ4 block format's worst-case inflate ratio.
	maxExpansion = 255
)

// block is one mip level body in an EDDS block table.
type block struct {
	magic   string
	body    []byte
	rawSize int
}

// size is the table entry size: LZ4 bodies carry a 4-byte raw size prefix.
func (b *block) size() int {
	if b.magic == blockMagicLZ4 {
		return 4 + len(b.body)
	}
	return len(b.body)
}

// appendBody appends the block body as stored after the table.
func (b *block) appendBody(dst []byte) []byte {
	if b.magic == blockMagicLZ4 {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(b.rawSize))
	}
	return append(dst, b.body...)
}

// packBlock stores raw as an LZ4 chunk stream when that saves enough space,
// and as COPY otherwise.
func packBlock(raw []byte, compress bool) (*block, error) {
	if _, err := i32FromInt(len(raw)); err != nil {
		return nil, fmt.Errorf("%w: %d bytes", err, len(raw))
	}

	copyBlock := &block{magic: blockMagicCOPY, body: raw, rawSize: len(raw)}
	if !compress || len(raw) < minCompressLen {
		return copyBlock, nil
	}

	stream, err := packChunks(raw)
	if err != nil {
		return nil, err
	}
	if stream == nil || float64(4+len(stream)) > float64(len(raw))*worthRatio {
		return copyBlock, nil
	}
	if _, err := i32FromInt(4 + len(stream)); err != nil {
		return nil, fmt.Errorf("%w: compressed %d bytes", err, len(stream))
	}

	return &block{magic: blockMagicLZ4, body: stream, rawSize: len(raw)}, nil
}

// packChunks compresses raw into 64 KiB chunks, each framed by a 24-bit
// compressed length and a flags byte. It returns nil when any chunk fails
// to shrink enough to be worth storing.
func packChunks(raw []byte) ([]byte, error) {
	scratch := make([]byte, lz4.CompressBlockBound(chunkSize))
	stream := make([]byte, 0, len(raw)/2)

	for start := 0; start < len(raw); start += chunkSize {
		end := min(start+chunkSize, len(raw))
		src := raw[start:end]

		n, err := lz4.CompressBlockHC(src, scratch, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(src))*worthRatio {
			return nil, nil
		}
		if n > maxChunkLen {
			return nil, fmt.Errorf("%w: chunk of %d bytes", ErrLZ4Compress, n)
		}

		var flags byte
		if end == len(raw) {
			flags = chunkLast
		}
		stream = append(stream, byte(n), byte(n>>8), byte(n>>16), flags)
		stream = append(stream, scratch[:n]...)
	}

	return stream, nil
}

// unpackBlock returns the raw bytes of b, which must decode to want bytes.
func unpackBlock(b *block, want int) ([]byte, error) {
	switch b.magic {
	case blockMagicCOPY:
		if len(b.body) != want {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, want, len(b.body))
		}
		out := make([]byte, want)
		copy(out, b.body)
		return out, nil
	case blockMagicLZ4:
		return unpackChunks(stripSizePrefix(b.body, want), want)
	default:
		return nil, fmt.Errorf("%w: unknown magic %q", ErrBlockTable, b.magic)
	}
}

// stripSizePrefix drops the 4-byte raw size in front of a chunk stream.
// Legacy single-blob files omit it, so the prefix is only trusted when it
// equals the expected size and a plausible chunk header follows.
func stripSizePrefix(body []byte, want int) []byte {
	if len(body) < 8 {
		return body
	}

	prefix := int(binary.LittleEndian.Uint32(body[:4]))
	first := int(body[4]) | int(body[5])<<8 | int(body[6])<<16
	if prefix == want && first > 0 && first < 1<<20 {
		return body[4:]
	}

	return body
}

// unpackChunks inflates a chunk stream into exactly size bytes. Each chunk
// may reference the previous 64 KiB of output as its dictionary.
func unpackChunks(stream []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: target size %d", ErrChunkStream, size)
	}
	if size/maxExpansion > len(stream) {
		return nil, fmt.Errorf("%w: %d bytes cannot inflate to %d", ErrChunkStream, len(stream), size)
	}

	out := make([]byte, size)
	pos := 0

	for {
		if len(stream) < 4 {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrChunkStream)
		}

		n := int(stream[0]) | int(stream[1])<<8 | int(stream[2])<<16
		flags := stream[3]
		stream = stream[4:]

		if flags&^chunkLast != 0 {
			return nil, fmt.Errorf("%w: unknown flags 0x%02x", ErrChunkStream, flags)
		}
		if n <= 0 || n > len(stream) {
			return nil, fmt.Errorf("%w: chunk length %d, %d bytes left", ErrChunkStream, n, len(stream))
		}
		if pos >= size {
			return nil, fmt.Errorf("%w: data past %d bytes", ErrChunkStream, size)
		}

		dict := out[max(pos-chunkSize, 0):pos]
		dst := out[pos:min(pos+chunkSize, size)]
		written, err := lz4.UncompressBlockWithDict(stream[:n], dst, dict)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}

		pos += written
		stream = stream[n:]

		if flags&chunkLast != 0 {
			break
		}
	}

	if pos != size {
		return nil, fmt.Errorf("%w: decoded %d of %d bytes", ErrChunkStream, pos, size)
	}
	if len(stream) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrChunkStream, len(stream))
	}

	return out, nil
}
