package imagefmt

import (
	"bytes"
	"errors"
	"testing"
)

func patternBytes(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte((i*31 + 7) & 0xff)
	}
	return data
}

func TestPackBlockRoundTrip(t *testing.T) {
	t.Parallel()

	// The tail chunk must compress too, or the whole level is stored as COPY.
	data := patternBytes(128*1024 + 4096)

	b, err := packBlock(data, true)
	if err != nil {
		t.Fatalf("packBlock: %v", err)
	}
	if b.magic != blockMagicLZ4 {
		t.Fatalf("expected LZ4 block for repetitive data, got %q", b.magic)
	}
	if b.size() >= len(data) {
		t.Fatalf("compressed size %d not below raw %d", b.size(), len(data))
	}

	body := b.appendBody(nil)
	out, err := unpackBlock(&block{magic: b.magic, body: body}, len(data))
	if err != nil {
		t.Fatalf("unpackBlock: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestPackBlockCOPYFallback(t *testing.T) {
	t.Parallel()

	random := make([]byte, 4096)
	x := uint32(2463534242)
	for i := range random {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		random[i] = byte(x)
	}

	tests := []struct {
		name     string
		data     []byte
		compress bool
	}{
		{name: "small", data: patternBytes(512), compress: true},
		{name: "incompressible", data: random, compress: true},
		{name: "disabled", data: patternBytes(8192), compress: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b, err := packBlock(tc.data, tc.compress)
			if err != nil {
				t.Fatalf("packBlock: %v", err)
			}
			if b.magic != blockMagicCOPY {
				t.Fatalf("magic = %q, want COPY", b.magic)
			}

			out, err := unpackBlock(b, len(tc.data))
			if err != nil {
				t.Fatalf("unpackBlock: %v", err)
			}
			if !bytes.Equal(out, tc.data) {
				t.Fatalf("COPY round-trip mismatch")
			}
		})
	}
}

func TestUnpackErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		b       *block
		want    int
		wantErr error
	}{
		{name: "copy-size", b: &block{magic: blockMagicCOPY, body: make([]byte, 7)}, want: 8, wantErr: ErrCopySizeMismatch},
		{name: "unknown-magic", b: &block{magic: "ABCD", body: make([]byte, 8)}, want: 8, wantErr: ErrBlockTable},
		{name: "truncated-header", b: &block{magic: blockMagicLZ4, body: []byte{1, 0}}, want: 8, wantErr: ErrChunkStream},
		{name: "bad-flags", b: &block{magic: blockMagicLZ4, body: []byte{1, 0, 0, 0x01, 0}}, want: 8, wantErr: ErrChunkStream},
		{name: "chunk-overrun", b: &block{magic: blockMagicLZ4, body: []byte{9, 0, 0, chunkLast, 0}}, want: 8, wantErr: ErrChunkStream},
		{name: "inflate-bound", b: &block{magic: blockMagicLZ4, body: []byte{1, 0, 0, chunkLast, 0}}, want: 1 << 30, wantErr: ErrChunkStream},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := unpackBlock(tc.b, tc.want)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("unpackBlock() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestStripSizePrefix(t *testing.T) {
	t.Parallel()

	stream := []byte{5, 0, 0, chunkLast, 1, 2, 3, 4, 5}
	prefixed := append([]byte{0x00, 0x01, 0x00, 0x00}, stream...)

	if got := stripSizePrefix(prefixed, 256); !bytes.Equal(got, stream) {
		t.Fatalf("prefix not stripped: % x", got)
	}
	if got := stripSizePrefix(prefixed, 300); !bytes.Equal(got, prefixed) {
		t.Fatalf("prefix stripped for a different size")
	}
	if got := stripSizePrefix(stream, 256); !bytes.Equal(got, stream) {
		t.Fatalf("unprefixed stream changed")
	}
}
