/*
Package imagefmt reads and writes the compressed image formats a container
is converted from and to: PNG, JPEG, GIF (read only), lossless WebP, and
DDS/EDDS through bcn.

Reading sniffs the format from the leading bytes; writing picks the format
from the destination extension.
*/
package imagefmt

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
)

// Format identifies an image file format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatWebP
	FormatDDS
	FormatEDDS
)

// WriteOptions tunes format encoders. Nil selects defaults.
type WriteOptions struct {
	// JPEGQuality is 1..100; 0 means 90.
	JPEGQuality int
	// MaxMipMaps limits the EDDS mip chain; 0 means full chain.
	MaxMipMaps int
	// NoCompress stores EDDS blocks as COPY instead of LZ4.
	NoCompress bool
}

type codec struct {
	decode func(data []byte) (image.Image, error)
	encode func(w io.Writer, img image.Image, opts *WriteOptions) error
	name   string
	exts   []string
}

var codecs = map[Format]codec{
	FormatPNG: {
		name:   "png",
		exts:   []string{".png"},
		decode: func(data []byte) (image.Image, error) { return png.Decode(bytes.NewReader(data)) },
		encode: func(w io.Writer, img image.Image, _ *WriteOptions) error { return png.Encode(w, img) },
	},
	FormatJPEG: {
		name:   "jpeg",
		exts:   []string{".jpg", ".jpeg"},
		decode: func(data []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(data)) },
		encode: encodeJPEG,
	},
	FormatGIF: {
		name:   "gif",
		exts:   []string{".gif"},
		decode: func(data []byte) (image.Image, error) { return gif.Decode(bytes.NewReader(data)) },
	},
	FormatWebP: {
		name:   "webp",
		exts:   []string{".webp"},
		decode: func(data []byte) (image.Image, error) { return webp.Decode(bytes.NewReader(data)) },
		encode: func(w io.Writer, img image.Image, _ *WriteOptions) error {
			return webp.Encode(w, img, &webp.Options{Lossless: true})
		},
	},
	FormatDDS: {
		name:   "dds",
		exts:   []string{".dds"},
		decode: decodeDDS,
		encode: encodeDDS,
	},
	FormatEDDS: {
		name:   "edds",
		exts:   []string{".edds"},
		decode: decodeDDS,
		encode: encodeEDDS,
	},
}

// String returns the short format name.
func (f Format) String() string {
	if c, ok := codecs[f]; ok {
		return c.name
	}

	return "unknown"
}

// CanEncode reports whether Encode supports f.
func (f Format) CanEncode() bool {
	c, ok := codecs[f]
	return ok && c.encode != nil
}

// ParseFormat resolves a format name or extension ("png", ".webp", "jpg").
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, c := range codecs {
		if c.name == name {
			return f, nil
		}
		for _, ext := range c.exts {
			if ext == name || ext[1:] == name {
				return f, nil
			}
		}
	}

	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatForPath returns the format matching the extension of path,
// or FormatUnknown.
func FormatForPath(path string) Format {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatUnknown
	}

	f, err := ParseFormat(ext)
	if err != nil {
		return FormatUnknown
	}

	return f
}

// Sniff identifies the format of data from its leading bytes.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	case bytes.HasPrefix(data, []byte(ddsMagic)):
		if hasBlockTable(data) {
			return FormatEDDS
		}
		return FormatDDS
	default:
		return FormatUnknown
	}
}

// Decode sniffs and decodes an image.
func Decode(data []byte) (image.Image, Format, error) {
	f := Sniff(data)
	c, ok := codecs[f]
	if !ok {
		return nil, FormatUnknown, ErrUnknownFormat
	}

	img, err := c.decode(data)
	if err != nil {
		return nil, f, fmt.Errorf("%w: %s: %v", ErrDecodeImage, f, err)
	}

	return img, f, nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, opts *WriteOptions) error {
	c, ok := codecs[f]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	if c.encode == nil {
		return fmt.Errorf("%w: %s", ErrEncodeUnsupported, f)
	}
	if opts == nil {
		opts = &WriteOptions{}
	}

	if err := c.encode(w, img, opts); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncodeImage, f, err)
	}

	return nil
}

func encodeJPEG(w io.Writer, img image.Image, opts *WriteOptions) error {
	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = 90
	}

	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
