package pixbin

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/pixbin/internal/imagefmt"
)

// EncodeOptions configures EncodeFile.
type EncodeOptions struct {
	// Fit downscales the source to fit inside the box before encoding.
	// Zero leaves the source size unchanged.
	Fit image.Point
	// IncludeMetadata writes the framed header before the pixel data.
	IncludeMetadata bool
}

// DecodeOptions configures DecodeFile.
type DecodeOptions struct {
	// Dimensions describes a headerless container. Framed containers ignore it.
	Dimensions *Dimensions
	// Format names the output image format ("png", "webp", "dds", ...).
	// Empty selects it from the destination extension, falling back to PNG.
	Format string
}

// Summary describes a completed conversion.
type Summary struct {
	Source      string
	Destination string
	ImageFormat string
	InputSize   int
	OutputSize  int
	Width       uint32
	Height      uint32
	Mode        Mode
	Header      bool
	ToImage     bool
}

// String renders the summary as a one-line message.
func (s Summary) String() string {
	framing := "headerless"
	if s.Header {
		framing = "with header"
	}

	if s.ToImage {
		return fmt.Sprintf("converted %s (%d bytes, %s) -> %s (%s, %dx%d %s, %d bytes)",
			s.Source, s.InputSize, framing, s.Destination, s.ImageFormat, s.Width, s.Height, s.Mode, s.OutputSize)
	}

	return fmt.Sprintf("converted %s (%s, %dx%d %s) -> %s (%d bytes, %s)",
		s.Source, s.ImageFormat, s.Width, s.Height, s.Mode, s.Destination, s.OutputSize, framing)
}

// DefaultContainerPath replaces the extension of path with ".bin".
func DefaultContainerPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".bin"
}

// DefaultImagePath replaces the extension of path with ".png".
func DefaultImagePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
}

// EncodeFile decodes the image at src and writes it to dst as a container.
// An empty dst derives the path from src. Nil opts writes a framed container.
func EncodeFile(src, dst string, opts *EncodeOptions) (Summary, error) {
	if opts == nil {
		opts = &EncodeOptions{IncludeMetadata: true}
	}
	if dst == "" {
		dst = DefaultContainerPath(src)
	}

	sum := Summary{Source: src, Destination: dst, Header: opts.IncludeMetadata}

	data, err := readSource(src)
	if err != nil {
		return sum, err
	}
	sum.InputSize = len(data)

	img, format, err := imagefmt.Decode(data)
	if err != nil {
		return sum, fmt.Errorf("%w: %q: %v", ErrUnsupportedSourceFormat, src, err)
	}
	sum.ImageFormat = format.String()

	if opts.Fit != (image.Point{}) {
		img = imagefmt.Fit(img, opts.Fit)
	}

	raw, err := FromImage(img)
	if err != nil {
		return sum, err
	}
	sum.Width, sum.Height, sum.Mode = raw.Width, raw.Height, raw.Mode

	out, err := Encode(raw, opts.IncludeMetadata)
	if err != nil {
		return sum, err
	}

	if err := writeDestination(dst, out); err != nil {
		return sum, err
	}
	sum.OutputSize = len(out)

	return sum, nil
}

// DecodeFile reads the container at src and writes it to dst as a
// compressed image. An empty dst derives the path from src.
func DecodeFile(src, dst string, opts *DecodeOptions) (Summary, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	if dst == "" {
		dst = DefaultImagePath(src)
	}

	sum := Summary{Source: src, Destination: dst, ToImage: true}

	data, err := readSource(src)
	if err != nil {
		return sum, err
	}
	sum.InputSize = len(data)
	sum.Header = HasHeader(data)

	raw, err := Decode(data, opts.Dimensions)
	if err != nil {
		return sum, err
	}
	sum.Width, sum.Height, sum.Mode = raw.Width, raw.Height, raw.Mode

	format, err := outputFormat(dst, opts.Format)
	if err != nil {
		return sum, err
	}
	sum.ImageFormat = format.String()

	img, err := raw.Image()
	if err != nil {
		return sum, err
	}

	var buf bytes.Buffer
	if err := imagefmt.Encode(&buf, img, format, nil); err != nil {
		return sum, fmt.Errorf("%w: %q: %v", ErrDestinationUnwritable, dst, err)
	}

	if err := writeDestination(dst, buf.Bytes()); err != nil {
		return sum, err
	}
	sum.OutputSize = buf.Len()

	return sum, nil
}

// ReadConfig reads only the framed header of the container at path.
func ReadConfig(path string) (Header, error) {
	f, err := openSource(path)
	if err != nil {
		return Header{}, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Header{}, fmt.Errorf("%w: %q: %v", ErrSourceUnreadable, path, err)
	}

	return DecodeHeader(buf[:n])
}

func outputFormat(dst, name string) (imagefmt.Format, error) {
	format := imagefmt.FormatForPath(dst)
	if name != "" {
		f, err := imagefmt.ParseFormat(name)
		if err != nil {
			return imagefmt.FormatUnknown, fmt.Errorf("%w: %v", ErrDestinationUnwritable, err)
		}
		format = f
	}
	if format == imagefmt.FormatUnknown {
		format = imagefmt.FormatPNG
	}
	if !format.CanEncode() {
		return imagefmt.FormatUnknown, fmt.Errorf("%w: %q: %s output is not supported", ErrDestinationUnwritable, dst, format)
	}

	return format, nil
}

func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrSourceUnreadable, path, err)
	}

	return f, nil
}

// readSource reads the whole file at path, closing it on every path.
func readSource(path string) ([]byte, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSourceUnreadable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %q is a directory", ErrSourceUnreadable, path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSourceUnreadable, path, err)
	}

	return data, nil
}

// writeDestination truncates or creates path and stores data in one write.
func writeDestination(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrDestinationUnwritable, path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %q: %v", ErrDestinationUnwritable, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrDestinationUnwritable, path, err)
	}

	return nil
}
