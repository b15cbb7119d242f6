// Package main provides the pixbin command line interface.
//
// It converts images to raw RGBA containers and back:
//
//	pixbin <input.png> [output.bin]
//	pixbin --to-png <input.bin> [output.png]
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/pixbin"
)

const version = "0.1.0"

type options struct {
	fit     string
	format  string
	toPNG   bool
	raw     bool
	info    bool
	verbose bool
	version bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pixbin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	var opts options
	fs.BoolVar(&opts.toPNG, "to-png", false, "convert a container back to an image")
	fs.BoolVar(&opts.raw, "raw", false, "write pixel data without the header")
	fs.StringVar(&opts.fit, "fit", "", "downscale to fit WxH before encoding")
	fs.StringVar(&opts.format, "format", "", "output image format for --to-png (png, jpeg, webp, dds, edds)")
	fs.BoolVar(&opts.info, "info", false, "print the container header")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")
	fs.BoolVar(&opts.version, "version", false, "print version")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "pixbin %s\n", version)
		return 0
	}

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		usage(stderr)
		return 1
	}

	logger := log.New(io.Discard, "", 0)
	if opts.verbose {
		logger.SetOutput(stderr)
	}

	src, dst := rest[0], ""
	if len(rest) == 2 {
		dst = rest[1]
	}

	if opts.info {
		return printInfo(src, stdout, stderr)
	}

	var (
		sum pixbin.Summary
		err error
	)
	if opts.toPNG {
		logger.Printf("decoding container %s", src)
		sum, err = pixbin.DecodeFile(src, dst, &pixbin.DecodeOptions{Format: opts.format})
	} else {
		fit, perr := parseFit(opts.fit)
		if perr != nil {
			fmt.Fprintf(stderr, "Error: invalid -fit %q: %v\n", opts.fit, perr)
			return 1
		}
		logger.Printf("encoding image %s (header=%t, fit=%v)", src, !opts.raw, fit)
		sum, err = pixbin.EncodeFile(src, dst, &pixbin.EncodeOptions{IncludeMetadata: !opts.raw, Fit: fit})
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", pixbin.KindOf(err), err)
		return 1
	}

	logger.Printf("read %d bytes, wrote %d bytes", sum.InputSize, sum.OutputSize)
	fmt.Fprintln(stdout, sum.String())
	return 0
}

func printInfo(path string, stdout, stderr io.Writer) int {
	hdr, err := pixbin.ReadConfig(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", pixbin.KindOf(err), err)
		return 1
	}

	fmt.Fprintf(stdout, "Size:      %dx%d\n", hdr.Width, hdr.Height)
	fmt.Fprintf(stdout, "Mode:      %s (%d)\n", hdr.Mode, uint8(hdr.Mode))
	fmt.Fprintf(stdout, "Data size: %d bytes\n", hdr.DataSize)
	return 0
}

// parseFit parses "WxH", "Wx" or "xH"; empty means no limit.
func parseFit(s string) (image.Point, error) {
	if s == "" {
		return image.Point{}, nil
	}

	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("expected WxH")
	}

	var p image.Point
	var err error
	if ws != "" {
		if p.X, err = strconv.Atoi(ws); err != nil || p.X < 0 {
			return image.Point{}, fmt.Errorf("bad width %q", ws)
		}
	}
	if hs != "" {
		if p.Y, err = strconv.Atoi(hs); err != nil || p.Y < 0 {
			return image.Point{}, fmt.Errorf("bad height %q", hs)
		}
	}
	if p.X == 0 && p.Y == 0 {
		return image.Point{}, fmt.Errorf("expected WxH")
	}

	return p, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "pixbin - raw RGBA container converter")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pixbin [-raw] [-fit WxH] <input.png> [output.bin]")
	fmt.Fprintln(w, "  pixbin --to-png [-format png|jpeg|webp|dds|edds] <input.bin> [output.png]")
	fmt.Fprintln(w, "  pixbin -info <input.bin>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -to-png        Convert a container back to an image")
	fmt.Fprintln(w, "  -raw           Write pixel data only (no header)")
	fmt.Fprintln(w, "  -fit WxH       Downscale to fit inside WxH before encoding")
	fmt.Fprintln(w, "  -format NAME   Output image format (default from extension, then png)")
	fmt.Fprintln(w, "  -info          Print the container header")
	fmt.Fprintln(w, "  -v             Verbose output")
	fmt.Fprintln(w, "  -version       Print version")
}
