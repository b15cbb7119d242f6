package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRunRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "red.png")
	writeTestPNG(t, src)

	var stdout, stderr bytes.Buffer
	if code := run([]string{src}, &stdout, &stderr); code != 0 {
		t.Fatalf("encode exit = %d, stderr: %s", code, stderr.String())
	}

	bin := filepath.Join(dir, "red.bin")
	data, err := os.ReadFile(bin)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 417 {
		t.Fatalf("container = %d bytes, want 417", len(data))
	}

	stdout.Reset()
	if code := run([]string{"-info", bin}, &stdout, &stderr); code != 0 {
		t.Fatalf("info exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "10x10") || !strings.Contains(stdout.String(), "400 bytes") {
		t.Fatalf("unexpected info output: %s", stdout.String())
	}

	out := filepath.Join(dir, "back.png")
	if code := run([]string{"--to-png", bin, out}, &stdout, &stderr); code != 0 {
		t.Fatalf("decode exit = %d, stderr: %s", code, stderr.String())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(3, 3)).(color.NRGBA); got != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	if code := run([]string{filepath.Join(dir, "missing.png")}, &stdout, &stderr); code == 0 {
		t.Fatalf("expected failure for missing input")
	}
	if !strings.HasPrefix(stderr.String(), "Error: SourceNotFound:") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}

	stderr.Reset()
	if code := run(nil, &stdout, &stderr); code == 0 {
		t.Fatalf("expected failure without arguments")
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Fatalf("usage not printed: %q", stderr.String())
	}

	stderr.Reset()
	src := filepath.Join(dir, "in.png")
	writeTestPNG(t, src)
	if code := run([]string{"-fit", "abc", src}, &stdout, &stderr); code == 0 {
		t.Fatalf("expected failure for bad -fit")
	}
}

func TestParseFit(t *testing.T) {
	tests := []struct {
		in      string
		want    image.Point
		wantErr bool
	}{
		{in: "", want: image.Point{}},
		{in: "320x240", want: image.Pt(320, 240)},
		{in: "128X", want: image.Pt(128, 0)},
		{in: "x64", want: image.Pt(0, 64)},
		{in: "x", wantErr: true},
		{in: "12", wantErr: true},
		{in: "-1x5", wantErr: true},
	}

	for _, tc := range tests {
		got, err := parseFit(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("parseFit(%q) error = %v, wantErr %t", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("parseFit(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
