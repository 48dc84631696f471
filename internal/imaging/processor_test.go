// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strconv"
	"strings"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestIsSupportedType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"image/tiff", false},
		{"application/pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsSupportedType(tt.mimeType); got != tt.want {
				t.Errorf("IsSupportedType(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, createTestImage(4, 4), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", encodePNG(t, createTestImage(4, 4)), "png"},
		{"jpeg", jpg.Bytes(), "jpeg"},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "gif"},
		{"tiff", []byte("II*\x00\x08\x00\x00\x00"), ""},
		{"text", []byte("hello world"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatToMimeType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", MimeTypeJPEG},
		{"jpg", MimeTypeJPEG},
		{"png", MimeTypePNG},
		{"gif", MimeTypeGIF},
		{"webp", MimeTypeWebP},
		{"bmp", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := formatToMimeType(tt.format); got != tt.want {
				t.Errorf("formatToMimeType(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	for _, orientation := range []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9} {
		t.Run("orientation_"+strconv.Itoa(orientation), func(t *testing.T) {
			img := createTestImage(10, 6)
			result := applyOrientation(img, orientation)
			if result == nil {
				t.Fatal("applyOrientation returned nil")
			}

			b := result.Bounds()
			swapped := orientation >= 5 && orientation <= 8
			if swapped && (b.Dx() != 6 || b.Dy() != 10) {
				t.Errorf("orientation %d: got %dx%d, want 6x10", orientation, b.Dx(), b.Dy())
			}
			if !swapped && (b.Dx() != 10 || b.Dy() != 6) {
				t.Errorf("orientation %d: got %dx%d, want 10x6", orientation, b.Dx(), b.Dy())
			}
		})
	}
}

func TestProcessPNG(t *testing.T) {
	p := NewProcessor(1 << 20)

	res, err := p.Process(bytes.NewReader(encodePNG(t, createTestImage(20, 10))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.MimeType != MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, MimeTypePNG)
	}
	if res.Width != 20 || res.Height != 10 {
		t.Errorf("dimensions = %dx%d, want 20x10", res.Width, res.Height)
	}

	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(res.DataURL, prefix) {
		t.Fatalf("DataURL prefix = %q", res.DataURL[:min(len(res.DataURL), 30)])
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(res.DataURL, prefix))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	if len(raw) != res.Size {
		t.Errorf("Size = %d, decoded %d bytes", res.Size, len(raw))
	}
	if _, err := png.Decode(bytes.NewReader(raw)); err != nil {
		t.Errorf("payload is not a PNG: %v", err)
	}
}

func TestProcessDownsizes(t *testing.T) {
	p := NewProcessor(1 << 20).WithBounds(16, 16)

	res, err := p.Process(bytes.NewReader(encodePNG(t, createTestImage(64, 32))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 16 || res.Height != 8 {
		t.Errorf("dimensions = %dx%d, want 16x8", res.Width, res.Height)
	}
}

func TestProcessRejects(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		data := encodePNG(t, createTestImage(32, 32))
		p := NewProcessor(int64(len(data) - 1))
		if _, err := p.Process(bytes.NewReader(data)); !errors.Is(err, ErrTooLarge) {
			t.Errorf("err = %v, want ErrTooLarge", err)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		p := NewProcessor(1 << 20)
		if _, err := p.Process(strings.NewReader("plain text upload")); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("err = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("truncated png", func(t *testing.T) {
		data := encodePNG(t, createTestImage(32, 32))
		p := NewProcessor(1 << 20)
		if _, err := p.Process(bytes.NewReader(data[:40])); err == nil {
			t.Error("expected decode error")
		}
	})
}
