package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, ColorRed)
	img.SetRGBA(2, 1, ColorBlue)
	return img
}

func TestSaveImageFormats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		file   string
		decode func(f *os.File) (image.Image, error)
	}{
		{"bmp", "nested/dir/out.bmp", func(f *os.File) (image.Image, error) { return bmp.Decode(f) }},
		{"png", "out.PNG", func(f *os.File) (image.Image, error) { return png.Decode(f) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			if err := SaveImage(testImage(), path); err != nil {
				t.Fatal(err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := tc.decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			r, g, b, _ := img.At(0, 0).RGBA()
			if r>>8 != 255 || g != 0 || b != 0 {
				t.Errorf("pixel (0,0) = %v, want red", img.At(0, 0))
			}
			if _, _, b, _ := img.At(2, 1).RGBA(); b>>8 != 255 {
				t.Errorf("pixel (2,1) = %v, want blue", img.At(2, 1))
			}
		})
	}

	if err := SaveImage(testImage(), filepath.Join(dir, "out.jpg")); err == nil {
		t.Error("expected an error for .jpg")
	}
}

func TestDefaultExportPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	got, err := DefaultExportPath("PerspectiveCamera", 42)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "Export", "PerspectiveCamera_42_Export_Map.bmp"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(ColorGreen)
	path := filepath.Join(t.TempDir(), "fb.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
