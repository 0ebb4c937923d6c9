package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ExportDir is the directory, relative to the working directory, that
// default export paths point into.
const ExportDir = "Export"

// DefaultExportPath returns <cwd>/Export/<typeName>_<id>_Export_Map.bmp.
func DefaultExportPath(typeName string, id uint64) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("export path: %w", err)
	}
	return filepath.Join(wd, ExportDir, fmt.Sprintf("%s_%d_Export_Map.bmp", typeName, id)), nil
}

// ExportBMP writes img as a BMP file, creating parent directories.
func ExportBMP(img image.Image, path string) error {
	return writeImage(path, img, bmp.Encode)
}

// ExportPNG writes img as a PNG file, creating parent directories.
func ExportPNG(img image.Image, path string) error {
	return writeImage(path, img, png.Encode)
}

// SaveImage picks the encoder from the file extension: .bmp or .png.
func SaveImage(img image.Image, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmp":
		return ExportBMP(img, path)
	case ".png":
		return ExportPNG(img, path)
	default:
		return fmt.Errorf("unsupported image format %q (use .bmp or .png)", ext)
	}
}

func writeImage(path string, img image.Image, encode func(w io.Writer, m image.Image) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
