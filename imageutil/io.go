package imageutil

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Loader decodes the image at path and normalises it to 8-bit grayscale.
type Loader func(path string) (*GrayImage, error)

// Loader names accepted by LoaderByName.
const (
	LoaderImaging = "imaging"
	LoaderStdlib  = "stdlib"
	LoaderGoCV    = "gocv"
)

// ErrLoaderUnavailable is returned by loaders that were not compiled in.
var ErrLoaderUnavailable = errors.New("image loader not available in this build")

// LoaderByName returns the loader registered under name. An empty name
// selects the imaging loader.
func LoaderByName(name string) (Loader, error) {
	switch strings.ToLower(name) {
	case "", LoaderImaging:
		return LoadGray, nil
	case LoaderStdlib:
		return LoadGrayStd, nil
	case LoaderGoCV:
		return LoadGrayCV, nil
	default:
		return nil, fmt.Errorf("unknown image loader %q", name)
	}
}

// LoadGray loads an image with imaging, honouring EXIF orientation, and
// converts it to grayscale. Supports PNG, JPEG, GIF, BMP, TIFF and WebP.
func LoadGray(path string) (*GrayImage, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return NRGBAToGray(imaging.Grayscale(img)), nil
}

// LoadGrayStd loads an image through image.Decode and converts it with the
// BT.601 luminance formula.
func LoadGrayStd(path string) (*GrayImage, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return ToGrayscale(img), nil
}

// LoadImage loads an image from the specified path.
func LoadImage(path string) (*RGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return RGBAImageFromImage(img), nil
}

// SavePNG saves an image as PNG to the specified path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

// SaveGrayImage saves a grayscale image as PNG to the specified path.
func SaveGrayImage(img *GrayImage, path string) error {
	return SavePNG(img.Gray, path)
}
