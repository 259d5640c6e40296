// Package imageutil provides the image plumbing for glyphmatch: decoding
// glyph images from disk, normalising them to 8-bit grayscale, and building
// synthetic rasters for tests.
package imageutil

import (
	"image"
	"image/color"
)

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to RGBAImage.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GrayImage wraps image.Gray for single-channel glyph rasters. The origin
// is always (0, 0).
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// GrayImageFromImage converts any image.Image to GrayImage using the
// color.GrayModel conversion of the standard library.
func GrayImageFromImage(img image.Image) *GrayImage {
	bounds := img.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return gray
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Pixels returns a row-major copy of the pixel values, width*height long,
// with no stride padding.
func (img *GrayImage) Pixels() []uint8 {
	width, height := img.Width(), img.Height()
	pix := make([]uint8, 0, width*height)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width]
		pix = append(pix, row...)
	}
	return pix
}

// Clone creates a deep copy of the image.
func (img *GrayImage) Clone() *GrayImage {
	clone := NewGrayImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}
