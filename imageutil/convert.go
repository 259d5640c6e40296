package imageutil

import (
	"image"
	"image/color"
)

// ToGrayscale converts an RGBA image to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B
// This matches the BT.601 standard used by OpenCV's COLOR_BGR2GRAY.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(x, y)
			// Integer BT.601, rounded
			lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
			if lum > 255 {
				lum = 255
			}
			gray.Gray.SetGray(x, y, color.Gray{Y: uint8(lum)})
		}
	}

	return gray
}

// NRGBAToGray copies the red channel of a desaturated NRGBA image, such as
// the output of imaging.Grayscale, into a GrayImage. Alpha is ignored.
func NRGBAToGray(img *image.NRGBA) *GrayImage {
	bounds := img.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			gray.SetGrayValue(x-bounds.Min.X, y-bounds.Min.Y, c.R)
		}
	}

	return gray
}
