package imageutil

import "math"

// CreateSolidGray creates a uniform-intensity image.
func CreateSolidGray(width, height int, v uint8) *GrayImage {
	img := NewGrayImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// CreateGradientGray creates a horizontal gradient from 0 to 255.
func CreateGradientGray(width, height int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(0)
			if width > 1 {
				v = uint8(255 * x / (width - 1))
			}
			img.SetGrayValue(x, y, v)
		}
	}
	return img
}

// CreateCheckerboardGray creates a checkerboard of 0/255 squares with the
// top-left square white. A squareSize of 1 alternates every pixel.
func CreateCheckerboardGray(width, height, squareSize int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetGrayValue(x, y, 255)
			}
		}
	}
	return img
}

// CreateBarGlyph draws a dark horizontal bar on a white background,
// roughly the shape of a '-' glyph. thickness is in pixels.
func CreateBarGlyph(width, height, thickness int) *GrayImage {
	img := CreateSolidGray(width, height, 255)
	top := (height - thickness) / 2
	for y := top; y < top+thickness && y < height; y++ {
		for x := width / 6; x < width-width/6; x++ {
			img.SetGrayValue(x, y, 0)
		}
	}
	return img
}

// CreateCrossGlyph draws a dark '+' on a white background.
func CreateCrossGlyph(width, height, thickness int) *GrayImage {
	img := CreateBarGlyph(width, height, thickness)
	left := (width - thickness) / 2
	for y := height / 6; y < height-height/6; y++ {
		for x := left; x < left+thickness && x < width; x++ {
			img.SetGrayValue(x, y, 0)
		}
	}
	return img
}

// CreateRingGlyph draws a dark ring on a white background, roughly the
// shape of a '0' glyph.
func CreateRingGlyph(width, height, thickness int) *GrayImage {
	img := CreateSolidGray(width, height, 255)
	cx, cy := float64(width-1)/2, float64(height-1)/2
	rx, ry := float64(width)/2-1, float64(height)/2-1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := (float64(x)-cx)/rx, (float64(y)-cy)/ry
			d := math.Sqrt(dx*dx + dy*dy)
			inner := 1 - float64(thickness)/math.Min(rx, ry)
			if d <= 1 && d >= inner {
				img.SetGrayValue(x, y, 0)
			}
		}
	}
	return img
}

// CalculateMSEGray calculates the Mean Squared Error between two grayscale images.
func CalculateMSEGray(img1, img2 *GrayImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	count := float64(width * height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v1 := float64(img1.GrayAt(x, y).Y)
			v2 := float64(img2.GrayAt(x, y).Y)
			d := v1 - v2
			sumSq += d * d
		}
	}

	return sumSq / count
}
