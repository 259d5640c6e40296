//go:build gocv

package imageutil

import (
	"fmt"

	"gocv.io/x/gocv"
)

// LoadGrayCV loads an image with OpenCV's decoder, converting to grayscale
// at read time. Requires OpenCV and the gocv build tag.
func LoadGrayCV(path string) (*GrayImage, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode image: %s", path)
	}

	height, width := mat.Rows(), mat.Cols()
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Gray.Pix[y*img.Stride+x] = mat.GetUCharAt(y, x)
		}
	}
	return img, nil
}
