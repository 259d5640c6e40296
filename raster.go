package glyphmatch

import (
	"errors"
	"fmt"

	"github.com/wbrown/glyphmatch/imageutil"
)

// ErrEmptyRaster is returned when a raster would have no pixels.
var ErrEmptyRaster = errors.New("raster has zero width or height")

// Raster is an immutable grid of 8-bit intensities stored row-major.
type Raster struct {
	width, height int
	pix           []uint8
}

// NewRaster copies pix into a width x height raster.
func NewRaster(width, height int, pix []uint8) (Raster, error) {
	if width <= 0 || height <= 0 {
		return Raster{}, ErrEmptyRaster
	}
	if len(pix) != width*height {
		return Raster{}, fmt.Errorf("raster %dx%d needs %d pixels, got %d",
			width, height, width*height, len(pix))
	}
	owned := make([]uint8, len(pix))
	copy(owned, pix)
	return Raster{width: width, height: height, pix: owned}, nil
}

// RasterFromGray snapshots a grayscale image.
func RasterFromGray(img *imageutil.GrayImage) (Raster, error) {
	return NewRaster(img.Width(), img.Height(), img.Pixels())
}

// Width returns the raster width.
func (r Raster) Width() int { return r.width }

// Height returns the raster height.
func (r Raster) Height() int { return r.height }

// At returns the intensity at (x, y). Coordinates must be in bounds.
func (r Raster) At(x, y int) uint8 {
	return r.pix[y*r.width+x]
}
