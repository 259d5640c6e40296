package glyphmatch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/glyphmatch/imageutil"
)

func TestNewRasterValidation(t *testing.T) {
	_, err := NewRaster(0, 3, nil)
	assert.ErrorIs(t, err, ErrEmptyRaster)

	_, err = NewRaster(3, 0, nil)
	assert.ErrorIs(t, err, ErrEmptyRaster)

	_, err = NewRaster(2, 2, []uint8{1, 2, 3})
	assert.Error(t, err)
}

func TestRasterIsImmutable(t *testing.T) {
	pix := []uint8{1, 2, 3, 4}
	r, err := NewRaster(2, 2, pix)
	require.NoError(t, err)

	pix[0] = 99
	assert.Equal(t, uint8(1), r.At(0, 0))
	assert.Equal(t, uint8(4), r.At(1, 1))
}

func TestExtractLength(t *testing.T) {
	for _, img := range []*imageutil.GrayImage{
		imageutil.CreateSolidGray(1, 1, 0),
		imageutil.CreateGradientGray(7, 5),
		imageutil.CreateCrossGlyph(32, 32, 4),
	} {
		d := Extract(rasterOf(t, img))
		assert.Len(t, d, DescriptorLen)
	}
}

func TestExtractDeterministic(t *testing.T) {
	r := rasterOf(t, imageutil.CreateRingGlyph(31, 29, 3))
	assert.Equal(t, Extract(r), Extract(r))
}

func TestUniformRasterHasNoEdges(t *testing.T) {
	d := Extract(rasterOf(t, imageutil.CreateSolidGray(13, 8, 77)))

	assert.Zero(t, d[FeatureHorizontalEdges])
	assert.Zero(t, d[FeatureVerticalEdges])
	assert.InDelta(t, 77.0, d[FeatureZoneMeanContrast], 1e-12)
}

func TestCheckerboardEdgeCounts(t *testing.T) {
	for _, dims := range [][2]int{{2, 2}, {5, 3}, {8, 8}, {1, 6}, {7, 1}} {
		w, h := dims[0], dims[1]
		d := Extract(rasterOf(t, imageutil.CreateCheckerboardGray(w, h, 1)))

		assert.Equal(t, float64((w-1)*h), d[FeatureHorizontalEdges], "%dx%d", w, h)
		assert.Equal(t, float64(w*(h-1)), d[FeatureVerticalEdges], "%dx%d", w, h)
	}
}

func TestEdgeCountsIgnoreLastColumnAndRow(t *testing.T) {
	// A bright last column must not count as an edge against pixels
	// beyond the raster.
	img := imageutil.CreateSolidGray(4, 3, 0)
	for y := 0; y < 3; y++ {
		img.SetGrayValue(3, y, 255)
	}
	d := Extract(rasterOf(t, img))
	assert.Equal(t, 3.0, d[FeatureHorizontalEdges])
	assert.Equal(t, 0.0, d[FeatureVerticalEdges])
}

func TestIsoperimetricRatio(t *testing.T) {
	d := Extract(rasterOf(t, imageutil.CreateSolidGray(4, 2, 0)))
	// perimeter 12, surface 8
	assert.InDelta(t, 12/(32*math.Pi), d[FeatureIsoperimetricRatio], 1e-15)

	for _, dims := range [][2]int{{1, 1}, {3, 100}, {640, 480}} {
		d := Extract(rasterOf(t, imageutil.CreateSolidGray(dims[0], dims[1], 0)))
		assert.Greater(t, d[FeatureIsoperimetricRatio], 0.0, "%v", dims)
	}
}

func TestZoneMeanContrastSinglePixelZones(t *testing.T) {
	// 4x4: zones are 1x1 and start at 0, 1, 2 on each axis.
	pix := make([]uint8, 16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			pix[y*4+x] = uint8(x + 10*y)
		}
	}
	r, err := NewRaster(4, 4, pix)
	require.NoError(t, err)

	// Mean over x,y in 0..2 of x + 10y = 1 + 10
	assert.InDelta(t, 11.0, zoneMeanContrast(r), 1e-12)
}

func TestZoneMeanContrastUnevenDimensions(t *testing.T) {
	// 10 wide: origins 0, 3, 6 with width 3, so column 9 is never sampled.
	img := imageutil.CreateSolidGray(10, 9, 0)
	for y := 0; y < 9; y++ {
		img.SetGrayValue(9, y, 255)
	}
	assert.InDelta(t, 0.0, zoneMeanContrast(rasterOf(t, img)), 1e-12)

	// Half-bright image: left 5 columns at 200.
	img = imageutil.CreateSolidGray(10, 9, 0)
	for y := 0; y < 9; y++ {
		for x := 0; x < 5; x++ {
			img.SetGrayValue(x, y, 200)
		}
	}
	// Zones: [0,3) all 200, [3,6) two of three columns 200, [6,9) none.
	want := (200.0 + 200.0*2/3 + 0) / 3
	assert.InDelta(t, want, zoneMeanContrast(rasterOf(t, img)), 1e-9)
}

func TestExtractDegenerateRasters(t *testing.T) {
	one, err := NewRaster(1, 1, []uint8{42})
	require.NoError(t, err)

	d := Extract(one)
	assert.InDelta(t, 42.0, d[FeatureZoneMeanContrast], 1e-12)
	assert.InDelta(t, 1/math.Pi, d[FeatureIsoperimetricRatio], 1e-15)
	assert.Zero(t, d[FeatureHorizontalEdges])
	assert.Zero(t, d[FeatureVerticalEdges])

	line, err := NewRaster(2, 1, []uint8{0, 255})
	require.NoError(t, err)
	d = Extract(line)
	assert.False(t, math.IsNaN(d[FeatureZoneMeanContrast]))
	assert.Equal(t, 1.0, d[FeatureHorizontalEdges])
}

func TestDescriptorString(t *testing.T) {
	d := Descriptor{1, 2, 3, 4}
	assert.Equal(t,
		"[zoneMeanContrast=1 isoperimetricRatio=2 horizontalEdgeCount=3 verticalEdgeCount=4]",
		d.String())
}
