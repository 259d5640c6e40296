package glyphmatch

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Descriptor is the feature vector of one raster. Components are
// positional; see the Feature* indices.
type Descriptor []float64

// Feature indices within a Descriptor.
const (
	FeatureZoneMeanContrast = iota
	FeatureIsoperimetricRatio
	FeatureHorizontalEdges
	FeatureVerticalEdges

	// DescriptorLen is the length of every extracted Descriptor.
	DescriptorLen
)

// zoneGrid is the number of zones along each axis for zoneMeanContrast.
const zoneGrid = 3

var featureNames = [DescriptorLen]string{
	"zoneMeanContrast",
	"isoperimetricRatio",
	"horizontalEdgeCount",
	"verticalEdgeCount",
}

// Extract computes the descriptor of r. It is pure and deterministic.
func Extract(r Raster) Descriptor {
	d := make(Descriptor, DescriptorLen)
	d[FeatureZoneMeanContrast] = zoneMeanContrast(r)
	d[FeatureIsoperimetricRatio] = isoperimetricRatio(r)
	d[FeatureHorizontalEdges] = float64(horizontalEdgeCount(r))
	d[FeatureVerticalEdges] = float64(verticalEdgeCount(r))
	return d
}

// zoneMeanContrast splits r into a 3x3 grid and returns the mean of the
// nine zone means. Zone i along an axis of length n starts at i*n/3 and
// spans max(n/3, 1) pixels, clipped to the raster.
func zoneMeanContrast(r Raster) float64 {
	zw := max(r.width/zoneGrid, 1)
	zh := max(r.height/zoneGrid, 1)

	means := make([]float64, 0, zoneGrid*zoneGrid)
	for i := 0; i < zoneGrid; i++ {
		x0 := i * r.width / zoneGrid
		x1 := min(x0+zw, r.width)
		for j := 0; j < zoneGrid; j++ {
			y0 := j * r.height / zoneGrid
			y1 := min(y0+zh, r.height)
			means = append(means, r.regionMean(x0, y0, x1, y1))
		}
	}
	return stat.Mean(means, nil)
}

// regionMean averages the half-open rectangle [x0,x1)x[y0,y1), which must
// be non-empty.
func (r Raster) regionMean(x0, y0, x1, y1 int) float64 {
	sum := 0
	for y := y0; y < y1; y++ {
		row := r.pix[y*r.width : (y+1)*r.width]
		for _, v := range row[x0:x1] {
			sum += int(v)
		}
	}
	return float64(sum) / float64((x1-x0)*(y1-y0))
}

// isoperimetricRatio is perimeter / (4*pi*surface) of the raster's
// bounding rectangle. A zero surface yields 0.
func isoperimetricRatio(r Raster) float64 {
	perimeter := 2 * (r.width + r.height)
	surface := r.width * r.height
	if surface == 0 {
		return 0
	}
	return float64(perimeter) / (4 * math.Pi * float64(surface))
}

// horizontalEdgeCount counts pixels whose right neighbour differs.
func horizontalEdgeCount(r Raster) int {
	count := 0
	for y := 0; y < r.height; y++ {
		row := r.pix[y*r.width : (y+1)*r.width]
		for x := 0; x < r.width-1; x++ {
			if row[x] != row[x+1] {
				count++
			}
		}
	}
	return count
}

// verticalEdgeCount counts pixels whose lower neighbour differs.
func verticalEdgeCount(r Raster) int {
	count := 0
	for y := 0; y < r.height-1; y++ {
		for x := 0; x < r.width; x++ {
			if r.At(x, y) != r.At(x, y+1) {
				count++
			}
		}
	}
	return count
}

// Clone returns a copy of d.
func (d Descriptor) Clone() Descriptor {
	return append(Descriptor(nil), d...)
}

func (d Descriptor) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range d {
		if i > 0 {
			sb.WriteString(" ")
		}
		if i < len(featureNames) {
			sb.WriteString(featureNames[i])
			sb.WriteByte('=')
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteByte(']')
	return sb.String()
}
