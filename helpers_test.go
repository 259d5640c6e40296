package glyphmatch

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/glyphmatch/imageutil"
)

// memLoader serves images from memory and counts decodes per path.
type memLoader struct {
	mu     sync.Mutex
	images map[string]*imageutil.GrayImage
	loads  map[string]int
}

func newMemLoader() *memLoader {
	return &memLoader{
		images: make(map[string]*imageutil.GrayImage),
		loads:  make(map[string]int),
	}
}

func (l *memLoader) add(path string, img *imageutil.GrayImage) {
	l.images[path] = img
}

func (l *memLoader) load(path string) (*imageutil.GrayImage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[path]
	if !ok {
		return nil, fmt.Errorf("no image at %s", path)
	}
	l.loads[path]++
	return img, nil
}

func (l *memLoader) totalLoads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.loads {
		n += c
	}
	return n
}

// memEntry builds a visible entry rooted at /corpus, labelled from name.
func memEntry(t *testing.T, name string) Entry {
	t.Helper()
	l, err := LabelFromFilename(name)
	require.NoError(t, err)
	return Entry{Path: "/corpus/" + name, Name: name, Label: l}
}

// solid returns a uniform image whose zone mean is v; distances between
// solids of the same size are |v1 - v2|.
func solid(v uint8) *imageutil.GrayImage {
	return imageutil.CreateSolidGray(9, 9, v)
}

// writeGlyph saves img as a PNG named name in dir and returns its path.
func writeGlyph(t *testing.T, dir, name string, img *imageutil.GrayImage) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, imageutil.SaveGrayImage(img, path))
	return path
}

func rasterOf(t *testing.T, img *imageutil.GrayImage) Raster {
	t.Helper()
	r, err := RasterFromGray(img)
	require.NoError(t, err)
	return r
}
