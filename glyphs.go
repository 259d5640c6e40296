package glyphmatch

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wbrown/glyphmatch/imageutil"
)

// EmbeddedFonts maps the names accepted in GenerateOptions.Fonts to the Go
// font family TTF data.
var EmbeddedFonts = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

// GenerateOptions controls GenerateCorpus.
type GenerateOptions struct {
	// Fonts are names from EmbeddedFonts or paths to TTF files.
	Fonts []string
	// Sizes are the point sizes rendered for every font, at 72 DPI.
	Sizes         []float64
	Width, Height int
}

// DefaultGenerateOptions renders every embedded font at two sizes into
// 32x32 images.
func DefaultGenerateOptions() GenerateOptions {
	fonts := make([]string, 0, len(EmbeddedFonts))
	for name := range EmbeddedFonts {
		fonts = append(fonts, name)
	}
	sort.Strings(fonts)
	return GenerateOptions{
		Fonts:  fonts,
		Sizes:  []float64{20, 26},
		Width:  32,
		Height: 32,
	}
}

// loadFont resolves an embedded font name or reads a TTF file.
func loadFont(name string) (*truetype.Font, error) {
	data, ok := EmbeddedFonts[name]
	if !ok {
		var err error
		if data, err = os.ReadFile(name); err != nil {
			return nil, err
		}
	}
	return freetype.ParseFont(data)
}

// RenderGlyph draws l in black on a white width x height canvas, centred
// on its advance width and the font's line height.
func RenderGlyph(f *truetype.Font, l Label, size float64, width, height int) (*imageutil.GrayImage, error) {
	img := imageutil.NewGrayImage(width, height)
	draw.Draw(img.Gray, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img.Gray)
	ctx.SetSrc(image.Black)
	ctx.SetHinting(font.HintingFull)

	s := l.String()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Round()
	descent := metrics.Descent.Round()
	advance := font.MeasureString(face, s).Round()

	pt := freetype.Pt((width-advance)/2, (height+ascent-descent)/2)
	if _, err := ctx.DrawString(s, pt); err != nil {
		return nil, fmt.Errorf("failed to draw %q: %w", s, err)
	}
	return img, nil
}

// GenerateCorpus renders every glyph class for each font and size into dir
// as "<glyph>_<font>_<n>.png" and returns the written paths.
func GenerateCorpus(dir string, opts GenerateOptions) ([]string, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", opts.Width, opts.Height)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var paths []string
	for _, fontName := range opts.Fonts {
		f, err := loadFont(fontName)
		if err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", fontName, err)
		}
		base := fontBaseName(fontName)
		for n, size := range opts.Sizes {
			for _, l := range Labels {
				img, err := RenderGlyph(f, l, size, opts.Width, opts.Height)
				if err != nil {
					return nil, err
				}
				path := filepath.Join(dir, fmt.Sprintf("%s_%s_%d.png", l, base, n))
				if err := imageutil.SaveGrayImage(img, path); err != nil {
					return nil, err
				}
				paths = append(paths, path)
			}
		}
	}
	return paths, nil
}

func fontBaseName(name string) string {
	if _, ok := EmbeddedFonts[name]; ok {
		return name
	}
	base := filepath.Base(name)
	return base[:len(base)-len(filepath.Ext(base))]
}
