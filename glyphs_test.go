package glyphmatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRenderGlyphDrawsInk(t *testing.T) {
	f, err := loadFont("goregular")
	require.NoError(t, err)

	for _, l := range Labels {
		img, err := RenderGlyph(f, l, 24, 32, 32)
		require.NoError(t, err)

		dark := 0
		for _, v := range img.Pix {
			if v < 128 {
				dark++
			}
		}
		assert.Positive(t, dark, "glyph %s rendered blank", l)
		assert.Less(t, dark, 32*32/2, "glyph %s rendered mostly black", l)
	}
}

func TestRenderGlyphDistinguishesShapes(t *testing.T) {
	f, err := loadFont("gomono")
	require.NoError(t, err)

	plus, err := RenderGlyph(f, LabelPlus, 24, 32, 32)
	require.NoError(t, err)
	minus, err := RenderGlyph(f, LabelMinus, 24, 32, 32)
	require.NoError(t, err)

	dp := Extract(rasterOf(t, plus))
	dm := Extract(rasterOf(t, minus))
	// The vertical stroke of "+" adds left/right transitions on every row it spans.
	assert.Greater(t, dp[FeatureHorizontalEdges], dm[FeatureHorizontalEdges])
}

func TestGenerateCorpusAndEvaluate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "corpus")
	opts := GenerateOptions{
		Fonts:  []string{"goregular", "gobold"},
		Sizes:  []float64{22},
		Width:  32,
		Height: 32,
	}
	paths, err := GenerateCorpus(dir, opts)
	require.NoError(t, err)
	require.Len(t, paths, 2*NumLabels)
	assert.FileExists(t, filepath.Join(dir, "+_gobold_0.png"))
	assert.FileExists(t, filepath.Join(dir, "-_goregular_0.png"))

	cfg := DefaultConfig()
	cfg.CorpusDir = dir
	cfg.Workers = 4
	p, err := NewPipeline(cfg, nil)
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2*NumLabels, res.Classified)
	assert.Equal(t, 2*NumLabels, res.Matrix.Total())
	assert.Zero(t, res.Skipped)
	for _, l := range Labels {
		row := 0
		for _, n := range res.Matrix[l] {
			row += n
		}
		assert.Equal(t, 2, row, "row %s", l)
	}
}

func TestGenerateCorpusFromFontFile(t *testing.T) {
	fontPath := filepath.Join(t.TempDir(), "Go-Regular.ttf")
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0644))

	dir := t.TempDir()
	paths, err := GenerateCorpus(dir, GenerateOptions{
		Fonts: []string{fontPath},
		Sizes: []float64{18, 24},
		Width: 24, Height: 24,
	})
	require.NoError(t, err)
	require.Len(t, paths, 2*NumLabels)
	assert.FileExists(t, filepath.Join(dir, "7_Go-Regular_1.png"))
}

func TestGenerateCorpusErrors(t *testing.T) {
	_, err := GenerateCorpus(t.TempDir(), GenerateOptions{Fonts: []string{"goregular"}, Sizes: []float64{12}})
	assert.Error(t, err)

	_, err = GenerateCorpus(t.TempDir(), GenerateOptions{
		Fonts: []string{"/nonexistent/font.ttf"},
		Sizes: []float64{12},
		Width: 16, Height: 16,
	})
	assert.Error(t, err)
}

func TestDefaultGenerateOptions(t *testing.T) {
	opts := DefaultGenerateOptions()
	assert.Equal(t, []string{"gobold", "gomono", "goregular"}, opts.Fonts)
	assert.NotEmpty(t, opts.Sizes)
}
