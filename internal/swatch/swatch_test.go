package swatch

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/dynpal/internal/colourspace"
	"github.com/jmylchreest/dynpal/internal/dkmeans"
)

func testClusters() []dkmeans.Cluster {
	return []dkmeans.Cluster{
		{
			Index:   0,
			Members: []colourspace.Sample{{250, 0, 0}, {200, 0, 0}, {240, 0, 0}},
			Centre:  [3]float64{240, 0, 0},
		},
		{
			Index:   1,
			Members: []colourspace.Sample{{0, 0, 90}, {0, 0, 250}, {0, 0, 10}, {0, 0, 200}, {0, 0, 100}},
			Centre:  [3]float64{0, 0, 100.4},
		},
	}
}

var black = color.NRGBA{A: 255}

func TestRenderLayout(t *testing.T) {
	img := Render(testClusters(), Options{Dim: 2, PerRow: 4})
	require.NotNil(t, img)

	// 5 members over two rows, 3 members in one row, 2 centres in one row.
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, -Gap+(4+Gap)+(2+Gap)+(2+Gap), img.Bounds().Dy())

	// Largest cluster first, members in arrival order.
	assert.Equal(t, color.NRGBA{B: 90, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{B: 250, A: 255}, img.NRGBAAt(3, 1))
	assert.Equal(t, color.NRGBA{B: 100, A: 255}, img.NRGBAAt(1, 3))
	assert.Equal(t, black, img.NRGBAAt(6, 2), "unused tile stays background")
	assert.Equal(t, black, img.NRGBAAt(0, 5), "gap between blocks")

	assert.Equal(t, color.NRGBA{R: 250, A: 255}, img.NRGBAAt(0, 19))

	// Centres follow creation order and are rounded.
	assert.Equal(t, color.NRGBA{R: 240, A: 255}, img.NRGBAAt(0, 36))
	assert.Equal(t, color.NRGBA{B: 100, A: 255}, img.NRGBAAt(2, 36))
}

func TestRenderSorted(t *testing.T) {
	img := Render(testClusters(), Options{Dim: 1, PerRow: 10, Sorted: true})
	require.NotNil(t, img)

	for x, want := range []uint8{10, 90, 100, 200, 250} {
		assert.Equal(t, want, img.NRGBAAt(x, 0).B)
	}
	assert.Equal(t, uint8(200), img.NRGBAAt(0, 1+Gap).R)
}

func TestRenderNarrowsToLargestBlock(t *testing.T) {
	img := Render(testClusters(), Options{Dim: 3, PerRow: 100})
	require.NotNil(t, img)
	assert.Equal(t, 5*3, img.Bounds().Dx())
}

func TestRenderDefaults(t *testing.T) {
	assert.Nil(t, Render(nil, DefaultOptions()))

	img := Render(testClusters()[:1], Options{})
	require.NotNil(t, img)
	assert.Equal(t, 3*DefaultDim, img.Bounds().Dx())
}

func TestRenderDoesNotReorderInput(t *testing.T) {
	in := testClusters()
	Render(in, Options{Dim: 1, PerRow: 3, Sorted: true})
	assert.Equal(t, testClusters(), in)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	require.NoError(t, Save(path, Render(testClusters(), Options{Dim: 2, PerRow: 4})))

	got, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Bounds().Dx())

	assert.Error(t, Save(path, nil))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "swatch.unknown"), Render(testClusters(), Options{})))
}
