package dkmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/dynpal/internal/colourspace"
)

func TestExtractEmpty(t *testing.T) {
	got, err := Extract(nil, 1, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractStride(t *testing.T) {
	samples := make([]colourspace.Sample, 10)
	for i := range samples {
		samples[i] = colourspace.Sample{i, i, i}
	}

	got, err := Extract(samples, 3, rgbConfig(100, 1.0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []colourspace.Sample{{0, 0, 0}, {3, 3, 3}, {6, 6, 6}, {9, 9, 9}}, got[0].Members)
}

func TestExtractStrideLargerThanInput(t *testing.T) {
	samples := []colourspace.Sample{{5, 5, 5}, {200, 0, 0}}

	got, err := Extract(samples, 1000, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, [3]float64{5, 5, 5}, got[0].Centre)
}

func TestExtractRejectsBadStride(t *testing.T) {
	for _, stride := range []int{0, -1} {
		_, err := Extract([]colourspace.Sample{{1, 1, 1}}, stride, DefaultConfig())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestExtractPropagatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecenterInterval = 0
	_, err := Extract([]colourspace.Sample{{1, 1, 1}}, 1, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Extract([]colourspace.Sample{{1, 1, 1}, {0, 0, 999}}, 1, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidSample)
}

func TestExtractSeparatesDistinctColours(t *testing.T) {
	var samples []colourspace.Sample
	for i := range 60 {
		switch i % 3 {
		case 0:
			samples = append(samples, colourspace.Sample{250 - i%4, 5, 5})
		case 1:
			samples = append(samples, colourspace.Sample{5, 250 - i%4, 5})
		default:
			samples = append(samples, colourspace.Sample{5, 5, 250 - i%4})
		}
	}

	got, err := Extract(samples, 1, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 3)

	total := 0
	for _, cl := range got {
		total += len(cl.Members)
	}
	assert.Equal(t, len(samples), total)
	assert.Greater(t, got[0].Centre[0], 240.0)
	assert.Greater(t, got[1].Centre[1], 240.0)
	assert.Greater(t, got[2].Centre[2], 240.0)
}
