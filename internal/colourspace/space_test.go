package colourspace

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpace(t *testing.T) {
	tests := []struct {
		in      string
		want    Space
		wantErr bool
	}{
		{in: "lab", want: Lab},
		{in: " LAB ", want: Lab},
		{in: "rgb", want: RGB},
		{in: "hsv", want: HSV},
		{in: "luv", want: Luv},
		{in: "YCrCb", want: YCrCb},
		{in: "cmyk", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSpace(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertLab(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   Vector
	}{
		{name: "black", sample: Sample{0, 0, 0}, want: Vector{0, 128, 128}},
		{name: "white", sample: Sample{255, 255, 255}, want: Vector{255, 128, 128}},
		{name: "red", sample: Sample{255, 0, 0}, want: Vector{136, 208, 195}},
		{name: "green", sample: Sample{0, 255, 0}, want: Vector{224, 42, 211}},
		{name: "blue", sample: Sample{0, 0, 255}, want: Vector{82, 207, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.sample, Lab)
			require.Len(t, got, 3)
			for i := range got {
				// go-colorful and OpenCV differ in the last rounding step for a few hues.
				assert.InDelta(t, tt.want[i], got[i], 1, "component %d", i)
			}
		})
	}
}

func TestConvertIsQuantised(t *testing.T) {
	for _, space := range ValidSpaces() {
		t.Run(string(space), func(t *testing.T) {
			for _, s := range []Sample{{12, 200, 77}, {255, 128, 3}, {0, 0, 0}, {255, 255, 255}} {
				v := Convert(s, space)
				require.Len(t, v, 3)
				for i, c := range v {
					assert.Equal(t, math.Round(c), c, "component %d of %v", i, s)
					assert.GreaterOrEqual(t, c, 0.0)
					assert.LessOrEqual(t, c, 255.0)
				}
			}
		})
	}
}

func TestConvertRGBIsIdentity(t *testing.T) {
	assert.Equal(t, Vector{12, 34, 56}, Convert(Sample{12, 34, 56}, RGB))
}

func TestConvertHSV(t *testing.T) {
	assert.Equal(t, Vector{0, 255, 255}, Convert(Sample{255, 0, 0}, HSV))
	assert.Equal(t, Vector{60, 255, 255}, Convert(Sample{0, 255, 0}, HSV))
	assert.Equal(t, Vector{0, 0, 128}, Convert(Sample{128, 128, 128}, HSV))
}

func TestConvertYCrCbGrey(t *testing.T) {
	v := Convert(Sample{100, 100, 100}, YCrCb)
	assert.Equal(t, Vector{100, 128, 128}, v)
}

func TestProjectDropsLuminance(t *testing.T) {
	full := Project(Sample{255, 0, 0}, Lab, false)
	dropped := Project(Sample{255, 0, 0}, Lab, true)

	require.Len(t, full, 3)
	require.Len(t, dropped, 2)
	assert.Equal(t, full[1:], dropped)
}

func TestSampleValid(t *testing.T) {
	assert.Equal(t, -1, Sample{0, 128, 255}.Valid())
	assert.Equal(t, 0, Sample{-1, 0, 0}.Valid())
	assert.Equal(t, 2, Sample{0, 0, 256}.Valid())
}

func TestFromColor(t *testing.T) {
	assert.Equal(t, Sample{10, 20, 30}, FromColor(color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, Sample{10, 20, 30}.RGBA())
}
