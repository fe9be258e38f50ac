package image

import (
	"image"
	"image/color"
	"testing"

	"github.com/jmylchreest/dynpal/internal/colourspace"
)

func TestPreprocessValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    PreprocessOptions
		wantErr bool
	}{
		{name: "defaults", opts: DefaultPreprocessOptions()},
		{name: "everything", opts: PreprocessOptions{Width: 50, Simplify: 2, Blur: 1, MedianBlur: 1, MeanBlur: 1, Darken: true, NormaliseContrast: true, HueQuantize: 8, Quantize: 8}},
		{name: "negative width", opts: PreprocessOptions{Width: -1}, wantErr: true},
		{name: "negative blur", opts: PreprocessOptions{Blur: -0.5}, wantErr: true},
		{name: "too many hue bins", opts: PreprocessOptions{HueQuantize: 181}, wantErr: true},
		{name: "negative quantize", opts: PreprocessOptions{Quantize: -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPreprocessResize(t *testing.T) {
	out, err := Preprocess(quadrantImage(600, 400), DefaultPreprocessOptions())
	if err != nil {
		t.Fatalf("Preprocess() error = %v", err)
	}
	if got := out.Bounds().Size(); got != image.Pt(300, 200) {
		t.Errorf("Preprocess() size = %v, want 300x200", got)
	}
}

func TestPreprocessNoop(t *testing.T) {
	src := solidImage(4, 4, color.RGBA{10, 20, 30, 255})
	out, err := Preprocess(src, PreprocessOptions{})
	if err != nil {
		t.Fatalf("Preprocess() error = %v", err)
	}
	if out != image.Image(src) {
		t.Error("Preprocess() with no steps should return the input")
	}
}

func TestPreprocessNil(t *testing.T) {
	if _, err := Preprocess(nil, DefaultPreprocessOptions()); err == nil {
		t.Error("Preprocess(nil) should fail")
	}
}

func TestPreprocessSteps(t *testing.T) {
	src := quadrantImage(20, 20)

	tests := []struct {
		name string
		opts PreprocessOptions
	}{
		{name: "simplify", opts: PreprocessOptions{Simplify: 1}},
		{name: "blur", opts: PreprocessOptions{Blur: 1.5}},
		{name: "median blur", opts: PreprocessOptions{MedianBlur: 1}},
		{name: "mean blur", opts: PreprocessOptions{MeanBlur: 1}},
		{name: "darken", opts: PreprocessOptions{Darken: true}},
		{name: "normalise contrast", opts: PreprocessOptions{NormaliseContrast: true}},
		{name: "hue quantize", opts: PreprocessOptions{HueQuantize: 8}},
		{name: "quantize", opts: PreprocessOptions{Quantize: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Preprocess(src, tt.opts)
			if err != nil {
				t.Fatalf("Preprocess() error = %v", err)
			}
			if out.Bounds().Size() != src.Bounds().Size() {
				t.Errorf("Preprocess() changed size to %v", out.Bounds().Size())
			}
		})
	}
}

func TestDarken(t *testing.T) {
	out := darken(solidImage(2, 2, color.RGBA{200, 100, 40, 255}), 0.5)
	got := colourspace.FromColor(out.At(0, 0))
	want := colourspace.Sample{100, 50, 20}
	for i := range got {
		if d := got[i] - want[i]; d < -1 || d > 1 {
			t.Errorf("darken() = %v, want about %v", got, want)
			break
		}
	}
}

func TestQuantize(t *testing.T) {
	out := quantize(solidImage(1, 1, color.RGBA{10, 100, 250, 255}), 4)
	got := colourspace.FromColor(out.At(0, 0))
	// Levels are 0, 63.75, 127.5, 191.25, 255 truncated to integers.
	want := colourspace.Sample{0, 127, 255}
	if got != want {
		t.Errorf("quantize() = %v, want %v", got, want)
	}
}

func TestEqualiseLumaSpreadsRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{100, 100, 100, 255})
	img.Set(1, 0, color.RGBA{120, 120, 120, 255})

	out := equaliseLuma(img)
	dark := colourspace.FromColor(out.At(0, 0))
	light := colourspace.FromColor(out.At(1, 0))
	if dark[0] != 0 || light[0] != 255 {
		t.Errorf("equaliseLuma() = %v, %v; want black and white", dark, light)
	}
}

func TestEqualiseLumaSingleLevel(t *testing.T) {
	out := equaliseLuma(solidImage(3, 3, color.RGBA{90, 90, 90, 255}))
	if got := colourspace.FromColor(out.At(1, 1)); got != (colourspace.Sample{90, 90, 90}) {
		t.Errorf("equaliseLuma() of a flat image = %v, want unchanged", got)
	}
}

func TestSamples(t *testing.T) {
	img := quadrantImage(4, 4)
	got := Samples(img)
	if len(got) != 16 {
		t.Fatalf("Samples() returned %d samples, want 16", len(got))
	}
	if got[0] != (colourspace.Sample{255, 0, 0}) {
		t.Errorf("Samples()[0] = %v, want red", got[0])
	}
	if got[3] != (colourspace.Sample{0, 255, 0}) {
		t.Errorf("Samples()[3] = %v, want green", got[3])
	}
	if got[15] != (colourspace.Sample{255, 255, 255}) {
		t.Errorf("Samples()[15] = %v, want white", got[15])
	}
	if Samples(nil) != nil {
		t.Error("Samples(nil) should be nil")
	}
}
