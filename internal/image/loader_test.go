package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	httputil "github.com/jmylchreest/dynpal/internal/util/http"
)

// solidImage builds an in-memory image filled with c.
func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// quadrantImage builds an image with red, green, blue and white quadrants.
func quadrantImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// writePNG encodes img into dir/name and returns the path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	return path
}

func TestFileLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", solidImage(8, 4, color.RGBA{255, 0, 0, 255}))
	if err := os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid png", path: path},
		{name: "empty path", path: "", wantErr: true},
		{name: "missing file", path: filepath.Join(dir, "missing.png"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
		{name: "undecodable", path: filepath.Join(dir, "junk.png"), wantErr: true},
	}

	loader := NewFileLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := loader.Load(context.Background(), tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && img.Bounds().Dx() != 8 {
				t.Errorf("Load() width = %d, want 8", img.Bounds().Dx())
			}
		})
	}
}

func TestSmartLoaderURL(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(3, 3, color.RGBA{0, 0, 255, 255})); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	loader := NewSmartLoader(httputil.FetchOptions{})

	img, err := loader.Load(context.Background(), srv.URL+"/blue.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := Samples(img)[0]; got != [3]int{0, 0, 255} {
		t.Errorf("first sample = %v, want blue", got)
	}

	if _, err := loader.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("Load() of a 404 should fail")
	}

	cacheDir := t.TempDir()
	cached := NewSmartLoader(httputil.FetchOptions{}).WithCache(cacheDir)
	if _, err := cached.Load(context.Background(), srv.URL+"/blue.png"); err != nil {
		t.Fatalf("cached Load() error = %v", err)
	}
	srv.Close()
	img, err = cached.Load(context.Background(), srv.URL+"/blue.png")
	if err != nil {
		t.Fatalf("second cached Load() should not need the server: %v", err)
	}
	if got := Samples(img)[0]; got != [3]int{0, 0, 255} {
		t.Errorf("cached first sample = %v, want blue", got)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	b := writePNG(t, dir, "b.png", solidImage(2, 2, color.Black))
	a := writePNG(t, dir, "a.png", solidImage(2, 2, color.White))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	empty := t.TempDir()

	got, err := ExpandPaths([]string{"https://example.com/x.jpg", dir, b})
	if err != nil {
		t.Fatalf("ExpandPaths() error = %v", err)
	}
	want := []string{"https://example.com/x.jpg", a, b, b}
	if len(got) != len(want) {
		t.Fatalf("ExpandPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExpandPaths()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	for _, bad := range [][]string{{""}, {filepath.Join(dir, "nope.png")}, {empty}} {
		if _, err := ExpandPaths(bad); err == nil {
			t.Errorf("ExpandPaths(%v) should fail", bad)
		}
	}
}
