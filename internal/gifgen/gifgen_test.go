package gifgen

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWalkthrough(t *testing.T) {
	dir := t.TempDir()
	home := writePNG(t, dir, "Home.png", 40, 80, color.RGBA{R: 255, A: 255})
	profile := writePNG(t, dir, "Profile.png", 200, 100, color.RGBA{B: 255, A: 255})
	out := filepath.Join(dir, "flow.gif")

	size, err := Walkthrough([]string{home, profile, home}, out, Options{FrameDelayMs: 500, MaxWidth: 100})
	if err != nil {
		t.Fatal(err)
	}
	if size == 0 {
		t.Error("expected a non-empty file")
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}

	if len(g.Image) != 2 {
		t.Fatalf("got %d frames, want 2", len(g.Image))
	}
	if g.Delay[0] != 50 {
		t.Errorf("delay = %d, want 50", g.Delay[0])
	}
	if b := g.Image[1].Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("scaled frame is %dx%d, want 100x50", b.Dx(), b.Dy())
	}
	if g.Config.Width != 100 || g.Config.Height != 80 {
		t.Errorf("canvas is %dx%d, want 100x80", g.Config.Width, g.Config.Height)
	}
}

func TestWalkthrough_NoFrames(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flow.gif")
	size, err := Walkthrough(nil, out, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if size != 0 {
		t.Errorf("size = %d, want 0", size)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written without frames")
	}
}

func TestWalkthrough_MissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := Walkthrough([]string{filepath.Join(dir, "nope.png")}, filepath.Join(dir, "x.gif"), Options{}); err == nil {
		t.Error("expected error for missing screenshot")
	}
}
