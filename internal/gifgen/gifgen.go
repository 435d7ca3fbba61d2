package gifgen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/png"
	"os"
	"sort"

	"github.com/nfnt/resize"
)

// Options configures GIF generation
type Options struct {
	FrameDelayMs int  // How long each screen is shown
	MaxWidth     uint // Frames wider than this are scaled down
}

// Walkthrough builds a looping GIF that shows each screenshot in order and
// returns the size of the written file. Paths that appear more than once
// become a single frame at their first position.
func Walkthrough(paths []string, outputPath string, opts Options) (int64, error) {
	frames, err := loadFrames(paths, opts.MaxWidth)
	if err != nil {
		return 0, err
	}
	if len(frames) == 0 {
		return 0, nil
	}

	// GIF delay is in 100ths of a second
	delay := opts.FrameDelayMs / 10
	if delay <= 0 {
		delay = 150
	}

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
	}
	for i, frame := range frames {
		bounds := frame.Bounds()
		paletted := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), framePalette(frame))
		draw.FloydSteinberg.Draw(paletted, paletted.Bounds(), frame, bounds.Min)
		g.Image[i] = paletted
		g.Delay[i] = delay

		if bounds.Dx() > g.Config.Width {
			g.Config.Width = bounds.Dx()
		}
		if bounds.Dy() > g.Config.Height {
			g.Config.Height = bounds.Dy()
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, g); err != nil {
		return 0, fmt.Errorf("encode gif: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func loadFrames(paths []string, maxWidth uint) ([]image.Image, error) {
	seen := make(map[string]bool)
	var frames []image.Image
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true

		img, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		if maxWidth > 0 && uint(img.Bounds().Dx()) > maxWidth {
			// Height 0 keeps the aspect ratio
			img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)
		}
		frames = append(frames, img)
	}
	return frames, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// framePalette picks the 255 most frequent colors of a sampled frame plus
// transparent, padding with grays when the frame has fewer colors.
func framePalette(img image.Image) color.Palette {
	bounds := img.Bounds()
	counts := make(map[color.RGBA]int)

	const step = 4
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			counts[color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}]++
		}
	}

	colors := make([]color.RGBA, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		ci, cj := colors[i], colors[j]
		if counts[ci] != counts[cj] {
			return counts[ci] > counts[cj]
		}
		// deterministic order for equal counts
		return uint32(ci.R)<<24|uint32(ci.G)<<16|uint32(ci.B)<<8|uint32(ci.A) <
			uint32(cj.R)<<24|uint32(cj.G)<<16|uint32(cj.B)<<8|uint32(cj.A)
	})

	palette := make(color.Palette, 0, 256)
	palette = append(palette, color.RGBA{})
	for _, c := range colors {
		if len(palette) == 256 {
			break
		}
		palette = append(palette, c)
	}
	for len(palette) < 256 {
		gray := uint8(len(palette))
		palette = append(palette, color.RGBA{R: gray, G: gray, B: gray, A: 255})
	}
	return palette
}
