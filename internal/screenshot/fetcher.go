package screenshot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/v0xg/clickflow/internal/flow"
)

// Renderer resolves a node id to an image URL. An empty URL means the node
// cannot be rendered.
type Renderer interface {
	RenderNode(ctx context.Context, nodeID string) (string, error)
}

// Downloader fetches the bytes behind an image URL.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Options configures the fetch phase
type Options struct {
	Dir    string
	Logger *slog.Logger
}

// Stats summarises one fetch run
type Stats struct {
	Saved   int
	Reused  int
	Missing int
	Failed  int
}

// Fetcher saves one reference screenshot per navigation target. It keeps a
// run-scoped cache from target id to saved path, so every target is rendered
// and downloaded at most once per successful save.
type Fetcher struct {
	renderer   Renderer
	downloader Downloader
	names      *flow.Index
	opts       Options
	saved      map[string]string
}

// NewFetcher creates a Fetcher writing into opts.Dir.
func NewFetcher(r Renderer, d Downloader, names *flow.Index, opts Options) *Fetcher {
	if opts.Dir == "" {
		opts.Dir = "screenshots"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{
		renderer:   r,
		downloader: d,
		names:      names,
		opts:       opts,
		saved:      make(map[string]string),
	}
}

// Fetch walks the clickables in order and sets Screenshot on each one whose
// target image could be saved. A failure for one target is logged and the
// walk moves on; only a failure to create the output directory is returned.
func (f *Fetcher) Fetch(ctx context.Context, clickables []flow.Clickable) (Stats, error) {
	var stats Stats
	if err := os.MkdirAll(f.opts.Dir, 0o755); err != nil {
		return stats, fmt.Errorf("create screenshot dir: %w", err)
	}

	for i := range clickables {
		item := &clickables[i]
		target := item.NavigatesTo

		if path, ok := f.saved[target]; ok {
			item.Screenshot = &path
			stats.Reused++
			continue
		}

		path, err := f.fetchOne(ctx, target)
		if err != nil {
			f.opts.Logger.WarnContext(ctx, "failed to get screenshot", "target", target, "error", err)
			stats.Failed++
			continue
		}
		if path == "" {
			f.opts.Logger.DebugContext(ctx, "target has no render", "target", target)
			stats.Missing++
			continue
		}

		f.saved[target] = path
		item.Screenshot = &path
		stats.Saved++
		fmt.Printf("  ✓ Saved: %s\n", path)
	}
	return stats, nil
}

// fetchOne renders and saves the target. An empty path with a nil error
// means the target had no render.
func (f *Fetcher) fetchOne(ctx context.Context, target string) (string, error) {
	path := filepath.Join(f.opts.Dir, f.names.FileStem(target)+".png")

	url, err := f.renderer.RenderNode(ctx, target)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	if url == "" {
		return "", nil
	}

	data, err := f.downloader.Download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Saved returns the cached path for a target, if one was saved this run.
func (f *Fetcher) Saved(target string) (string, bool) {
	path, ok := f.saved[target]
	return path, ok
}
