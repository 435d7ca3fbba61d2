package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/v0xg/clickflow/internal/figma"
	"github.com/v0xg/clickflow/internal/flow"
	"github.com/v0xg/clickflow/internal/gifgen"
	"github.com/v0xg/clickflow/internal/logging"
	"github.com/v0xg/clickflow/internal/screenshot"
	"github.com/v0xg/clickflow/internal/script"
)

var (
	token      string
	fileKey    string
	start      string
	outDir     string
	screensDir string
	gifPath    string
	gifWidth   uint
	frameDelay int
	timeout    time.Duration
	retries    uint64
	apiURL     string
	verbose    bool
	logFormat  string
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clickflow",
		Short: "Generate an ordered click script from a Figma prototype",
		Long: `clickflow reads a Figma file, finds every prototype link, works out where
to tap on each screen and in which order, and saves a reference screenshot of
every target screen.

Example:
  clickflow --token $FIGMA_TOKEN --file AbC123 --start Splash`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      resolveConfig,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&token, "token", "", "Figma personal access token (default: $FIGMA_TOKEN)")
	rootCmd.Flags().StringVar(&fileKey, "file", "", "Figma file key (default: $FIGMA_FILE_KEY)")
	rootCmd.Flags().StringVar(&start, "start", flow.DefaultStartScreen, "Start screen name")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory for the JSON records and summary")
	rootCmd.Flags().StringVar(&screensDir, "screens-dir", "screenshots", "Directory for target screenshots")
	rootCmd.Flags().StringVar(&gifPath, "gif", "", "Also write a walkthrough GIF of the saved screenshots to this path")
	rootCmd.Flags().UintVar(&gifWidth, "gif-width", 800, "Maximum walkthrough GIF width")
	rootCmd.Flags().IntVar(&frameDelay, "frame-delay", 1500, "Time each screen is shown in the GIF (ms)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for each API call")
	rootCmd.Flags().Uint64Var(&retries, "retries", 3, "Retries for a failed render or download")
	rootCmd.Flags().StringVar(&apiURL, "api-url", figma.DefaultBaseURL, "Figma API base URL")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.Flags().StringVar(&logFormat, "log-format", logging.FormatText, "Log format: text, json")

	return rootCmd
}

// resolveConfig fills credentials from the environment and validates flags.
func resolveConfig(cmd *cobra.Command, args []string) error {
	if token == "" {
		token = os.Getenv("FIGMA_TOKEN")
	}
	if fileKey == "" {
		fileKey = os.Getenv("FIGMA_FILE_KEY")
	}
	if token == "" {
		return fmt.Errorf("--token or FIGMA_TOKEN is required")
	}
	if fileKey == "" {
		return fmt.Errorf("--file or FIGMA_FILE_KEY is required")
	}
	return logging.Init(verbose, logFormat, nil)
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.New("clickflow")

	logVerbose("Starting clickflow")
	logVerbose("  File: %s", fileKey)
	logVerbose("  Start screen: %s", start)

	client, err := figma.New(token, fileKey,
		figma.WithBaseURL(apiURL),
		figma.WithTimeout(timeout),
		figma.WithRetry(retries, 0),
		figma.WithLogger(logging.New("figma")),
	)
	if err != nil {
		return err
	}

	// Step 1: Fetch the document
	fmt.Printf("→ Fetching file %s... ", fileKey)
	doc, err := client.FetchDocument(ctx)
	if err != nil {
		fmt.Println("failed")
		if figma.IsUnauthorized(err) {
			return fmt.Errorf("fetch failed (check the token): %w", err)
		}
		return fmt.Errorf("fetch failed: %w", err)
	}
	fmt.Println("done")

	// Step 2: Find and order clickables
	ix, ordered := flow.Plan(&doc.Document, flow.DefaultOrder(start))
	fmt.Printf("✓ Found %d clickables\n", len(ordered))
	logger.Debug("indexed document", "name", doc.Name, "nodes", ix.Len())

	// Step 3: Screenshots
	fmt.Println("→ Fetching screenshots...")
	fetcher := screenshot.NewFetcher(client, client, ix, screenshot.Options{
		Dir:    screensDir,
		Logger: logging.New("screenshot"),
	})
	stats, err := fetcher.Fetch(ctx, ordered)
	if err != nil {
		return err
	}
	logVerbose("  saved %d, reused %d, no render %d, failed %d", stats.Saved, stats.Reused, stats.Missing, stats.Failed)

	// Step 4: Write artifacts
	lines := script.Summary(script.Steps(ordered, ix))
	artifacts, err := script.Write(outDir, ordered, lines)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("✓ Saved %s\n", artifacts.Elements)
	fmt.Printf("✓ Saved %s\n", artifacts.Summary)

	// Step 5: Optional walkthrough GIF
	if gifPath != "" {
		if err := writeWalkthrough(ordered); err != nil {
			// The click script is already on disk
			logger.Warn("walkthrough GIF failed", "error", err)
		}
	}

	fmt.Println("✓ Done")
	return nil
}

func writeWalkthrough(ordered []flow.Clickable) error {
	var paths []string
	for _, c := range ordered {
		if c.Screenshot != nil {
			paths = append(paths, *c.Screenshot)
		}
	}
	if len(paths) == 0 {
		fmt.Println("⚠ No screenshots saved, skipping GIF")
		return nil
	}

	fmt.Printf("→ Generating GIF (%d screens)... ", len(paths))
	if err := os.MkdirAll(filepath.Dir(gifPath), 0o755); err != nil {
		fmt.Println("failed")
		return err
	}
	size, err := gifgen.Walkthrough(paths, gifPath, gifgen.Options{
		FrameDelayMs: frameDelay,
		MaxWidth:     gifWidth,
	})
	if err != nil {
		fmt.Println("failed")
		return err
	}
	fmt.Printf("done (%.1f KB)\n", float64(size)/1024)
	return nil
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
