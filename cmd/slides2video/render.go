package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/slides2video/internal/config"
	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/engine"
	"github.com/ivlev/slides2video/internal/raster"
	"github.com/ivlev/slides2video/internal/video"
)

var renderCmd = &cobra.Command{
	Use:   "render [deck]",
	Short: "Render a deck into a video",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		deckPath, err := resolveDeck(args)
		if err != nil {
			return err
		}
		d, err := deck.Read(deckPath)
		if err != nil {
			return err
		}
		useDeckAssets(cfg, deckPath)

		r, err := raster.New(cfg)
		if err != nil {
			return fmt.Errorf("rasterizer init: %w", err)
		}
		defer r.Close()

		enc, err := video.New(cfg)
		if err != nil {
			return err
		}

		bar := engine.NewProgressBar()
		job := engine.NewJob(cfg, r, enc, bar.Report)
		base, err := outputBase(cfg, deckPath)
		if err != nil {
			return err
		}
		path, err := job.Run(cmd.Context(), d, base)
		if err != nil {
			return err
		}
		fmt.Printf("[+++] Done! Output: %s\n", path)
		return nil
	},
}

// outputBase is the output path without extension; the encoder adds it.
// The output directory is created if needed.
func outputBase(cfg *config.Config, deckPath string) (string, error) {
	name := cfg.Filename
	if name == "" {
		name = fmt.Sprintf("%s_%s", deck.OutputName(deckPath), time.Now().Format("2006-01-02_15-04-05"))
	}
	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return "", fmt.Errorf("output directory: %w", err)
	}
	return filepath.Join(opts.outDir, name), nil
}

func useDeckAssets(cfg *config.Config, deckPath string) {
	if cfg.AssetDir == "" {
		cfg.AssetDir = filepath.Dir(deckPath)
	}
}
