package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/slides2video/internal/analyzer"
	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/director"
	"github.com/ivlev/slides2video/internal/source"
)

var importOpts struct {
	out          string
	detector     string
	pageDuration float64
	transition   string
	highlight    string
	color        string
}

var importCmd = &cobra.Command{
	Use:   "import <pdf|image|dir>",
	Short: "Build a deck from a PDF or images, highlighting each page's content blocks",
	Long: `Build a deck with one slide per page. Every page is scanned for content
blocks, which are then highlighted one after another in reading order. The
deck is written to input/decks (or --out) and can be edited before rendering.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// the deck may be stored elsewhere; keep page references valid
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		src, err := source.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer src.Close()
		fmt.Printf("[*] %s: %d pages\n", filepath.Base(path), src.PageCount())

		dir := director.NewDirector(cfg.Width, cfg.Height)
		if dir.Detector, err = analyzer.NewDetector(importOpts.detector); err != nil {
			return err
		}
		if dir.Transition, err = deck.ParseTransitionType(importOpts.transition); err != nil {
			return err
		}
		if dir.Highlight = deck.ParseAnimationType(importOpts.highlight); dir.Highlight == deck.AnimUnknown {
			return fmt.Errorf("unknown animation %q", importOpts.highlight)
		}
		if _, err := deck.ParseColor(importOpts.color); err != nil {
			return err
		}
		dir.HighlightColor = importOpts.color
		dir.PageDuration = importOpts.pageDuration

		name := deck.OutputName(path)
		d, err := dir.BuildDeck(cmd.Context(), src, name)
		if err != nil {
			return err
		}

		out := importOpts.out
		if out == "" {
			out = director.DeckPath(deck.DefaultDir, name)
		}
		if err := deck.Write(d, out); err != nil {
			return err
		}

		regions := 0
		for _, s := range d.Slides {
			regions += len(s.Elements) - 1
		}
		fmt.Printf("[+++] Deck written: %s (%d slides, %d regions)\n", out, len(d.Slides), regions)
		return nil
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importOpts.out, "out", "", "Deck file (.yaml or .json)")
	f.StringVar(&importOpts.detector, "detector", "contrast", "Block detector: contrast, none")
	f.Float64Var(&importOpts.pageDuration, "page-duration", 0, "Seconds per page (0 = derived from the number of blocks)")
	f.StringVar(&importOpts.transition, "transition", "fade", "Transition between pages")
	f.StringVar(&importOpts.highlight, "highlight", "zoomIn", "Animation of each highlighted block")
	f.StringVar(&importOpts.color, "color", "#ffd600", "Highlight border colour")

	rootCmd.AddCommand(importCmd)
}
