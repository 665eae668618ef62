package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/engine"
	"github.com/ivlev/slides2video/internal/raster"
	"github.com/ivlev/slides2video/internal/system"
	"github.com/ivlev/slides2video/internal/timeline"
	"github.com/ivlev/slides2video/internal/video"
)

var planOut string

var planCmd = &cobra.Command{
	Use:   "plan [deck]",
	Short: "Print the resolved timeline of a deck without rendering",
	Long: `Print every slide's transition and content frame counts and the resolved
start time of each animated element. With --out the normalized (and, with
--duration, retimed) deck is written back as JSON or YAML.`,
	Args: cobra.MaximumNArgs(1),
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
		if cfg.TotalDuration > 0 {
			d.Slides = engine.Retime(d.Slides, cfg.TotalDuration, cfg.FPS)
		}

		plans := timeline.PlanDeck(d.Slides, cfg.FPS)
		for i, p := range plans {
			s := d.Slides[i]
			fmt.Printf("[>] Slide %d: %s %d frames + content %.2fs %d frames\n",
				i+1, p.Transition, p.TransitionFrames, p.ContentDuration, p.ContentFrames)
			for k, e := range p.Table.Entries {
				if !e.Animated {
					continue
				}
				el := s.Elements[k]
				name := el.ID
				if name == "" {
					name = fmt.Sprintf("#%d", k+1)
				}
				fmt.Printf("    %-12s %-14s start %.2fs duration %.2fs (%s)\n",
					name, el.Animation.Type, e.Start, e.Duration, el.Animation.StartTrigger)
			}
		}
		total := timeline.TotalFrames(plans)
		fmt.Printf("[*] Total: %d frames, %.2fs @ %d FPS\n", total, float64(total)/float64(cfg.FPS), cfg.FPS)

		if planOut != "" {
			if err := deck.Write(d, planOut); err != nil {
				return err
			}
			fmt.Printf("[+++] Deck written: %s\n", planOut)
		}
		return nil
	},
}

var previewSlide int

var previewCmd = &cobra.Command{
	Use:   "preview [deck]",
	Short: "Write PNG snapshots of slides at rest",
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

		dir := filepath.Join(opts.outDir, deck.OutputName(deckPath)+"_preview")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		for i, s := range d.Slides {
			if previewSlide > 0 && i+1 != previewSlide {
				continue
			}
			img, err := r.RasterizeSlide(cmd.Context(), s, image.Pt(cfg.Width, cfg.Height))
			if err != nil {
				return fmt.Errorf("slide %d: %w", i+1, err)
			}
			path := filepath.Join(dir, fmt.Sprintf("slide_%03d.png", i+1))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			err = png.Encode(f, img)
			f.Close()
			if err != nil {
				return err
			}
			fmt.Printf("[>] %s\n", path)
		}
		return nil
	},
}

var codecsCmd = &cobra.Command{
	Use:   "codecs",
	Short: "Show the codec fallback list and what the local ffmpeg supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		candidates, err := video.Candidates(cfg.Codecs)
		if err != nil {
			return err
		}
		available, err := system.ListEncoders(cmd.Context(), cfg.FFmpegPath)
		if err != nil {
			fmt.Printf("[!] ffmpeg not usable: %v\n", err)
		}

		picked := ""
		for _, c := range candidates {
			mark := "-"
			if slices.Contains(available, c.Encoder) {
				mark = "+"
				if picked == "" {
					picked = c.String()
				}
			}
			fmt.Printf("[%s] %-5s %-18s %s\n", mark, c.Name, c.Encoder, c.MIME)
		}
		if picked == "" {
			return fmt.Errorf("%w (tried %s)", video.ErrUnsupportedEncoder, strings.Join(cfg.Codecs, ", "))
		}
		fmt.Printf("[*] Selected: %s\n", picked)
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planOut, "out", "", "Write the normalized deck to this .json/.yaml file")
	previewCmd.Flags().IntVar(&previewSlide, "slide", 0, "Only this slide (1-based)")
}
