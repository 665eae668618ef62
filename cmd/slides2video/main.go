package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ivlev/slides2video/internal/config"
	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/system"
)

// BuildVersion is set with -ldflags "-X main.BuildVersion=...".
var BuildVersion = "dev"

var opts struct {
	configPath     string
	width, height  int
	fps            int
	quality        float64
	preset         string
	filename       string
	outDir         string
	workers        int
	encoder        string
	codecs         string
	bitrate        int
	ffmpeg         string
	rasterizer     string
	onElementError string
	declaredEasing bool
	duration       float64
	assets         string
	font           string
	debug          bool
	stats          bool
}

var rootCmd = &cobra.Command{
	Use:   "slides2video",
	Short: "Render slide decks with animations and transitions into a video file",
	Long: `slides2video turns a JSON or YAML slide deck into a video.
Every element is rasterized once, animated frame by frame and the frames are
pushed straight into ffmpeg. Without a deck argument the most recent deck in
input/decks is used.`,
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.IntVar(&opts.width, "width", 1920, "Output width")
	f.IntVar(&opts.height, "height", 1080, "Output height")
	f.IntVar(&opts.fps, "fps", 30, "Frames per second")
	f.Float64Var(&opts.quality, "quality", 0.92, "Quality 0..1 (mapped to the encoder's CRF/bitrate)")
	f.StringVar(&opts.preset, "preset", "", "Format preset: 16:9, 9:16, 4:5, 1:1")
	f.StringVar(&opts.filename, "filename", "", "Output file name without extension (default: deck name + timestamp)")
	f.StringVar(&opts.outDir, "out-dir", "output", "Output directory")
	f.IntVar(&opts.workers, "workers", 0, "Rasterization workers (default: number of CPUs)")
	f.StringVar(&opts.encoder, "encoder", "ffmpeg", "Encoder backend: ffmpeg, vidio")
	f.StringVar(&opts.codecs, "codecs", "vp9,vp8,h264", "Codec preference list")
	f.IntVar(&opts.bitrate, "bitrate", 0, "Bitrate in kbit/s (0 = quality driven)")
	f.StringVar(&opts.ffmpeg, "ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	f.StringVar(&opts.rasterizer, "rasterizer", "canvas", "Rasterizer: canvas, browser (needed for html elements)")
	f.StringVar(&opts.onElementError, "on-element-error", "abort", "What to do when an element cannot be rasterized: abort, skip")
	f.BoolVar(&opts.declaredEasing, "declared-easing", false, "Pace animations with each element's own easing instead of easeOutCubic")
	f.Float64Var(&opts.duration, "duration", 0, "Retime the deck to this total length in seconds (0 = as authored)")
	f.StringVar(&opts.assets, "assets", "", "Directory image paths are resolved against (default: the deck's directory)")
	f.StringVar(&opts.font, "font", "", "TTF/OTF font for text elements (default: Go Regular)")
	f.BoolVar(&opts.debug, "debug", false, "Overlay frame number and timestamp")
	f.BoolVar(&opts.stats, "stats", false, "Print a performance report and append it to benchmark.log")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(codecsCmd)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[!] .env: %v", err)
	}

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	for _, d := range []string{deck.DefaultDir, "output"} {
		os.MkdirAll(d, 0755)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("[-] %v", err)
	}
}

// loadConfig layers defaults, the config file, the environment and the flags
// the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.BuildVersion = BuildVersion

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("width", func() { cfg.Width = opts.width })
	set("height", func() { cfg.Height = opts.height })
	set("fps", func() { cfg.FPS = opts.fps })
	set("quality", func() { cfg.Quality = opts.quality })
	set("preset", func() { cfg.Preset = opts.preset })
	set("filename", func() { cfg.Filename = opts.filename })
	set("workers", func() { cfg.Workers = opts.workers })
	set("encoder", func() { cfg.Encoder = opts.encoder })
	set("codecs", func() { cfg.Codecs = splitList(opts.codecs) })
	set("bitrate", func() { cfg.Bitrate = opts.bitrate })
	set("ffmpeg", func() { cfg.FFmpegPath = opts.ffmpeg })
	set("rasterizer", func() { cfg.Rasterizer = opts.rasterizer })
	set("on-element-error", func() { cfg.OnElementError = opts.onElementError })
	set("declared-easing", func() { cfg.UseDeclaredEasing = opts.declaredEasing })
	set("duration", func() { cfg.TotalDuration = opts.duration })
	set("assets", func() { cfg.AssetDir = opts.assets })
	set("font", func() { cfg.FontPath = opts.font })
	set("debug", func() { cfg.Debug = opts.debug })
	set("stats", func() { cfg.ShowStats = opts.stats })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveDeck returns the deck path from args or the newest deck in input/decks.
func resolveDeck(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	latest, err := deck.FindLatest(deck.DefaultDir)
	if err != nil {
		return "", fmt.Errorf("%w. Put a deck into %s/", err, deck.DefaultDir)
	}
	fmt.Printf("[*] Selected deck: %s\n", latest)
	return latest, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
