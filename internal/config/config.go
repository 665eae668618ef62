package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Element rasterization failure policies.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

type Config struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	FPS      int     `yaml:"fps"`
	Quality  float64 `yaml:"quality"`
	Filename string  `yaml:"filename"` // without extension; empty = derived from the deck
	Preset   string  `yaml:"preset"`

	Workers           int      `yaml:"workers"`
	Encoder           string   `yaml:"encoder"`
	Codecs            []string `yaml:"codecs"`
	Bitrate           int      `yaml:"bitrate"` // kbit/s, 0 = quality driven
	FFmpegPath        string   `yaml:"ffmpeg"`
	Rasterizer        string   `yaml:"rasterizer"`
	OnElementError    string   `yaml:"on_element_error"`
	UseDeclaredEasing bool     `yaml:"declared_easing"`
	TotalDuration     float64  `yaml:"total_duration"`
	AssetDir          string   `yaml:"assets"`
	FontPath          string   `yaml:"font"`

	Debug        bool   `yaml:"debug"`
	ShowStats    bool   `yaml:"stats"`
	BuildVersion string `yaml:"-"`
}

// EncodeParams is the subset of Config the encoder needs.
type EncodeParams struct {
	Width, Height int
	FPS           int
	Quality       float64
	Bitrate       int
	Debug         bool
}

func Default() *Config {
	return &Config{
		Width:          1920,
		Height:         1080,
		FPS:            30,
		Quality:        0.92,
		Workers:        runtime.NumCPU(),
		Encoder:        "ffmpeg",
		Codecs:         []string{"vp9", "vp8", "h264"},
		FFmpegPath:     "ffmpeg",
		Rasterizer:     "canvas",
		OnElementError: OnErrorAbort,
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SLIDES2VIDEO_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SLIDES2VIDEO_FFMPEG"); v != "" {
		c.FFmpegPath = v
	}
	if v := os.Getenv("SLIDES2VIDEO_ENCODER"); v != "" {
		c.Encoder = v
	}
	if v := os.Getenv("SLIDES2VIDEO_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
}

// ApplyPreset switches the output size to a named aspect preset.
func (c *Config) ApplyPreset() error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1920, 1080
	case "9:16":
		c.Width, c.Height = 1080, 1920
	case "4:5":
		c.Width, c.Height = 1080, 1350
	case "1:1":
		c.Width, c.Height = 1080, 1080
	default:
		return fmt.Errorf("unknown preset %q (expected 16:9, 9:16, 4:5, 1:1)", c.Preset)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.ApplyPreset(); err != nil {
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid output size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps: %d", c.FPS)
	}
	// yuv420p needs even dimensions
	if c.Width%2 != 0 {
		c.Width++
	}
	if c.Height%2 != 0 {
		c.Height++
	}
	if c.Quality < 0 {
		c.Quality = 0
	}
	if c.Quality > 1 {
		c.Quality = 1
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Bitrate < 0 {
		return fmt.Errorf("invalid bitrate: %d", c.Bitrate)
	}
	if c.TotalDuration < 0 {
		return fmt.Errorf("invalid total duration: %f", c.TotalDuration)
	}
	c.OnElementError = strings.ToLower(c.OnElementError)
	switch c.OnElementError {
	case "":
		c.OnElementError = OnErrorAbort
	case OnErrorAbort, OnErrorSkip:
	default:
		return fmt.Errorf("invalid on_element_error %q (expected abort or skip)", c.OnElementError)
	}
	switch c.Encoder {
	case "ffmpeg", "vidio":
	default:
		return fmt.Errorf("unknown encoder %q (expected ffmpeg or vidio)", c.Encoder)
	}
	switch c.Rasterizer {
	case "canvas", "browser":
	default:
		return fmt.Errorf("unknown rasterizer %q (expected canvas or browser)", c.Rasterizer)
	}
	if len(c.Codecs) == 0 {
		c.Codecs = Default().Codecs
	}
	return nil
}

func (c *Config) EncodeParams() EncodeParams {
	return EncodeParams{
		Width:   c.Width,
		Height:  c.Height,
		FPS:     c.FPS,
		Quality: c.Quality,
		Bitrate: c.Bitrate,
		Debug:   c.Debug,
	}
}
