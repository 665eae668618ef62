package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Errorf("Expected 1920x1080, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 30 {
		t.Errorf("Expected 30 fps, got %d", cfg.FPS)
	}
	if cfg.Quality != 0.92 {
		t.Errorf("Expected quality 0.92, got %f", cfg.Quality)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{"odd size rounded", func(c *Config) { c.Width, c.Height = 101, 51 }, false, func(t *testing.T, c *Config) {
			if c.Width != 102 || c.Height != 52 {
				t.Errorf("Expected 102x52, got %dx%d", c.Width, c.Height)
			}
		}},
		{"quality clamped", func(c *Config) { c.Quality = 3 }, false, func(t *testing.T, c *Config) {
			if c.Quality != 1 {
				t.Errorf("Expected quality 1, got %f", c.Quality)
			}
		}},
		{"preset", func(c *Config) { c.Preset = "9:16" }, false, func(t *testing.T, c *Config) {
			if c.Width != 1080 || c.Height != 1920 {
				t.Errorf("Expected 1080x1920, got %dx%d", c.Width, c.Height)
			}
		}},
		{"zero fps", func(c *Config) { c.FPS = 0 }, true, nil},
		{"bad preset", func(c *Config) { c.Preset = "3:2" }, true, nil},
		{"bad encoder", func(c *Config) { c.Encoder = "gstreamer" }, true, nil},
		{"bad policy", func(c *Config) { c.OnElementError = "retry" }, true, nil},
		{"policy case", func(c *Config) { c.OnElementError = "SKIP" }, false, func(t *testing.T, c *Config) {
			if c.OnElementError != OnErrorSkip {
				t.Errorf("Expected skip, got %s", c.OnElementError)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "width: 1280\nheight: 720\nfps: 24\ncodecs: [h264]\non_element_error: skip\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Width != 1280 || cfg.Height != 720 || cfg.FPS != 24 {
		t.Errorf("Unexpected size/fps: %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	if len(cfg.Codecs) != 1 || cfg.Codecs[0] != "h264" {
		t.Errorf("Unexpected codecs: %v", cfg.Codecs)
	}
	if cfg.Quality != 0.92 {
		t.Errorf("Quality default should survive partial file, got %f", cfg.Quality)
	}
	if cfg.OnElementError != OnErrorSkip {
		t.Errorf("Expected skip policy, got %s", cfg.OnElementError)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SLIDES2VIDEO_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("SLIDES2VIDEO_WORKERS", "3")
	t.Setenv("SLIDES2VIDEO_ENCODER", "vidio")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("Unexpected ffmpeg path: %s", cfg.FFmpegPath)
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.Workers)
	}
	if cfg.Encoder != "vidio" {
		t.Errorf("Expected vidio encoder, got %s", cfg.Encoder)
	}
}
