// Package engine runs an export job: it prepares slide bitmaps, renders the
// frame sequence and feeds it to a video encoder, reporting progress as it goes.
package engine

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/slides2video/internal/config"
	"github.com/ivlev/slides2video/internal/deck"
	"github.com/ivlev/slides2video/internal/raster"
	"github.com/ivlev/slides2video/internal/system"
	"github.com/ivlev/slides2video/internal/timeline"
	"github.com/ivlev/slides2video/internal/video"
)

// Job is one export. A Job may be run more than once; runs share no state.
type Job struct {
	Config     *config.Config
	Rasterizer raster.Rasterizer
	Encoder    video.VideoEncoder
	OnProgress ProgressFunc
}

func NewJob(cfg *config.Config, r raster.Rasterizer, enc video.VideoEncoder, onProgress ProgressFunc) *Job {
	return &Job{
		Config:     cfg,
		Rasterizer: r,
		Encoder:    enc,
		OnProgress: onProgress,
	}
}

type runStats struct {
	start        time.Time
	prepareStart time.Time
	renderStart  time.Time
	encodeStart  time.Time
	frames       int
	slides       int
}

// Run exports d to base plus the selected codec's extension and returns the
// path of the finished file. On any error no output file is left behind and
// the error is reported once with StatusError.
func (j *Job) Run(ctx context.Context, d *deck.Deck, base string) (string, error) {
	cfg := j.Config
	stats := runStats{start: time.Now(), slides: len(d.Slides)}
	total := len(d.Slides)

	if total == 0 {
		return "", j.fail(0, total, ErrNoSlides)
	}
	// the caller's deck stays editable; defaults are filled on a copy
	d = d.Clone()
	if err := d.Normalize(); err != nil {
		return "", j.fail(0, total, err)
	}
	codec, err := j.Encoder.Select(ctx, cfg.Codecs)
	if err != nil {
		return "", j.fail(0, total, err)
	}

	slides := d.Slides
	if cfg.TotalDuration > 0 {
		slides = Retime(slides, cfg.TotalDuration, cfg.FPS)
	}
	plans := timeline.PlanDeck(slides, cfg.FPS)
	totalFrames := timeline.TotalFrames(plans)

	fmt.Println("--- [SLIDES2VIDEO] ---")
	fmt.Printf("[*] Slides: %d | Frames: %d (%.2fs)\n", total, totalFrames, float64(totalFrames)/float64(cfg.FPS))
	fmt.Printf("[*] Resolution: %dx%d @ %d FPS | Codec: %s\n", cfg.Width, cfg.Height, cfg.FPS, codec)
	fmt.Println("----------------------")
	j.checkMemory(ctx, slides)

	// Preparing
	stats.prepareStart = time.Now()
	j.report(StatusPreparing, 0, total, 0, "rasterizing elements")
	rendered, err := j.Prepare(ctx, slides, func(done, i int) {
		j.report(StatusPreparing, i+1, total, done*prepareWeight/total, fmt.Sprintf("slide %d prepared", i+1))
	})
	if err != nil {
		return "", j.fail(0, total, err)
	}

	// Rendering
	stats.renderStart = time.Now()
	path := base + codec.Ext
	w, err := j.Encoder.Open(ctx, path, codec, cfg.EncodeParams())
	if err != nil {
		return "", j.fail(0, total, &EncodingError{Err: err})
	}

	ends := make([]int, total)
	acc := 0
	for i, p := range plans {
		acc += p.Frames()
		ends[i] = acc
	}
	finished := 0
	advance := func() {
		for finished < total && stats.frames >= ends[finished] {
			finished++
			j.report(StatusRendering, finished, total, prepareWeight+finished*renderWeight/total,
				fmt.Sprintf("slide %d rendered", finished))
		}
	}

	j.report(StatusRendering, 1, total, prepareWeight, "rendering frames")
	for f, err := range j.Frames(ctx, rendered) {
		if err != nil {
			w.Abort()
			return "", j.fail(f.Slide+1, total, err)
		}
		if err := w.WriteFrame(f.Image); err != nil {
			w.Abort()
			if ctx.Err() != nil {
				return "", j.fail(f.Slide+1, total, ErrCanceled)
			}
			return "", j.fail(f.Slide+1, total, &EncodingError{Frame: stats.frames, Err: err})
		}
		stats.frames++
		advance()
	}
	advance()

	// Encoding
	stats.encodeStart = time.Now()
	j.report(StatusEncoding, total, total, prepareWeight+renderWeight, "finalizing "+codec.String())
	if err := w.Close(); err != nil {
		if ctx.Err() != nil {
			return "", j.fail(total, total, ErrCanceled)
		}
		return "", j.fail(total, total, &EncodingError{Frame: stats.frames, Err: err})
	}

	j.report(StatusComplete, total, total, 100, path)
	if cfg.ShowStats {
		j.printStats(ctx, stats, path)
	}
	return path, nil
}

func (j *Job) report(status Status, slide, total, progress int, msg string) {
	if j.OnProgress == nil {
		return
	}
	j.OnProgress(Progress{
		Status:       status,
		CurrentSlide: slide,
		TotalSlides:  total,
		Progress:     progress,
		Message:      msg,
	})
}

func (j *Job) fail(slide, total int, err error) error {
	j.report(StatusError, slide, total, 0, err.Error())
	return err
}

// checkMemory warns when the prepared bitmaps are unlikely to fit in RAM.
func (j *Job) checkMemory(ctx context.Context, slides []deck.Slide) {
	w, h := j.Config.Width, j.Config.Height
	frame := image.Rect(0, 0, w, h)
	area := 0
	for _, s := range slides {
		for _, el := range s.Elements {
			rect := el.Position.Pixels(w, h).Intersect(frame)
			area += rect.Dx() * rect.Dy()
		}
	}
	// element bitmaps, base + snapshot per slide, the output surface
	buffers := (area+w*h-1)/(w*h) + 2*len(slides) + 1
	r, err := system.CheckMemory(ctx, buffers, w, h)
	if err != nil {
		return
	}
	if !r.Fits() {
		fmt.Printf("[!] Low memory: %s\n", r)
	}
}

func (j *Job) printStats(ctx context.Context, s runStats, path string) {
	now := time.Now()
	totalTime := now.Sub(s.start)
	prepareTime := s.renderStart.Sub(s.prepareStart)
	renderTime := s.encodeStart.Sub(s.renderStart)
	encodeTime := now.Sub(s.encodeStart)
	fps := float64(s.frames) / totalTime.Seconds()

	rss := "n/a"
	if n, err := system.ProcessRSS(ctx); err == nil {
		rss = system.FormatBytes(n)
	}

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Preparing: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n"+
			"RSS: %s\n"+
			"----------------------------\n",
		j.Config.BuildVersion, totalTime.Seconds(), prepareTime.Seconds(), renderTime.Seconds(),
		encodeTime.Seconds(), s.frames, fps, rss,
	)

	logEntry := fmt.Sprintf("[%s] Build: %s | Output: %s | Slides: %d | Frames: %d | Total: %.2fs | Prepare: %.2fs | Render: %.2fs | FPS: %.2f | RSS: %s\n",
		now.Format("2006-01-02 15:04:05"),
		j.Config.BuildVersion,
		filepath.Base(path),
		s.slides,
		s.frames,
		totalTime.Seconds(),
		prepareTime.Seconds(),
		renderTime.Seconds(),
		fps,
		rss,
	)
	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
		return
	}
	f.WriteString(logEntry)
	f.Close()
}
