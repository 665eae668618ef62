package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ivlev/slides2video/internal/config"
	"github.com/ivlev/slides2video/internal/system"
)

// FrameWriter consumes frames in order. Close finalizes the file; Abort
// discards it. Exactly one of them must be called.
type FrameWriter interface {
	WriteFrame(img *image.RGBA) error
	Close() error
	Abort() error
}

type VideoEncoder interface {
	// Select picks the first supported codec from the preference list.
	Select(ctx context.Context, prefs []string) (Codec, error)
	// Open starts an output at path (which already carries codec.Ext).
	Open(ctx context.Context, path string, codec Codec, params config.EncodeParams) (FrameWriter, error)
}

// New builds the encoder backend named in cfg.
func New(cfg *config.Config) (VideoEncoder, error) {
	switch cfg.Encoder {
	case "", "ffmpeg":
		return NewFFmpegEncoder(cfg.FFmpegPath), nil
	case "vidio":
		return NewVidioEncoder(), nil
	default:
		return nil, fmt.Errorf("unknown encoder %q", cfg.Encoder)
	}
}

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg process.
type FFmpegEncoder struct {
	Path  string
	Probe ProbeFunc
}

func NewFFmpegEncoder(path string) *FFmpegEncoder {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegEncoder{Path: path, Probe: FFmpegProbe(path)}
}

func (e *FFmpegEncoder) Select(ctx context.Context, prefs []string) (Codec, error) {
	return selectCodec(ctx, e.Probe, prefs)
}

func (e *FFmpegEncoder) Open(ctx context.Context, path string, codec Codec, params config.EncodeParams) (FrameWriter, error) {
	tmp, err := tempOutput(path)
	if err != nil {
		return nil, err
	}

	debugText := params.Debug && system.CheckFilterSupport(ctx, e.Path, "drawtext")
	args := buildFFmpegArgs(tmp, codec, params, debugText)
	cmd := exec.CommandContext(ctx, e.Path, args...)

	w := &ffmpegWriter{
		cmd:    cmd,
		tmp:    tmp,
		path:   path,
		width:  params.Width,
		height: params.Height,
	}
	cmd.Stderr = &w.stderr

	w.stdin, err = cmd.StdinPipe()
	if err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return w, nil
}

// tempOutput reserves a sibling of path that keeps its extension.
func tempOutput(path string) (string, error) {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	f, err := os.CreateTemp(dir, strings.TrimSuffix(base, ext)+".*.part"+ext)
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()
	return name, nil
}

func buildFFmpegArgs(output string, codec Codec, p config.EncodeParams, debugText bool) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
	}
	if debugText {
		args = append(args, "-vf", "drawtext=text='%{n} %{pts\\:hms}':x=10:y=10:fontsize=24:fontcolor=yellow:box=1:boxcolor=black@0.5")
	}
	args = append(args, "-c:v", codec.Encoder, "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(codec.Encoder, p)...)
	if codec.Format == "mp4" {
		args = append(args, "-movflags", "+faststart")
	}
	args = append(args, "-f", codec.Format, output)
	return args
}

// qualityArgs maps quality 0..1 (or an explicit bitrate) onto each encoder's
// rate control.
func qualityArgs(encoder string, p config.EncodeParams) []string {
	q := math.Max(0, math.Min(1, p.Quality))
	bitrate := func(k int) []string { return []string{"-b:v", fmt.Sprintf("%dk", k)} }

	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox не везде понимает -q:v, поэтому только битрейт
		if p.Bitrate > 0 {
			return bitrate(p.Bitrate)
		}
		return bitrate(int(q*100) * 100)
	case "h264_nvenc":
		if p.Bitrate > 0 {
			return bitrate(p.Bitrate)
		}
		return []string{"-cq", fmt.Sprintf("%d", x264CRF(q))}
	case "libvpx-vp9":
		args := []string{"-crf", fmt.Sprintf("%d", vpxCRF(q)), "-deadline", "good", "-cpu-used", "4", "-row-mt", "1"}
		if p.Bitrate > 0 {
			return append(args, bitrate(p.Bitrate)...)
		}
		return append(args, "-b:v", "0")
	case "libvpx":
		// у VP8 crf работает только вместе с потолком битрейта
		ceiling := p.Bitrate
		if ceiling <= 0 {
			ceiling = 10000
		}
		return append([]string{"-crf", fmt.Sprintf("%d", vpxCRF(q)), "-deadline", "good", "-cpu-used", "4"}, bitrate(ceiling)...)
	default: // libx264
		if p.Bitrate > 0 {
			return append(bitrate(p.Bitrate), "-preset", "medium")
		}
		return []string{"-crf", fmt.Sprintf("%d", x264CRF(q)), "-preset", "medium"}
	}
}

// x264CRF maps quality 1 → 14, 0 → 40.
func x264CRF(q float64) int { return int(math.Round(40 - q*26)) }

// vpxCRF maps quality 1 → 10, 0 → 50.
func vpxCRF(q float64) int { return int(math.Round(50 - q*40)) }

// lockedBuffer collects ffmpeg's stderr. os/exec writes it from its own
// goroutine while frames are still being written.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type ffmpegWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr lockedBuffer
	tmp    string
	path   string
	width  int
	height int
	frames int
	done   bool
}

func (w *ffmpegWriter) WriteFrame(img *image.RGBA) error {
	if w.done {
		return fmt.Errorf("write after close")
	}
	if err := writeRawRGBA(w.stdin, img, w.width, w.height); err != nil {
		return fmt.Errorf("write raw error: %w: %s", err, strings.TrimSpace(w.stderr.String()))
	}
	w.frames++
	return nil
}

func (w *ffmpegWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		os.Remove(w.tmp)
		return fmt.Errorf("ffmpeg wait error: %w: %s", err, strings.TrimSpace(w.stderr.String()))
	}
	if err := os.Rename(w.tmp, w.path); err != nil {
		os.Remove(w.tmp)
		return err
	}
	return nil
}

func (w *ffmpegWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	w.stdin.Close()
	if w.cmd.Process != nil {
		w.cmd.Process.Kill()
	}
	w.cmd.Wait()
	return os.Remove(w.tmp)
}

// writeRawRGBA writes the frame as tightly packed RGBA rows.
func writeRawRGBA(out io.Writer, img *image.RGBA, width, height int) error {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("frame is %dx%d, encoder expects %dx%d", b.Dx(), b.Dy(), width, height)
	}
	if img.Stride != width*4 || b.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(packed, packed.Bounds(), img, b.Min, draw.Src)
		img = packed
	}
	_, err := out.Write(img.Pix)
	return err
}
