package video

import (
	"context"
	"fmt"
	"image"
	"os"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/ivlev/slides2video/internal/config"
)

// VidioEncoder pushes frames through Vidio's writer, which drives the ffmpeg
// found on PATH and picks the container from the file extension.
type VidioEncoder struct {
	Probe ProbeFunc
}

func NewVidioEncoder() *VidioEncoder {
	return &VidioEncoder{Probe: FFmpegProbe("ffmpeg")}
}

func (e *VidioEncoder) Select(ctx context.Context, prefs []string) (Codec, error) {
	return selectCodec(ctx, e.Probe, prefs)
}

func (e *VidioEncoder) Open(ctx context.Context, path string, codec Codec, params config.EncodeParams) (FrameWriter, error) {
	tmp, err := tempOutput(path)
	if err != nil {
		return nil, err
	}
	// only the unique name is needed, Vidio creates the file
	os.Remove(tmp)

	writer, err := vidio.NewVideoWriter(tmp, params.Width, params.Height, vidioOptions(codec, params))
	if err != nil {
		return nil, fmt.Errorf("vidio: %w", err)
	}
	return &vidioWriter{ctx: ctx, w: writer, tmp: tmp, path: path, width: params.Width, height: params.Height}, nil
}

// vidioOptions maps encode params onto Vidio's options. Vidio's quality
// scale is inverted: 0 is best, 1 is worst.
func vidioOptions(codec Codec, params config.EncodeParams) *vidio.Options {
	return &vidio.Options{
		FPS:     float64(params.FPS),
		Bitrate: params.Bitrate * 1000,
		Codec:   codec.Encoder,
		Quality: 1 - params.Quality,
	}
}

type vidioWriter struct {
	ctx           context.Context
	w             *vidio.VideoWriter
	tmp, path     string
	width, height int
	done          bool
}

func (v *vidioWriter) WriteFrame(img *image.RGBA) error {
	if v.done {
		return fmt.Errorf("write after close")
	}
	if err := v.ctx.Err(); err != nil {
		return err
	}
	b := img.Bounds()
	if b.Dx() != v.width || b.Dy() != v.height {
		return fmt.Errorf("frame is %dx%d, encoder expects %dx%d", b.Dx(), b.Dy(), v.width, v.height)
	}
	if img.Stride == v.width*4 && b.Min == (image.Point{}) {
		return v.w.Write(img.Pix)
	}
	packed := image.NewRGBA(image.Rect(0, 0, v.width, v.height))
	for y := 0; y < v.height; y++ {
		copy(packed.Pix[y*packed.Stride:(y+1)*packed.Stride], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return v.w.Write(packed.Pix)
}

func (v *vidioWriter) Close() error {
	if v.done {
		return nil
	}
	v.done = true
	v.w.Close()
	if _, err := os.Stat(v.tmp); err != nil {
		return fmt.Errorf("vidio: no output written: %w", err)
	}
	return os.Rename(v.tmp, v.path)
}

func (v *vidioWriter) Abort() error {
	if v.done {
		return nil
	}
	v.done = true
	v.w.Close()
	os.Remove(v.tmp)
	return nil
}
