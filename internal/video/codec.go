package video

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ivlev/slides2video/internal/system"
)

// ErrUnsupportedEncoder means none of the requested codecs can be produced.
var ErrUnsupportedEncoder = errors.New("no supported video codec")

// Codec is one concrete way to produce the output file.
type Codec struct {
	Name    string // vp9, vp8, h264
	Encoder string // ffmpeg encoder
	Format  string // ffmpeg muxer
	Ext     string
	MIME    string
}

func (c Codec) String() string { return c.Name + "/" + c.Encoder }

// codecTable lists, per codec name, the encoders to try in order.
var codecTable = map[string][]Codec{
	"vp9": {
		{Name: "vp9", Encoder: "libvpx-vp9", Format: "webm", Ext: ".webm", MIME: "video/webm; codecs=vp9"},
	},
	"vp8": {
		{Name: "vp8", Encoder: "libvpx", Format: "webm", Ext: ".webm", MIME: "video/webm; codecs=vp8"},
	},
	"h264": {
		{Name: "h264", Encoder: "h264_videotoolbox", Format: "mp4", Ext: ".mp4", MIME: "video/mp4"},
		{Name: "h264", Encoder: "h264_nvenc", Format: "mp4", Ext: ".mp4", MIME: "video/mp4"},
		{Name: "h264", Encoder: "libx264", Format: "mp4", Ext: ".mp4", MIME: "video/mp4"},
	},
}

// KnownCodecs returns the codec names that can appear in a preference list.
func KnownCodecs() []string {
	names := make([]string, 0, len(codecTable))
	for n := range codecTable {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Candidates expands a codec preference list into the ordered fallback list.
func Candidates(prefs []string) ([]Codec, error) {
	var out []Codec
	for _, p := range prefs {
		list, ok := codecTable[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return nil, fmt.Errorf("unknown codec %q (known: %s)", p, strings.Join(KnownCodecs(), ", "))
		}
		out = append(out, list...)
	}
	return out, nil
}

// Pick returns the first candidate whose encoder is available.
func Pick(candidates []Codec, available []string) (Codec, error) {
	for _, c := range candidates {
		if slices.Contains(available, c.Encoder) {
			return c, nil
		}
	}
	return Codec{}, ErrUnsupportedEncoder
}

// ProbeFunc lists the encoders the runtime supports.
type ProbeFunc func(ctx context.Context) ([]string, error)

// FFmpegProbe asks the ffmpeg binary at path for its encoders.
func FFmpegProbe(path string) ProbeFunc {
	return func(ctx context.Context) ([]string, error) {
		return system.ListEncoders(ctx, path)
	}
}

// selectCodec steps down the preference list until the probe reports support.
func selectCodec(ctx context.Context, probe ProbeFunc, prefs []string) (Codec, error) {
	candidates, err := Candidates(prefs)
	if err != nil {
		return Codec{}, err
	}
	available, err := probe(ctx)
	if err != nil {
		return Codec{}, fmt.Errorf("%w: %v", ErrUnsupportedEncoder, err)
	}
	return Pick(candidates, available)
}
