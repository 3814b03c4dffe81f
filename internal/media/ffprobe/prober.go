package ffprobe

import (
	"context"
	"math"
	"strings"
	"time"

	"movielog/internal/media"
	"movielog/internal/movieerr"
)

var codecIDs = map[string]string{
	"hevc":              media.CodecHEVC,
	"h264":              media.CodecAVC,
	"av1":               media.CodecAV1,
	"vp9":               media.CodecVP9,
	"mpeg2video":        media.CodecMPEG2,
	"aac":               media.CodecAAC,
	"ac3":               media.CodecAC3,
	"eac3":              media.CodecEAC3,
	"dts":               media.CodecDTS,
	"truehd":            media.CodecTrueHD,
	"flac":              media.CodecFLAC,
	"opus":              media.CodecOpus,
	"subrip":            media.CodecSubRip,
	"ass":               media.CodecSSA,
	"ssa":               media.CodecSSA,
	"hdmv_pgs_subtitle": media.CodecPGS,
	"dvd_subtitle":      media.CodecVobSub,
}

// Prober implements media.Prober by running ffprobe.
type Prober struct {
	Binary string
}

// NewProber returns a prober that runs binary, or "ffprobe" when empty.
func NewProber(binary string) *Prober {
	return &Prober{Binary: binary}
}

// Probe inspects path and converts the result into a media.Container.
func (p *Prober) Probe(ctx context.Context, path string) (media.Container, error) {
	result, err := Inspect(ctx, p.Binary, path)
	if err != nil {
		return media.Container{}, movieerr.Wrap(movieerr.ErrProbe, "probe", "ffprobe", path, err)
	}
	return ToContainer(result), nil
}

// ToContainer converts ffprobe streams into Matroska-style tracks, keeping
// stream order.
func ToContainer(result Result) media.Container {
	tracks := make([]media.Track, 0, len(result.Streams))
	for _, stream := range result.Streams {
		track := media.Track{CodecID: CodecID(stream.CodecName)}
		switch strings.ToLower(strings.TrimSpace(stream.CodecType)) {
		case "video":
			track.Type = media.TrackVideo
			if stream.Width > 0 {
				track.Video = &media.VideoSettings{PixelWidth: stream.Width, PixelHeight: stream.Height}
			}
		case "audio":
			track.Type = media.TrackAudio
			track.Audio = &media.AudioSettings{Channels: matroskaChannels(stream.Channels)}
		case "subtitle":
			track.Type = media.TrackSubtitle
		default:
			track.Type = media.TrackOther
		}
		tracks = append(tracks, track)
	}

	var duration time.Duration
	if secs := result.DurationSeconds(); !math.IsNaN(secs) && secs > 0 {
		duration = time.Duration(secs * float64(time.Second))
	}
	return media.Container{Tracks: tracks, Duration: duration}
}

// matroskaChannels converts an ffprobe channel count to the Matroska track
// value, which leaves mono unset and so decodes as 0.
func matroskaChannels(n int) int {
	if n == 1 {
		return 0
	}
	return n
}

// CodecID maps an ffprobe codec name onto its Matroska codec identifier.
func CodecID(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if id, ok := codecIDs[normalized]; ok {
		return id
	}
	return "ffprobe:" + normalized
}
