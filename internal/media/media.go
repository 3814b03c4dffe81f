package media

import (
	"context"
	"fmt"
	"time"
)

// TrackType is the kind of a container track.
type TrackType string

const (
	TrackVideo    TrackType = "video"
	TrackAudio    TrackType = "audio"
	TrackSubtitle TrackType = "subtitle"
	TrackOther    TrackType = "other"
)

// Matroska codec identifiers recognized by the classifier.
const (
	CodecHEVC   = "V_MPEGH/ISO/HEVC"
	CodecAVC    = "V_MPEG4/ISO/AVC"
	CodecAV1    = "V_AV1"
	CodecVP9    = "V_VP9"
	CodecMPEG2  = "V_MPEG2"
	CodecAAC    = "A_AAC"
	CodecAC3    = "A_AC3"
	CodecEAC3   = "A_EAC3"
	CodecDTS    = "A_DTS"
	CodecTrueHD = "A_TRUEHD"
	CodecFLAC   = "A_FLAC"
	CodecOpus   = "A_OPUS"
	CodecVobSub = "S_VOBSUB"
	CodecSubRip = "S_TEXT/UTF8"
	CodecPGS    = "S_HDMV/PGS"
	CodecSSA    = "S_TEXT/ASS"
)

// VideoSettings carries the video-specific track settings.
type VideoSettings struct {
	PixelWidth  int
	PixelHeight int
}

// AudioSettings carries the audio-specific track settings.
type AudioSettings struct {
	Channels int
}

// Track is one decoded container track. Video is set only for video tracks
// and Audio only for audio tracks; either may be nil when the container
// omitted the settings block.
type Track struct {
	Type    TrackType
	CodecID string
	Video   *VideoSettings
	Audio   *AudioSettings
}

// Container is the decoded track list of one media file.
type Container struct {
	Tracks   []Track
	Duration time.Duration
}

// FirstOfType returns the first track of type kind in listed order.
func FirstOfType(tracks []Track, kind TrackType) (Track, bool) {
	for _, track := range tracks {
		if track.Type == kind {
			return track, true
		}
	}
	return Track{}, false
}

// Prober decodes the container of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (Container, error)
}

// FormatDuration renders d as whole hours and zero-padded minutes, for
// example "2h 07min". Seconds are truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMinutes := int64(d / time.Minute)
	return fmt.Sprintf("%dh %02dmin", totalMinutes/60, totalMinutes%60)
}
