package classify

import (
	"errors"
	"fmt"
	"strconv"

	"movielog/internal/media"
	"movielog/internal/movieerr"
)

// UnknownAudio is the audio codec label used for codecs outside the table.
const UnknownAudio = "XXX"

// RawMissing is the raw value recorded when a required track is absent.
const RawMissing = "none"

// Label is a classified value together with the raw input it came from.
type Label struct {
	Value      string
	Raw        string
	Recognized bool
}

func recognized(value, raw string) Label {
	return Label{Value: value, Raw: raw, Recognized: true}
}

func unrecognized(raw string) Label {
	return Label{Raw: raw}
}

// Issue describes one field that could not be classified.
type Issue struct {
	Field string
	Raw   string
	Err   error
}

// Attributes is the classification of one container.
type Attributes struct {
	// Resolution is 2160 or 1080, or 0 when unresolved.
	Resolution int16
	VideoCodec Label
	BitDepth   Label
	AudioCodec Label
	Channels   Label
	// Subtitles is nil when no subtitle track exists or its codec is not in
	// the table.
	Subtitles *Label
	Issues    []Issue
}

// Err joins all issues into one error, or returns nil when every required
// field was recognized.
func (a Attributes) Err() error {
	if len(a.Issues) == 0 {
		return nil
	}
	errs := make([]error, 0, len(a.Issues))
	for _, issue := range a.Issues {
		errs = append(errs, issue.Err)
	}
	return errors.Join(errs...)
}

type videoLabels struct {
	codec    string
	bitDepth string
}

var videoCodecs = map[string]videoLabels{
	media.CodecHEVC: {codec: "x265", bitDepth: "10bit"},
	media.CodecAVC:  {codec: "x264", bitDepth: "8bit"},
}

var audioCodecs = map[string]string{
	media.CodecAAC:    "AAC",
	media.CodecAC3:    "AC3",
	media.CodecEAC3:   "EAC3",
	media.CodecDTS:    "DTS",
	media.CodecTrueHD: "TrueHD Atmos",
}

var channelLayouts = map[int]string{
	8: "7.1",
	7: "6.1",
	6: "5.1",
	4: "4.0",
	2: "2.0",
	0: "1.0",
}

var subtitleFormats = map[string]string{
	media.CodecVobSub: "VOB",
	media.CodecSubRip: "SRT",
	media.CodecPGS:    "PGS",
	media.CodecSSA:    "SSA",
}

// Classify derives the catalog attributes from tracks. Tracks are selected by
// type: the first video, first audio, and first subtitle track in listed order.
func Classify(tracks []media.Track) Attributes {
	var attrs Attributes

	if video, ok := media.FirstOfType(tracks, media.TrackVideo); ok {
		attrs.classifyVideo(video)
	} else {
		attrs.VideoCodec = unrecognized(RawMissing)
		attrs.BitDepth = unrecognized(RawMissing)
		attrs.addIssue("video", RawMissing, classifyErr(movieerr.ErrNoVideoTrack, "video", ""))
	}

	if audio, ok := media.FirstOfType(tracks, media.TrackAudio); ok {
		attrs.classifyAudio(audio)
	} else {
		attrs.AudioCodec = unrecognized(RawMissing)
		attrs.Channels = unrecognized(RawMissing)
		attrs.addIssue("audio", RawMissing, classifyErr(movieerr.ErrNoAudioTrack, "audio", ""))
	}

	if sub, ok := media.FirstOfType(tracks, media.TrackSubtitle); ok {
		if format, ok := SubtitleFormat(sub.CodecID); ok {
			label := recognized(format, sub.CodecID)
			attrs.Subtitles = &label
		}
	}
	return attrs
}

func (a *Attributes) classifyVideo(track media.Track) {
	res, err := Resolution(track.Video)
	if err != nil {
		a.addIssue("resolution", RawMissing, err)
	} else {
		a.Resolution = res
	}

	codec, depth, ok := VideoCodec(track.CodecID)
	if !ok {
		a.VideoCodec = unrecognized(track.CodecID)
		a.BitDepth = unrecognized(track.CodecID)
		a.addIssue("video_codec", track.CodecID, classifyErr(movieerr.ErrUnknownVideoCodec, "video_codec", fmt.Sprintf("codec %q", track.CodecID)))
		return
	}
	a.VideoCodec = recognized(codec, track.CodecID)
	a.BitDepth = recognized(depth, track.CodecID)
}

func (a *Attributes) classifyAudio(track media.Track) {
	a.AudioCodec = AudioCodec(track.CodecID)

	if track.Audio == nil {
		a.Channels = unrecognized(RawMissing)
		a.addIssue("channels", RawMissing, classifyErr(movieerr.ErrUnknownChannelLayout, "channels", "missing audio settings"))
		return
	}
	raw := strconv.Itoa(track.Audio.Channels)
	layout, ok := ChannelLayout(track.Audio.Channels)
	if !ok {
		a.Channels = unrecognized(raw)
		a.addIssue("channels", raw, classifyErr(movieerr.ErrUnknownChannelLayout, "channels", fmt.Sprintf("%d channels", track.Audio.Channels)))
		return
	}
	a.Channels = recognized(layout, raw)
}

func (a *Attributes) addIssue(field, raw string, err error) {
	a.Issues = append(a.Issues, Issue{Field: field, Raw: raw, Err: err})
}

func classifyErr(marker error, field, message string) error {
	return movieerr.Wrap(marker, "classify", field, message, nil)
}

// Resolution returns the resolution tier for the given video settings:
// widths above 1920 are 2160, the rest 1080.
func Resolution(settings *media.VideoSettings) (int16, error) {
	if settings == nil {
		return 0, classifyErr(movieerr.ErrUnresolvableResolution, "resolution", "missing video settings")
	}
	if settings.PixelWidth > 1920 {
		return 2160, nil
	}
	return 1080, nil
}

// VideoCodec maps a video codec id onto its codec and bit depth labels.
func VideoCodec(codecID string) (codec, bitDepth string, ok bool) {
	labels, ok := videoCodecs[codecID]
	return labels.codec, labels.bitDepth, ok
}

// AudioCodec maps an audio codec id onto its label. Unknown codecs yield the
// UnknownAudio sentinel with Recognized=false.
func AudioCodec(codecID string) Label {
	if label, ok := audioCodecs[codecID]; ok {
		return recognized(label, codecID)
	}
	return Label{Value: UnknownAudio, Raw: codecID}
}

// ChannelLayout maps a channel count onto its layout label.
func ChannelLayout(channels int) (string, bool) {
	layout, ok := channelLayouts[channels]
	return layout, ok
}

// SubtitleFormat maps a subtitle codec id onto its format label.
func SubtitleFormat(codecID string) (string, bool) {
	format, ok := subtitleFormats[codecID]
	return format, ok
}
