package ffprobe_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"movielog/internal/classify"
	"movielog/internal/media"
	"movielog/internal/media/ffprobe"
	"movielog/internal/movieerr"
)

const sampleOutput = `{
  "streams": [
    {"index": 0, "codec_name": "hevc", "codec_type": "video", "width": 3840, "height": 1600},
    {"index": 1, "codec_name": "truehd", "codec_type": "audio", "channels": 8},
    {"index": 2, "codec_name": "ac3", "codec_type": "audio", "channels": 6},
    {"index": 3, "codec_name": "hdmv_pgs_subtitle", "codec_type": "subtitle"},
    {"index": 4, "codec_name": "ttf", "codec_type": "attachment"}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 5, "duration": "7625.420000", "size": "1000", "format_name": "matroska,webm"}
}`

func TestToContainerMapsCodecs(t *testing.T) {
	result, err := ffprobe.Parse([]byte(sampleOutput))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	container := ffprobe.ToContainer(result)

	if len(container.Tracks) != 5 {
		t.Fatalf("expected 5 tracks, got %d", len(container.Tracks))
	}
	video := container.Tracks[0]
	if video.Type != media.TrackVideo || video.CodecID != media.CodecHEVC {
		t.Fatalf("unexpected video track %+v", video)
	}
	if video.Video == nil || video.Video.PixelWidth != 3840 {
		t.Fatalf("expected pixel width 3840, got %+v", video.Video)
	}
	audio := container.Tracks[1]
	if audio.CodecID != media.CodecTrueHD || audio.Audio == nil || audio.Audio.Channels != 8 {
		t.Fatalf("unexpected audio track %+v", audio)
	}
	if container.Tracks[3].Type != media.TrackSubtitle || container.Tracks[3].CodecID != media.CodecPGS {
		t.Fatalf("unexpected subtitle track %+v", container.Tracks[3])
	}
	if container.Tracks[4].Type != media.TrackOther {
		t.Fatalf("attachment should map to other, got %+v", container.Tracks[4])
	}
	if got := media.FormatDuration(container.Duration); got != "2h 07min" {
		t.Fatalf("unexpected duration %q", got)
	}
}

func TestCodecIDPassesThroughUnknownNames(t *testing.T) {
	if got := ffprobe.CodecID("H264"); got != media.CodecAVC {
		t.Fatalf("expected case-insensitive mapping, got %q", got)
	}
	if got := ffprobe.CodecID("mpeg4"); got != "ffprobe:mpeg4" {
		t.Fatalf("unexpected passthrough %q", got)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := ffprobe.Result{Format: ffprobe.Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if ffprobe.ToContainer(result).Duration != 0 {
		t.Fatal("unparseable duration should map to zero")
	}
}

func TestToContainerMapsMonoToMatroskaChannels(t *testing.T) {
	result, err := ffprobe.Parse([]byte(`{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1040},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 1},
    {"index": 2, "codec_name": "aac", "codec_type": "audio", "channels": 2}
  ],
  "format": {"duration": "5400.0"}
}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	container := ffprobe.ToContainer(result)
	if got := container.Tracks[1].Audio.Channels; got != 0 {
		t.Fatalf("mono should map to 0 channels, got %d", got)
	}
	if got := container.Tracks[2].Audio.Channels; got != 2 {
		t.Fatalf("stereo should stay 2 channels, got %d", got)
	}

	attrs := classify.Classify(container.Tracks)
	if attrs.Channels.Value != "1.0" || !attrs.Channels.Recognized {
		t.Fatalf("expected mono classified as 1.0, got %+v", attrs.Channels)
	}
}

func TestProberRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a unix shell")
	}
	dir := t.TempDir()
	payload := filepath.Join(dir, "out.json")
	if err := os.WriteFile(payload, []byte(sampleOutput), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat " + payload + "\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	container, err := ffprobe.NewProber(stub).Probe(ctx, "/library/movie.mkv")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if len(container.Tracks) != 5 {
		t.Fatalf("expected 5 tracks, got %d", len(container.Tracks))
	}

	failing := filepath.Join(dir, "ffprobe-fail")
	if err := os.WriteFile(failing, []byte("#!/bin/sh\necho 'Invalid data' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write failing stub: %v", err)
	}
	_, err = ffprobe.NewProber(failing).Probe(ctx, "/library/broken.mkv")
	if !errors.Is(err, movieerr.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}
