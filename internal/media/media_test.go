package media_test

import (
	"testing"
	"time"

	"movielog/internal/media"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0h 00min"},
		{59 * time.Second, "0h 00min"},
		{7*time.Minute + 59*time.Second, "0h 07min"},
		{2*time.Hour + 7*time.Minute + 30*time.Second, "2h 07min"},
		{3*time.Hour + 59*time.Minute, "3h 59min"},
		{-time.Minute, "0h 00min"},
	}
	for _, tt := range tests {
		if got := media.FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstOfTypeSearchesByType(t *testing.T) {
	c := media.Container{Tracks: []media.Track{
		{Type: media.TrackSubtitle, CodecID: media.CodecSubRip},
		{Type: media.TrackAudio, CodecID: media.CodecAC3},
		{Type: media.TrackVideo, CodecID: media.CodecHEVC},
		{Type: media.TrackAudio, CodecID: media.CodecDTS},
	}}

	video, ok := media.FirstOfType(c.Tracks, media.TrackVideo)
	if !ok || video.CodecID != media.CodecHEVC {
		t.Fatalf("unexpected video track %+v (ok=%v)", video, ok)
	}
	audio, ok := media.FirstOfType(c.Tracks, media.TrackAudio)
	if !ok || audio.CodecID != media.CodecAC3 {
		t.Fatalf("expected first audio track, got %+v", audio)
	}
	if _, ok := media.FirstOfType(nil, media.TrackVideo); ok {
		t.Fatal("expected no track in empty list")
	}
}
