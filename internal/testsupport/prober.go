package testsupport

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"movielog/internal/media"
)

// FakeProber serves canned containers keyed by path and records calls.
type FakeProber struct {
	mu         sync.Mutex
	Containers map[string]media.Container
	Errors     map[string]error
	// Default is returned for paths without an entry when non-nil.
	Default *media.Container
	calls   []string
}

// NewFakeProber returns an empty FakeProber.
func NewFakeProber() *FakeProber {
	return &FakeProber{
		Containers: map[string]media.Container{},
		Errors:     map[string]error{},
	}
}

// Probe implements media.Prober.
func (p *FakeProber) Probe(ctx context.Context, path string) (media.Container, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, path)
	if err := ctx.Err(); err != nil {
		return media.Container{}, err
	}
	if err, ok := p.Errors[path]; ok {
		return media.Container{}, err
	}
	if c, ok := p.Containers[path]; ok {
		return c, nil
	}
	if p.Default != nil {
		return *p.Default, nil
	}
	return media.Container{}, fmt.Errorf("fake prober: no container for %s", path)
}

// Calls returns the probed paths in order.
func (p *FakeProber) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// UHDContainer returns a 2160p HEVC container with TrueHD 7.1 audio and PGS
// subtitles running for duration.
func UHDContainer(duration time.Duration) media.Container {
	return media.Container{
		Duration: duration,
		Tracks: []media.Track{
			{Type: media.TrackVideo, CodecID: media.CodecHEVC, Video: &media.VideoSettings{PixelWidth: 3840, PixelHeight: 2160}},
			{Type: media.TrackAudio, CodecID: media.CodecTrueHD, Audio: &media.AudioSettings{Channels: 8}},
			{Type: media.TrackSubtitle, CodecID: media.CodecPGS},
		},
	}
}

// HDContainer returns a 1080p AVC container with AC3 stereo audio and no
// subtitles.
func HDContainer(duration time.Duration) media.Container {
	return media.Container{
		Duration: duration,
		Tracks: []media.Track{
			{Type: media.TrackVideo, CodecID: media.CodecAVC, Video: &media.VideoSettings{PixelWidth: 1920, PixelHeight: 1080}},
			{Type: media.TrackAudio, CodecID: media.CodecAC3, Audio: &media.AudioSettings{Channels: 2}},
		},
	}
}

// FileInfo is an in-memory fs.FileInfo for building scan entries without
// touching disk.
type FileInfo struct {
	FileName string
	FileSize int64
	Modified time.Time
}

func (f FileInfo) Name() string       { return f.FileName }
func (f FileInfo) Size() int64        { return f.FileSize }
func (f FileInfo) Mode() fs.FileMode  { return 0o644 }
func (f FileInfo) ModTime() time.Time { return f.Modified }
func (f FileInfo) IsDir() bool        { return false }
func (f FileInfo) Sys() any           { return nil }
