package movieerr_test

import (
	"errors"
	"strings"
	"testing"

	"movielog/internal/movieerr"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := movieerr.Wrap(movieerr.ErrProbe, "reconcile", "probe", "ffprobe failed", base)
	if !errors.Is(err, movieerr.ErrProbe) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"reconcile", "probe", "ffprobe failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := movieerr.Wrap(movieerr.ErrMalformedName, "naming", "", "missing year", nil)
	if !errors.Is(err, movieerr.ErrMalformedName) {
		t.Fatalf("expected marker, got %v", err)
	}
	if got := err.Error(); got != "malformed name: naming: missing year" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"metadata", movieerr.Wrap(movieerr.ErrMetadataUnavailable, "fingerprint", "stat", "", nil), movieerr.KindIO},
		{"codec", movieerr.Wrap(movieerr.ErrUnknownVideoCodec, "classify", "", "V_AV1", nil), movieerr.KindClassification},
		{"name", movieerr.Wrap(movieerr.ErrMalformedName, "naming", "", "", nil), movieerr.KindClassification},
		{"network", movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "fetch", "", errors.New("dial")), movieerr.KindNetwork},
		{"config", movieerr.Wrap(movieerr.ErrConfiguration, "config", "", "bad", nil), movieerr.KindConfiguration},
		{"other", errors.New("plain"), movieerr.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := movieerr.Kind(tt.err); got != tt.want {
				t.Fatalf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDuplicateFingerprintIsNotClassification(t *testing.T) {
	err := movieerr.Wrap(movieerr.ErrDuplicateFingerprint, "reconcile", "", "", nil)
	if movieerr.IsClassification(err) {
		t.Fatal("duplicate fingerprint must stay fatal regardless of policy")
	}
}
