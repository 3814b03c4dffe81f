package movieerr

import (
	"errors"
	"fmt"
	"strings"
)

// I/O markers.
var (
	ErrMetadataUnavailable = errors.New("metadata unavailable")
	ErrProbe               = errors.New("container probe failed")
	ErrCatalogIO           = errors.New("catalog i/o error")
)

// Classification markers.
var (
	ErrUnresolvableResolution = errors.New("unresolvable resolution")
	ErrUnknownVideoCodec      = errors.New("unknown video codec")
	ErrUnknownChannelLayout   = errors.New("unknown channel layout")
	ErrNoVideoTrack           = errors.New("no video track")
	ErrNoAudioTrack           = errors.New("no audio track")
	ErrMalformedName          = errors.New("malformed name")
	ErrDuplicateFingerprint   = errors.New("duplicate fingerprint")
)

var (
	ErrRatingSource  = errors.New("rating source error")
	ErrConfiguration = errors.New("configuration error")
)

// Kind names used by Kind.
const (
	KindIO             = "io"
	KindClassification = "classification"
	KindNetwork        = "network"
	KindConfiguration  = "configuration"
	KindUnknown        = "unknown"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker. The marker should be one of the exported sentinels.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err == nil {
			return errors.New(detail)
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind classifies err into one of the error families of the run.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMetadataUnavailable), errors.Is(err, ErrProbe), errors.Is(err, ErrCatalogIO):
		return KindIO
	case IsClassification(err):
		return KindClassification
	case errors.Is(err, ErrRatingSource):
		return KindNetwork
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindUnknown
	}
}

// IsClassification reports whether err stems from an unrecognized value in the
// media metadata or file name rather than from an I/O failure.
func IsClassification(err error) bool {
	for _, marker := range []error{
		ErrUnresolvableResolution,
		ErrUnknownVideoCodec,
		ErrUnknownChannelLayout,
		ErrNoVideoTrack,
		ErrNoAudioTrack,
		ErrMalformedName,
	} {
		if errors.Is(err, marker) {
			return true
		}
	}
	return false
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "movielog failure"
	}
	return strings.Join(parts, ": ")
}
