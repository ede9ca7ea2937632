package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds the header probe of a single file.
const DefaultProbeTimeout = 10 * time.Second

// Header is what the container header probe could learn about a file.
// Zero fields were not found.
type Header struct {
	Container   string
	Width       int
	Height      int
	Duration    float64 // seconds
	VideoFormat string
	AudioFormat string
}

// containerNames maps MediaInfo general formats to display names.
var containerNames = map[string]string{
	"MPEG-4":    "MP4",
	"QuickTime": "MOV",
	"Matroska":  "MATROSKA",
	"WebM":      "WEBM",
	"AVI":       "AVI",
	"MPEG-TS":   "TS",
	"BDAV":      "M2TS",
	"MPEG-PS":   "MPEG",
	"Ogg":       "OGG",
}

// ProbeHeader reads container headers of in with go-mediainfo under
// timeout. An unrecognized container is not an error: the zero Header is
// returned. Read errors map to ErrReadFailure and an expired deadline to
// ErrTimeout.
func ProbeHeader(ctx context.Context, in Source, timeout time.Duration) (Header, error) {
	if in.Size() <= 0 {
		return Header{}, fmt.Errorf("%w: empty file", ErrReadFailure)
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report, err := NewMediaInfoCapability().AnalyzeData(ctx, in)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Header{}, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return Header{}, err
	}
	return headerFromReport(report), nil
}

func headerFromReport(report *TrackReport) Header {
	var hdr Header
	general, ok := report.First(TrackGeneral)
	if !ok || general.Format == "" || general.Format == unknownLabel {
		return hdr
	}

	hdr.Container = containerNames[general.Format]
	if hdr.Container == "" {
		hdr.Container = strings.ToUpper(general.Format)
	}
	hdr.Duration = general.Duration

	if v, ok := report.First(TrackVideo); ok {
		hdr.Width, hdr.Height = v.Width, v.Height
		hdr.VideoFormat = v.Format
		if hdr.Duration <= 0 {
			hdr.Duration = v.Duration
		}
	}
	if a, ok := report.First(TrackAudio); ok {
		hdr.AudioFormat = a.Format
	}
	return hdr
}
